package bankreg

import (
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out positive account ids, each strictly greater than
// every id it returned before.
type IDGenerator interface {
	NextID() int64
}

var (
	_ IDGenerator = (*Counter)(nil)
	_ IDGenerator = (*SnowflakeIDs)(nil)
)

// processIDs backs NewAccount. It is never reset.
var processIDs = NewCounter()

// Counter issues 1, 2, 3, ... and is safe for concurrent use. Tests that need
// predictable ids give each Bank its own Counter.
type Counter struct {
	last atomic.Int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) NextID() int64 {
	return c.last.Add(1)
}

// SnowflakeIDs issues snowflake ids from a single node. Ids from one node are
// time ordered and strictly increasing.
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(node int64) (*SnowflakeIDs, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &SnowflakeIDs{node: n}, nil
}

func (s *SnowflakeIDs) NextID() int64 {
	return s.node.Generate().Int64()
}
