package bankreg

import "sync"

//go:generate mockgen -destination=mocks/repository.go -package=mocks . Repository

// Repository is the ordered backing store of a Bank. Accounts are kept in the
// order they were appended.
type Repository interface {
	Append(acct *Account)
	Accounts() []*Account
}

var (
	_ Repository = (*MemoryRepository)(nil)
)

// MemoryRepository keeps accounts in a slice. The slice returned by Accounts
// is a copy, but the *Account values are shared with the repository, so a
// caller holding the repository sees every append and balance change made
// through a Bank built on it.
type MemoryRepository struct {
	mu    sync.RWMutex
	accts []*Account
}

func NewMemoryRepository(accts ...*Account) *MemoryRepository {
	return &MemoryRepository{accts: append([]*Account(nil), accts...)}
}

func (m *MemoryRepository) Append(acct *Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accts = append(m.accts, acct)
}

func (m *MemoryRepository) Accounts() []*Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Account, len(m.accts))
	copy(out, m.accts)
	return out
}

func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accts)
}
