package bankreg

import (
	"sync"

	"github.com/rs/zerolog"
)

// ChargeFunc applies an amount to an account. The method expressions
// (*Account).Deposit and (*Account).Withdraw satisfy it.
type ChargeFunc func(acct *Account, amount float64) error

// Snapshot is a copy of an account's state at the time it was taken.
type Snapshot struct {
	ID      int64
	Balance float64
}

type Option func(*Bank)

func WithIDGenerator(ids IDGenerator) Option {
	return func(b *Bank) {
		b.ids = ids
	}
}

func WithLogger(log *zerolog.Logger) Option {
	return func(b *Bank) {
		b.log = log
	}
}

// Bank looks accounts up by id in its repository and forwards charges to
// them. All operations are serialized by a single mutex.
type Bank struct {
	mu   sync.Mutex
	repo Repository
	ids  IDGenerator
	log  *zerolog.Logger
}

func NewBank(repo Repository, opts ...Option) *Bank {
	nop := zerolog.Nop()
	b := &Bank{
		repo: repo,
		ids:  processIDs,
		log:  &nop,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OpenAccount appends a new account holding initialBalance and returns its
// id. The initial balance is set as is, without deposit validation.
func (b *Bank) OpenAccount(initialBalance float64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct := NewAccountWithIDs(b.ids)
	acct.SetBalance(initialBalance)
	b.repo.Append(acct)
	b.log.Debug().
		Int64("acctID", acct.ID()).
		Float64("balance", initialBalance).
		Msg("account opened")
	return acct.ID()
}

func (b *Bank) Deposit(id int64, amount float64) error {
	_, err := b.Charge(id, (*Account).Deposit, amount)
	return err
}

func (b *Bank) Withdraw(id int64, amount float64) error {
	_, err := b.Charge(id, (*Account).Withdraw, amount)
	return err
}

// Charge finds the account with the given id and applies op to it. Errors
// from op are returned unchanged. The balance returned is read under the same
// lock as the charge.
func (b *Bank) Charge(id int64, op ChargeFunc, amount float64) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.find(id)
	if err != nil {
		return 0, err
	}
	if err = op(acct, amount); err != nil {
		return 0, err
	}
	return acct.Balance(), nil
}

func (b *Bank) Balance(id int64) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acct, err := b.find(id)
	if err != nil {
		return 0, err
	}
	return acct.Balance(), nil
}

// Accounts lists every account in store order.
func (b *Bank) Accounts() []Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	accts := b.repo.Accounts()
	out := make([]Snapshot, 0, len(accts))
	for _, a := range accts {
		out = append(out, Snapshot{ID: a.ID(), Balance: a.Balance()})
	}
	return out
}

func (b *Bank) find(id int64) (*Account, error) {
	for _, a := range b.repo.Accounts() {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, ErrNotFound{ID: id}
}
