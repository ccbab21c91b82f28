package bankreg

// Account holds a balance under an id assigned at construction. It is not
// safe for concurrent use; Bank serializes access to the accounts it holds.
type Account struct {
	id      int64
	balance float64
}

// NewAccount returns an account with a zero balance and an id from the
// process-wide counter.
func NewAccount() *Account {
	return NewAccountWithIDs(processIDs)
}

// NewAccountWithIDs is NewAccount with the id drawn from ids instead of the
// process-wide counter.
func NewAccountWithIDs(ids IDGenerator) *Account {
	return &Account{id: ids.NextID()}
}

// ID is fixed for the lifetime of the account.
func (a *Account) ID() int64 {
	return a.id
}

func (a *Account) Balance() float64 {
	return a.balance
}

// SetBalance overwrites the balance without any validation, negative values
// included. Use Deposit and Withdraw outside of fixtures.
func (a *Account) SetBalance(balance float64) {
	a.balance = balance
}

func (a *Account) Deposit(amount float64) error {
	if amount < 0 {
		return errNegativeAmount(amount)
	}
	a.balance += amount
	return nil
}

func (a *Account) Withdraw(amount float64) error {
	if amount < 0 {
		return errNegativeAmount(amount)
	}
	if amount > a.balance {
		return errCannotWithdraw(amount, a.balance)
	}
	a.balance -= amount
	return nil
}
