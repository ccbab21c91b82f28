package bankreg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arhyth/bankreg"
)

const (
	amount         = 3
	initialBalance = 10
)

func TestAccountID(t *testing.T) {
	t.Run("id is automatically assigned as a positive number", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		assert.Greater(tt, acct.ID(), int64(0), "id should be positive")
	})

	t.Run("ids are incremental", func(tt *testing.T) {
		first := bankreg.NewAccount()
		second := bankreg.NewAccount()
		assert.Less(tt, first.ID(), second.ID(), "ids should be incremental")
	})

	t.Run("new account has zero balance", func(tt *testing.T) {
		assert.Zero(tt, bankreg.NewAccount().Balance())
	})

	t.Run("ids come from the injected generator", func(tt *testing.T) {
		as := assert.New(tt)
		ids := bankreg.NewCounter()
		as.Equal(int64(1), bankreg.NewAccountWithIDs(ids).ID())
		as.Equal(int64(2), bankreg.NewAccountWithIDs(ids).ID())
	})
}

func TestAccountDeposit(t *testing.T) {
	t.Run("increases balance when amount is correct", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(initialBalance)

		err := acct.Deposit(amount)

		require.NoError(tt, err)
		assert.InDelta(tt, initialBalance+amount, acct.Balance(), 0)
	})

	t.Run("accepts a zero amount", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(initialBalance)
		require.NoError(tt, acct.Deposit(0))
		assert.InDelta(tt, initialBalance, acct.Balance(), 0)
	})

	t.Run("returns error when amount is negative", func(tt *testing.T) {
		as := assert.New(tt)
		acct := bankreg.NewAccount()

		err := acct.Deposit(-1)

		as.EqualError(err, "Negative amount: -1.0")
		as.ErrorAs(err, &bankreg.ErrInvalidArgument{})
		as.Zero(acct.Balance())
	})
}

func TestAccountWithdraw(t *testing.T) {
	t.Run("decreases balance when balance is sufficient", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(initialBalance)

		err := acct.Withdraw(amount)

		require.NoError(tt, err)
		assert.InDelta(tt, initialBalance-amount, acct.Balance(), 0)
	})

	t.Run("allows withdrawing the whole balance", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(initialBalance)
		require.NoError(tt, acct.Withdraw(initialBalance))
		assert.Zero(tt, acct.Balance())
	})

	t.Run("returns error when amount is negative", func(tt *testing.T) {
		as := assert.New(tt)
		acct := bankreg.NewAccount()

		err := acct.Withdraw(-1)

		as.EqualError(err, "Negative amount: -1.0")
		as.Zero(acct.Balance())
	})

	t.Run("returns error when balance is insufficient", func(tt *testing.T) {
		as := assert.New(tt)
		acct := bankreg.NewAccount()

		err := acct.Withdraw(amount)

		as.EqualError(err, "Cannot withdraw 3.0 from 0.0")
		as.ErrorAs(err, &bankreg.ErrInvalidArgument{})
		as.Zero(acct.Balance())
	})

	t.Run("negative amount is reported before insufficient balance", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(-5)
		assert.EqualError(tt, acct.Withdraw(-1), "Negative amount: -1.0")
		assert.InDelta(tt, -5, acct.Balance(), 0)
	})

	t.Run("fractional amounts keep their digits in the message", func(tt *testing.T) {
		acct := bankreg.NewAccount()
		acct.SetBalance(2.5)
		assert.EqualError(tt, acct.Withdraw(2.75), "Cannot withdraw 2.75 from 2.5")
	})
}

func TestAccountSetBalanceSkipsValidation(t *testing.T) {
	acct := bankreg.NewAccount()
	acct.SetBalance(-42)
	assert.InDelta(t, -42, acct.Balance(), 0)
}

func TestAccountChargeWithNegativeAmount(t *testing.T) {
	charges := map[string]bankreg.ChargeFunc{
		"deposit":  (*bankreg.Account).Deposit,
		"withdraw": (*bankreg.Account).Withdraw,
	}
	for name, charge := range charges {
		t.Run(name, func(tt *testing.T) {
			assertChargeWithNegativeAmount(tt, charge)
		})
	}
}

func assertChargeWithNegativeAmount(t *testing.T, charge bankreg.ChargeFunc) {
	t.Helper()
	acct := bankreg.NewAccount()

	err := charge(acct, -1.0)

	assert.EqualError(t, err, "Negative amount: -1.0")
	assert.Zero(t, acct.Balance())
}
