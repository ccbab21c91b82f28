package bankreg

import (
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/service.go -package=mocks . Service

type OpenAccountReq struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type ChargeReq struct {
	Amount decimal.Decimal `json:"amount"`
	AcctID snowflake.ID    `json:"-"`
}

type BalanceReq struct {
	AcctID snowflake.ID
}

type StatementReq struct {
	AcctID snowflake.ID
}

type AccountInfo struct {
	AcctID  snowflake.ID    `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

type Service interface {
	OpenAccount(OpenAccountReq) (*AccountInfo, error)
	Deposit(ChargeReq) (*decimal.Decimal, error)
	Withdraw(ChargeReq) (*decimal.Decimal, error)
	Balance(BalanceReq) (*decimal.Decimal, error)
	Accounts() ([]AccountInfo, error)
	Statement(io.Writer, StatementReq) error
}

var (
	_ Service = (*serviceImpl)(nil)
)

func NewService(bank *Bank, log *zerolog.Logger) Service {
	return &serviceImpl{
		bank: bank,
		log:  log,
		now:  time.Now,
	}
}

type serviceImpl struct {
	bank *Bank
	log  *zerolog.Logger
	now  func() time.Time
}

func (s *serviceImpl) OpenAccount(req OpenAccountReq) (*AccountInfo, error) {
	initial, ok := floatAmount(req.InitialBalance)
	if !ok {
		return nil, ErrBadRequest{Fields: map[string]string{"initial_balance": "out of range"}}
	}
	id := s.bank.OpenAccount(initial)
	s.log.Info().Int64("acctID", id).Msg("account opened")
	return &AccountInfo{
		AcctID:  snowflake.ParseInt64(id),
		Balance: decimal.NewFromFloat(initial),
	}, nil
}

func (s *serviceImpl) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	return s.charge(req, boundedDeposit)
}

func (s *serviceImpl) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	return s.charge(req, (*Account).Withdraw)
}

// boundedDeposit refuses a deposit that would push the balance past the
// largest finite float64. The account is left untouched in that case.
func boundedDeposit(acct *Account, amount float64) error {
	if amount > 0 && !isFinite(acct.Balance()+amount) {
		return ErrInvalidArgument{
			Message: fmt.Sprintf("Cannot deposit %s into %s", FormatAmount(amount), FormatAmount(acct.Balance())),
		}
	}
	return acct.Deposit(amount)
}

func (s *serviceImpl) charge(req ChargeReq, op ChargeFunc) (*decimal.Decimal, error) {
	amt, ok := floatAmount(req.Amount)
	if !ok {
		return nil, ErrBadRequest{Fields: map[string]string{"amount": "out of range"}}
	}
	bal, err := s.bank.Charge(req.AcctID.Int64(), op, amt)
	if err != nil {
		return nil, err
	}
	d, err := decimalAmount(bal)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *serviceImpl) Balance(req BalanceReq) (*decimal.Decimal, error) {
	bal, err := s.bank.Balance(req.AcctID.Int64())
	if err != nil {
		return nil, err
	}
	d, err := decimalAmount(bal)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *serviceImpl) Accounts() ([]AccountInfo, error) {
	snaps := s.bank.Accounts()
	out := make([]AccountInfo, 0, len(snaps))
	for _, sn := range snaps {
		d, err := decimalAmount(sn.Balance)
		if err != nil {
			s.log.Err(err).Int64("acctID", sn.ID).Msg("account balance not representable")
			return nil, err
		}
		out = append(out, AccountInfo{
			AcctID:  snowflake.ParseInt64(sn.ID),
			Balance: d,
		})
	}
	return out, nil
}

func (s *serviceImpl) Statement(w io.Writer, req StatementReq) error {
	bal, err := s.bank.Balance(req.AcctID.Int64())
	if err != nil {
		return err
	}
	d, err := decimalAmount(bal)
	if err != nil {
		return err
	}
	info := AccountInfo{AcctID: req.AcctID, Balance: d}
	if err = WriteStatement(w, info, s.now()); err != nil {
		s.log.Err(err).Int64("acctID", req.AcctID.Int64()).Msg("error rendering statement")
		return ErrInternalServer
	}
	return nil
}
