package bankreg

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

var (
	_ Service = (*validationMiddleware)(nil)
)

type Middleware func(Service) Service

// Chain wraps svc so that mws[0] is the outermost layer.
func Chain(svc Service, mws ...Middleware) Service {
	for i := len(mws) - 1; i >= 0; i-- {
		svc = mws[i](svc)
	}
	return svc
}

// validationMiddleware rejects malformed requests before they reach the bank.
// Negative charge amounts pass through on purpose: Account reports them.
type validationMiddleware struct {
	next Service
}

func NewValidationMiddleware() Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{
			next: svc,
		}
	}
}

func (v *validationMiddleware) OpenAccount(req OpenAccountReq) (*AccountInfo, error) {
	if req.InitialBalance.IsNegative() {
		return nil, ErrBadRequest{Fields: map[string]string{"initial_balance": "must not be negative"}}
	}
	return v.next.OpenAccount(req)
}

func (v *validationMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	if err := validateAcctID(req.AcctID); err != nil {
		return nil, err
	}
	return v.next.Deposit(req)
}

func (v *validationMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	if err := validateAcctID(req.AcctID); err != nil {
		return nil, err
	}
	return v.next.Withdraw(req)
}

func (v *validationMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	if err := validateAcctID(req.AcctID); err != nil {
		return nil, err
	}
	return v.next.Balance(req)
}

func (v *validationMiddleware) Accounts() ([]AccountInfo, error) {
	return v.next.Accounts()
}

func (v *validationMiddleware) Statement(w io.Writer, req StatementReq) error {
	if err := validateAcctID(req.AcctID); err != nil {
		return err
	}
	return v.next.Statement(w, req)
}

func validateAcctID(id snowflake.ID) error {
	if id.Int64() <= 0 {
		return ErrBadRequest{Fields: map[string]string{"acctID": "must be positive"}}
	}
	return nil
}

//
// Rate limiting middlewares
//

// limitMiddleware limits the number of in-flight requests per operation with
// a weighted semaphore. A request that cannot acquire a slot within
// ServiceLimits.Timeout fails with ErrUnavailable.
type limitMiddleware struct {
	next   Service
	limits *ServiceLimits
}

var (
	_ Service = (*limitMiddleware)(nil)
)

// ServiceLimits holds one semaphore per operation. A nil semaphore leaves
// that operation unlimited.
type ServiceLimits struct {
	OpenAccount *semaphore.Weighted
	Deposit     *semaphore.Weighted
	Withdraw    *semaphore.Weighted
	Balance     *semaphore.Weighted
	Accounts    *semaphore.Weighted
	Statement   *semaphore.Weighted
	Timeout     time.Duration
}

// NewServiceLimits gives every operation its own semaphore of size n.
func NewServiceLimits(n int64, timeout time.Duration) *ServiceLimits {
	return &ServiceLimits{
		OpenAccount: semaphore.NewWeighted(n),
		Deposit:     semaphore.NewWeighted(n),
		Withdraw:    semaphore.NewWeighted(n),
		Balance:     semaphore.NewWeighted(n),
		Accounts:    semaphore.NewWeighted(n),
		Statement:   semaphore.NewWeighted(n),
		Timeout:     timeout,
	}
}

func NewLimitMiddleware(limits *ServiceLimits) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:   next,
			limits: limits,
		}
	}
}

func (l *limitMiddleware) acquire(sem *semaphore.Weighted) (func(), error) {
	if sem == nil {
		return func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.limits.Timeout)
	defer cancel()
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, ErrUnavailable
	}
	return func() { sem.Release(1) }, nil
}

func (l *limitMiddleware) OpenAccount(req OpenAccountReq) (*AccountInfo, error) {
	release, err := l.acquire(l.limits.OpenAccount)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.OpenAccount(req)
}

func (l *limitMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Deposit)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Deposit(req)
}

func (l *limitMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Withdraw)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Withdraw(req)
}

func (l *limitMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	release, err := l.acquire(l.limits.Balance)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Balance(req)
}

func (l *limitMiddleware) Accounts() ([]AccountInfo, error) {
	release, err := l.acquire(l.limits.Accounts)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Accounts()
}

func (l *limitMiddleware) Statement(w io.Writer, req StatementReq) error {
	release, err := l.acquire(l.limits.Statement)
	if err != nil {
		return err
	}
	defer release()
	return l.next.Statement(w, req)
}

type ServiceBreaker struct {
	OpenAccount *gobreaker.TwoStepCircuitBreaker[*AccountInfo]
	Deposit     *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Withdraw    *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Balance     *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Accounts    *gobreaker.TwoStepCircuitBreaker[[]AccountInfo]
	Statement   *gobreaker.TwoStepCircuitBreaker[any]
}

// NewServiceBreaker builds one breaker per operation from st, suffixing
// st.Name with the operation name.
func NewServiceBreaker(st gobreaker.Settings) *ServiceBreaker {
	named := func(op string) gobreaker.Settings {
		s := st
		s.Name = st.Name + "." + op
		return s
	}
	return &ServiceBreaker{
		OpenAccount: gobreaker.NewTwoStepCircuitBreaker[*AccountInfo](named("open_account")),
		Deposit:     gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](named("deposit")),
		Withdraw:    gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](named("withdraw")),
		Balance:     gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](named("balance")),
		Accounts:    gobreaker.NewTwoStepCircuitBreaker[[]AccountInfo](named("accounts")),
		Statement:   gobreaker.NewTwoStepCircuitBreaker[any](named("statement")),
	}
}

// circuitBreakMiddleware implements the circuit breaker pattern. It works in
// conjunction with limitMiddleware: load shedding errors count as failures,
// so a service that keeps timing out on its semaphores trips the breaker and
// further requests are rejected without queueing.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

// allow asks the breaker for permission and returns the callback that
// reports the outcome. Domain errors are reported as successes.
func allow[T any](cb *gobreaker.TwoStepCircuitBreaker[T]) (func(error), error) {
	done, err := cb.Allow()
	if err != nil {
		return nil, ErrUnavailable
	}
	return func(err error) {
		done(err == nil || isDomainError(err))
	}, nil
}

func (c *circuitBreakMiddleware) OpenAccount(req OpenAccountReq) (*AccountInfo, error) {
	done, err := allow(c.brkrs.OpenAccount)
	if err != nil {
		return nil, err
	}
	info, err := c.next.OpenAccount(req)
	done(err)
	return info, err
}

func (c *circuitBreakMiddleware) Deposit(req ChargeReq) (*decimal.Decimal, error) {
	done, err := allow(c.brkrs.Deposit)
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Deposit(req)
	done(err)
	return bal, err
}

func (c *circuitBreakMiddleware) Withdraw(req ChargeReq) (*decimal.Decimal, error) {
	done, err := allow(c.brkrs.Withdraw)
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Withdraw(req)
	done(err)
	return bal, err
}

func (c *circuitBreakMiddleware) Balance(req BalanceReq) (*decimal.Decimal, error) {
	done, err := allow(c.brkrs.Balance)
	if err != nil {
		return nil, err
	}
	bal, err := c.next.Balance(req)
	done(err)
	return bal, err
}

func (c *circuitBreakMiddleware) Accounts() ([]AccountInfo, error) {
	done, err := allow(c.brkrs.Accounts)
	if err != nil {
		return nil, err
	}
	infos, err := c.next.Accounts()
	done(err)
	return infos, err
}

func (c *circuitBreakMiddleware) Statement(w io.Writer, req StatementReq) error {
	done, err := allow(c.brkrs.Statement)
	if err != nil {
		return err
	}
	err = c.next.Statement(w, req)
	done(err)
	return err
}
