package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/infra/cache"
	rabbit "printstore/internal/infra/rabbitmq"
	"printstore/internal/infra/vnpay"
	"printstore/internal/repository"
)

const ipnLockTTL = 30 * time.Second

// PaymentGateway is the hosted payment page provider.
type PaymentGateway interface {
	PaymentURL(req vnpay.PaymentRequest) (string, error)
	Verify(params url.Values) bool
}

var _ PaymentGateway = (*vnpay.Client)(nil)

type PaymentService struct {
	store   repository.Store
	authz   auth.Authorizer
	tx      txRunner
	events  eventPublisher
	gateway PaymentGateway
	locks   cache.Cache
	logger  *zap.Logger
	now     func() time.Time
}

// NewPaymentService wires the payment flows. gateway and locks may be nil
// when VNPay or Redis are not configured.
func NewPaymentService(store repository.Store, pub rabbit.PublisherInterface, gateway PaymentGateway, locks cache.Cache, logger *zap.Logger, maxAttempts int) *PaymentService {
	return &PaymentService{
		store:   store,
		authz:   auth.NewAuthorizer(),
		tx:      newTxRunner(store, maxAttempts, logger),
		events:  eventPublisher{publisher: pub, logger: logger},
		gateway: gateway,
		locks:   locks,
		logger:  logger,
		now:     time.Now,
	}
}

func mapDuplicate(err, target error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return target
	}
	return err
}

func paymentPaidEvent(p *domain.Payment, now time.Time) domain.PaymentPaidEvent {
	evt := domain.PaymentPaidEvent{
		PaymentID:  p.ID,
		OrderID:    p.OrderID,
		Amount:     p.Amount,
		OccurredAt: now,
	}
	if p.TransactionID != nil {
		evt.TransactionID = *p.TransactionID
	}
	return evt
}

func (s *PaymentService) loadPayment(ctx context.Context, payments repository.PaymentRepository, id string) (*domain.Payment, error) {
	p, err := payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ownedPayment loads a payment and the order it belongs to.
func (s *PaymentService) ownedPayment(ctx context.Context, tx repository.Store, actor auth.Actor, id string) (*domain.Payment, *domain.Order, error) {
	p, err := s.loadPayment(ctx, tx.Payments(), id)
	if err != nil {
		return nil, nil, err
	}
	order, err := loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, p.OrderID)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return p, order, nil
}

// settle advances the order after a payment change and persists it when
// its status moved.
func (s *PaymentService) settle(ctx context.Context, tx repository.Store, order *domain.Order, p *domain.Payment, wasPaid bool, box *outbox, now time.Time) error {
	if p.Status == domain.PaymentPaid && !wasPaid {
		box.add(domain.EventPaymentPaid, paymentPaidEvent(p, now))
	}
	if !advanceOnPayment(order, p.Status, box, now) {
		return nil
	}
	return tx.Orders().Save(ctx, order)
}

func (s *PaymentService) CreatePayment(ctx context.Context, actor auth.Actor, in CreatePaymentInput) (*domain.Payment, error) {
	var (
		payment *domain.Payment
		box     outbox
	)
	err := s.tx.run(ctx, "payment.create", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		order, err := loadOwnedOrder(ctx, tx.Orders(), s.authz, actor, in.OrderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		existing, err := tx.Payments().FindByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrPaymentExists
		}

		payment, err = newPayment(order.ID, in.PaymentInput, order.TotalAmount, now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return mapDuplicate(err, ErrPaymentExists)
		}
		return s.settle(ctx, tx, order, payment, false, &box, now)
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, actor auth.Actor, status domain.PaymentStatus, method domain.PaymentMethod) ([]domain.Payment, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("unknown payment status %q", status)
	}
	if method != "" && !method.Valid() {
		return nil, invalid("unknown payment method %q", method)
	}
	return s.store.Payments().List(ctx, repository.PaymentFilter{
		UserID: s.authz.ScopeUserID(actor, ""),
		Status: status,
		Method: method,
	})
}

func (s *PaymentService) GetPayment(ctx context.Context, actor auth.Actor, id string) (*domain.Payment, error) {
	p, _, err := s.ownedPayment(ctx, s.store, actor, id)
	return p, err
}

func (s *PaymentService) UpdatePayment(ctx context.Context, actor auth.Actor, id string, in PaymentInput) (*domain.Payment, error) {
	var (
		payment *domain.Payment
		box     outbox
	)
	err := s.tx.run(ctx, "payment.update", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		p, order, err := s.ownedPayment(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}

		wasPaid := p.Status == domain.PaymentPaid
		if err := patchPayment(p, in, now); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		payment = p
		return s.settle(ctx, tx, order, p, wasPaid, &box, now)
	})
	if err != nil {
		return nil, err
	}

	s.events.flush(ctx, &box)
	return payment, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, actor auth.Actor, id string) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, order, err := s.ownedPayment(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		if p.Status == domain.PaymentPaid {
			return ErrPaymentSettled
		}
		payment = p
		return tx.Payments().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// CreateVNPayURL returns the hosted payment page URL for an unpaid payment.
// The gateway is always asked for the current order total.
func (s *PaymentService) CreateVNPayURL(ctx context.Context, actor auth.Actor, id, clientIP string) (string, error) {
	if s.gateway == nil {
		return "", ErrPaymentGatewayOff
	}
	var (
		p     *domain.Payment
		order *domain.Order
	)
	err := s.tx.run(ctx, "payment.vnpay_url", func(tx repository.Store) error {
		var err error
		p, order, err = s.ownedPayment(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return ErrOrderTerminal
		}
		if p.Status == domain.PaymentPaid {
			return ErrPaymentSettled
		}
		if p.Amount.Equal(order.TotalAmount) {
			return nil
		}
		p.Amount = order.TotalAmount
		return tx.Payments().Update(ctx, p)
	})
	if err != nil {
		return "", err
	}

	return s.gateway.PaymentURL(vnpay.PaymentRequest{
		TxnRef:    p.ID,
		Amount:    p.Amount,
		OrderInfo: fmt.Sprintf("Payment for order %s", order.ID),
		ClientIP:  clientIP,
	})
}

type VNPayReturnResult struct {
	Valid        bool            `json:"valid"`
	Success      bool            `json:"success"`
	PaymentID    string          `json:"paymentId,omitempty"`
	ResponseCode string          `json:"responseCode,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

// HandleVNPayReturn reports the outcome shown to the browser after the
// redirect. State is only changed by the IPN.
func (s *PaymentService) HandleVNPayReturn(ctx context.Context, query url.Values) VNPayReturnResult {
	if s.gateway == nil || !s.gateway.Verify(query) {
		return VNPayReturnResult{}
	}
	res, err := vnpay.ParseResult(query)
	if err != nil {
		return VNPayReturnResult{}
	}
	return VNPayReturnResult{
		Valid:        true,
		Success:      res.Succeeded(),
		PaymentID:    res.TxnRef,
		ResponseCode: res.ResponseCode,
		Amount:       res.Amount,
	}
}

// IPNResponse is the body VNPay expects from the IPN endpoint.
type IPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

func ipn(code, message string) IPNResponse {
	return IPNResponse{RspCode: code, Message: message}
}

// HandleVNPayIPN settles a payment from the gateway callback. A replay with
// the same transaction number is acknowledged without changing anything.
func (s *PaymentService) HandleVNPayIPN(ctx context.Context, query url.Values) IPNResponse {
	if s.gateway == nil {
		return ipn(vnpay.RspUnknownError, "Gateway not configured")
	}
	if !s.gateway.Verify(query) {
		return ipn(vnpay.RspInvalidSignature, "Invalid signature")
	}
	res, err := vnpay.ParseResult(query)
	if err != nil {
		return ipn(vnpay.RspUnknownError, "Invalid request")
	}

	if s.locks != nil {
		key := s.locks.Key("vnpay-ipn", res.TxnRef)
		acquired, err := s.locks.SetNX(ctx, key, res.TransactionNo, ipnLockTTL)
		if err != nil {
			s.logger.Warn("ipn lock unavailable", zap.String("payment_id", res.TxnRef), zap.Error(err))
		} else if !acquired {
			return ipn(vnpay.RspUnknownError, "Notification is being processed")
		} else {
			defer func() {
				if err := s.locks.Del(context.WithoutCancel(ctx), key); err != nil {
					s.logger.Warn("ipn lock release failed", zap.String("payment_id", res.TxnRef), zap.Error(err))
				}
			}()
		}
	}

	var (
		rsp IPNResponse
		box outbox
	)
	err = s.tx.run(ctx, "payment.vnpay_ipn", func(tx repository.Store) error {
		box.reset()
		now := s.now()

		p, err := tx.Payments().FindByID(ctx, res.TxnRef)
		if err != nil {
			return err
		}
		if p == nil {
			rsp = ipn(vnpay.RspOrderNotFound, "Order not found")
			return nil
		}
		if !p.Amount.Equal(res.Amount) {
			rsp = ipn(vnpay.RspInvalidAmount, "Invalid amount")
			return nil
		}
		if p.Status == domain.PaymentPaid {
			if p.TransactionID != nil && *p.TransactionID == res.TransactionNo {
				rsp = ipn(vnpay.RspConfirmed, "Confirm Success")
			} else {
				rsp = ipn(vnpay.RspAlreadyConfirmed, "Order already confirmed")
			}
			return nil
		}

		order, err := tx.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if order != nil && order.Status.IsTerminal() {
			s.logger.Warn("vnpay ipn for closed order",
				zap.String("payment_id", p.ID),
				zap.String("order_id", order.ID),
				zap.String("order_status", string(order.Status)))
			rsp = ipn(vnpay.RspAlreadyConfirmed, "Order is closed")
			return nil
		}

		if !res.Succeeded() {
			p.Status = domain.PaymentFailed
			if err := tx.Payments().Update(ctx, p); err != nil {
				return err
			}
			rsp = ipn(vnpay.RspConfirmed, "Confirm Success")
			return nil
		}

		txnNo := res.TransactionNo
		p.Status = domain.PaymentPaid
		p.Method = domain.MethodVNPay
		p.TransactionID = &txnNo
		p.PaidAt = &now
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}

		if order != nil {
			if err := s.settle(ctx, tx, order, p, false, &box, now); err != nil {
				return err
			}
		} else {
			box.add(domain.EventPaymentPaid, paymentPaidEvent(p, now))
		}
		rsp = ipn(vnpay.RspConfirmed, "Confirm Success")
		return nil
	})
	if err != nil {
		s.logger.Error("vnpay ipn failed", zap.String("payment_id", res.TxnRef), zap.Error(err))
		return ipn(vnpay.RspUnknownError, "Unknown error")
	}

	s.logger.Info("vnpay ipn handled",
		zap.String("payment_id", res.TxnRef),
		zap.String("transaction_no", res.TransactionNo),
		zap.String("rsp_code", rsp.RspCode))
	s.events.flush(ctx, &box)
	return rsp
}
