package merchant

import (
	"context"
	"fmt"
	"time"

	"github.com/alovak/bacgateway/gateway"
	gwmodels "github.com/alovak/bacgateway/gateway/models"
	"github.com/alovak/bacgateway/internal/events"
	"github.com/alovak/bacgateway/internal/expiry"
	"github.com/alovak/bacgateway/internal/pan"
	"github.com/alovak/bacgateway/merchant/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// PaymentGateway is the part of *gateway.Gateway the service drives.
type PaymentGateway interface {
	Test() bool
	Purchase(ctx context.Context, amount int64, card gwmodels.CreditCard, opts gwmodels.Options) (gwmodels.Result, error)
	Authorize(ctx context.Context, amount int64, card gwmodels.CreditCard, opts gwmodels.Options) (gwmodels.Result, error)
	Capture(ctx context.Context, amount int64, authorization string, opts gwmodels.Options) (gwmodels.Result, error)
	Refund(ctx context.Context, amount int64, authorization string, opts gwmodels.Options) (gwmodels.Result, error)
	Credit(ctx context.Context, amount int64, authorization string, opts gwmodels.Options) (gwmodels.Result, error)
	Void(ctx context.Context, authorization string, opts gwmodels.Options) (gwmodels.Result, error)
	Verify(ctx context.Context, card gwmodels.CreditCard, opts gwmodels.Options) (gwmodels.Result, error)
}

var _ PaymentGateway = (*gateway.Gateway)(nil)

// Service runs payments through the gateway, journals every processor
// outcome and publishes it as an event.
type Service struct {
	logger    *slog.Logger
	gw        PaymentGateway
	repo      *Repository
	publisher events.Publisher
	currency  string
	now       func() time.Time
}

func NewService(logger *slog.Logger, gw PaymentGateway, repo *Repository, publisher events.Publisher, currency string) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		logger:    logger.With(slog.String("app", "merchant")),
		gw:        gw,
		repo:      repo,
		publisher: publisher,
		currency:  currency,
		now:       time.Now,
	}
}

func (s *Service) Purchase(ctx context.Context, req models.CardPayment) (models.PaymentResponse, error) {
	return s.card(ctx, models.OperationPurchase, req, s.gw.Purchase)
}

func (s *Service) Authorize(ctx context.Context, req models.CardPayment) (models.PaymentResponse, error) {
	return s.card(ctx, models.OperationAuthorize, req, s.gw.Authorize)
}

// Verify ignores req.Amount; the gateway authorizes its own nominal amount.
func (s *Service) Verify(ctx context.Context, req models.CardPayment) (models.PaymentResponse, error) {
	req.Amount = gateway.VerifyAmount
	return s.card(ctx, models.OperationVerify, req, func(ctx context.Context, _ int64, card gwmodels.CreditCard, opts gwmodels.Options) (gwmodels.Result, error) {
		return s.gw.Verify(ctx, card, opts)
	})
}

func (s *Service) Capture(ctx context.Context, authorization string, req models.ReferencePayment) (models.PaymentResponse, error) {
	return s.reference(ctx, models.OperationCapture, authorization, req, s.gw.Capture)
}

func (s *Service) Refund(ctx context.Context, authorization string, req models.ReferencePayment) (models.PaymentResponse, error) {
	return s.reference(ctx, models.OperationRefund, authorization, req, s.gw.Refund)
}

func (s *Service) Credit(ctx context.Context, authorization string, req models.ReferencePayment) (models.PaymentResponse, error) {
	return s.reference(ctx, models.OperationCredit, authorization, req, s.gw.Credit)
}

func (s *Service) Void(ctx context.Context, authorization string, req models.ReferencePayment) (models.PaymentResponse, error) {
	req.Amount = 0
	return s.reference(ctx, models.OperationVoid, authorization, req, func(ctx context.Context, _ int64, authorization string, opts gwmodels.Options) (gwmodels.Result, error) {
		return s.gw.Void(ctx, authorization, opts)
	})
}

func (s *Service) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding entry: %w", err)
	}
	return e, nil
}

func (s *Service) ListEntries(ctx context.Context, orderID string) ([]*models.Entry, error) {
	entries, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

type cardFunc func(ctx context.Context, amount int64, card gwmodels.CreditCard, opts gwmodels.Options) (gwmodels.Result, error)

type referenceFunc func(ctx context.Context, amount int64, authorization string, opts gwmodels.Options) (gwmodels.Result, error)

func (s *Service) card(ctx context.Context, op models.Operation, req models.CardPayment, call cardFunc) (models.PaymentResponse, error) {
	card, err := s.creditCard(req.Card)
	if err != nil {
		return models.PaymentResponse{}, err
	}
	opts := gwmodels.Options{OrderID: req.OrderID, Currency: req.Currency, IP: req.IP, Email: req.Email}

	res, err := call(ctx, req.Amount, card, opts)
	if err != nil {
		return models.PaymentResponse{}, err
	}
	return s.record(ctx, op, req.Amount, "", opts, res), nil
}

func (s *Service) reference(ctx context.Context, op models.Operation, authorization string, req models.ReferencePayment, call referenceFunc) (models.PaymentResponse, error) {
	opts := gwmodels.Options{OrderID: req.OrderID, Currency: req.Currency}

	res, err := call(ctx, req.Amount, authorization, opts)
	if err != nil {
		return models.PaymentResponse{}, err
	}
	return s.record(ctx, op, req.Amount, authorization, opts, res), nil
}

// creditCard converts an API card. Expired cards are passed through to the
// processor, which has the final say.
func (s *Service) creditCard(c models.Card) (gwmodels.CreditCard, error) {
	number := pan.Normalize(c.Number)
	month, year, err := expiry.ParseCardFace(c.Expiry)
	if err != nil {
		return gwmodels.CreditCard{}, fmt.Errorf("%w: %v", gateway.ErrInvalidCard, err)
	}
	if expired, _ := expiry.IsExpired(month, year, s.now(), nil); expired {
		s.logger.Warn("card appears expired", slog.String("pan", pan.Mask(number)), slog.String("expiry", c.Expiry))
	}
	return gwmodels.CreditCard{
		Number:            number,
		Month:             month,
		Year:              year,
		VerificationValue: c.CVV,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
	}, nil
}

// record journals and publishes res. Failures here are logged only.
// Reference operations journal the authorization they followed up on when
// the processor does not echo one.
func (s *Service) record(ctx context.Context, op models.Operation, amount int64, authorization string, opts gwmodels.Options, res gwmodels.Result) models.PaymentResponse {
	currency := opts.Currency
	if currency == "" {
		currency = s.currency
	}
	if res.Authorization != "" {
		authorization = res.Authorization
	}
	entry := &models.Entry{
		ID:            uuid.New().String(),
		Operation:     op,
		OrderID:       opts.OrderID,
		Amount:        amount,
		Currency:      currency,
		Authorization: authorization,
		Succeeded:     res.Succeeded,
		Message:       res.Message,
		ErrorCode:     res.ErrorCode,
		AVSCode:       res.AVS.Code,
		CVVCode:       res.CVV.Code,
		Test:          res.Test,
		CreatedAt:     s.now().UTC(),
	}

	resp := models.PaymentResponse{Result: res}
	logger := s.logger.With(slog.String("operation", string(op)), slog.String("entry_id", entry.ID))

	if err := s.repo.Record(ctx, entry); err != nil {
		logger.Error("journaling result", "err", err)
	} else {
		resp.EntryID = entry.ID
	}

	if err := s.publisher.Publish(ctx, string(op), entry); err != nil {
		logger.Error("publishing result", "err", err)
	}
	return resp
}
