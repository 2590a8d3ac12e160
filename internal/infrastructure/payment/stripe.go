package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/market-backend/internal/cfg"
	"github.com/DRSN-tech/market-backend/internal/usecase"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	paymentMethodCard = "card"
	// Ошибки процессора отдаются вызывающему без повторов. Nil в BackendConfig включил бы повторы SDK по умолчанию.
	maxNetworkRetries = 0
)

// StripeProcessor создаёт и проверяет PaymentIntent в Stripe. Принимаются только карты.
type StripeProcessor struct {
	api    *client.API
	logger logger.Logger
}

func NewStripeProcessor(cfg *cfg.PaymentCfg, logger logger.Logger) *StripeProcessor {
	return NewStripeProcessorWithBackend(cfg.SecretKey, nil, logger)
}

// NewStripeProcessorWithBackend позволяет направить запросы на другой адрес API.
// Пустой url означает рабочий API Stripe.
func NewStripeProcessorWithBackend(secretKey string, url *string, log logger.Logger) *StripeProcessor {
	backendCfg := &stripe.BackendConfig{
		URL:               url,
		MaxNetworkRetries: stripe.Int64(maxNetworkRetries),
		LeveledLogger:     &stripeLogger{log: log},
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	return &StripeProcessor{
		api:    client.New(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend}),
		logger: log,
	}
}

// CreateIntent создаёт PaymentIntent. Ключ идемпотентности: идентификатор расчёта,
// поэтому повтор запроса не порождает второе списание.
func (s *StripeProcessor) CreateIntent(ctx context.Context, req *usecase.CreateIntentReq) (*usecase.CreateIntentRes, error) {
	const op = "StripeProcessor.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountMinor),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{paymentMethodCard}),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, e.Wrap(op, describe(err))
	}

	return usecase.NewCreateIntentRes(intent.ID, intent.ClientSecret), nil
}

func (s *StripeProcessor) RetrieveIntent(ctx context.Context, intentID string) (*usecase.RetrieveIntentRes, error) {
	const op = "StripeProcessor.RetrieveIntent"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := s.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, e.Wrap(op, describe(err))
	}

	return usecase.NewRetrieveIntentRes(intent.ID, usecase.IntentStatus(intent.Status), intent.Amount, string(intent.Currency)), nil
}

// describe добавляет к ошибке Stripe код и HTTP-статус, не раскрывая секретов.
func describe(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe %s (status %d, code %q, request %s): %w",
			stripeErr.Type, stripeErr.HTTPStatusCode, stripeErr.Code, stripeErr.RequestID, err)
	}
	return err
}

// stripeLogger направляет журнал клиента Stripe в логгер приложения.
type stripeLogger struct {
	log logger.Logger
}

func (l *stripeLogger) Debugf(format string, v ...interface{}) { l.log.Debugf(format, v...) }
func (l *stripeLogger) Infof(format string, v ...interface{})  { l.log.Debugf(format, v...) }
func (l *stripeLogger) Warnf(format string, v ...interface{})  { l.log.Warnf(format, v...) }
func (l *stripeLogger) Errorf(format string, v ...interface{}) {
	l.log.Errorf(errors.New(fmt.Sprintf(format, v...)), "stripe client error")
}
