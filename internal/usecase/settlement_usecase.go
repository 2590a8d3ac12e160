package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/market-backend/internal/domain"
	"github.com/DRSN-tech/market-backend/pkg/e"
	"github.com/DRSN-tech/market-backend/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/text/currency"
)

// SettlementOptions: параметры координатора расчётов.
type SettlementOptions struct {
	Currency currency.Unit
	// VerifyIntents включает проверку статуса намерения у процессора перед записью заказа.
	VerifyIntents bool
	// MaxAttempts: после стольких неудачных попыток записи заказа расчёт переводится в FAILED.
	MaxAttempts int
}

// SettlementUseCase проводит покупку через состояния
// INIT -> INTENT_CREATED -> AUTHORIZED -> ORDER_PERSISTED, каждое из которых сохраняется в БД.
type SettlementUseCase struct {
	productRepo    ProductRepository
	settlementRepo SettlementRepository
	orderRepo      OrderRepository
	outboxRepo     OutboxRepository
	payment        PaymentProcessor
	receipts       ReceiptArchive
	txRunner       TxRunner
	opts           SettlementOptions
	logger         logger.Logger
}

func NewSettlementUC(
	productRepo ProductRepository,
	settlementRepo SettlementRepository,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	payment PaymentProcessor,
	receipts ReceiptArchive,
	txRunner TxRunner,
	opts SettlementOptions,
	logger logger.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		productRepo:    productRepo,
		settlementRepo: settlementRepo,
		orderRepo:      orderRepo,
		outboxRepo:     outboxRepo,
		payment:        payment,
		receipts:       receipts,
		txRunner:       txRunner,
		opts:           opts,
		logger:         logger,
	}
}

// CreatePaymentIntent считает сумму покупки и создаёт платёжное намерение у процессора.
// Отсутствующий продукт и некорректное количество отклоняются до обращения к процессору.
func (s *SettlementUseCase) CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentReq) (*CreatePaymentIntentRes, error) {
	const op = "SettlementUseCase.CreatePaymentIntent"

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	buyer := req.Buyer
	buyer.Email = domain.NormalizeEmail(buyer.Email)

	settlement, err := domain.NewSettlement(product, req.Quantity, buyer, s.opts.Currency)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := s.settlementRepo.Create(ctx, settlement); err != nil {
		return nil, e.Wrap(op, err)
	}

	intent, err := s.payment.CreateIntent(ctx, NewCreateIntentReq(settlement))
	if err != nil {
		s.logger.Errorf(err, "Payment intent creation failed: settlement_id=%s amount_minor=%d", settlement.ID, settlement.AmountMinor)
		s.fail(ctx, settlement, e.ErrAuthorizationSetup.Error())
		return nil, e.Wrap(op, e.ErrAuthorizationSetup)
	}

	settlement.IntentID = intent.IntentID
	if err := settlement.Transition(domain.SettlementIntentCreated); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := s.settlementRepo.Update(ctx, settlement, domain.SettlementInit); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCreatePaymentIntentRes(settlement, intent.ClientSecret), nil
}

// SettleOrder записывает заказ после того, как клиент сообщил об успешной оплате.
// Повторный вызов для AUTHORIZED повторяет запись заказа, для ORDER_PERSISTED возвращает конфликт.
func (s *SettlementUseCase) SettleOrder(ctx context.Context, req *SettleOrderReq) (*domain.Order, error) {
	const op = "SettlementUseCase.SettleOrder"

	if req.TransactionID == "" {
		return nil, e.Wrap(op, e.ErrTransactionIDRequired)
	}

	settlement, err := s.settlementRepo.GetByID(ctx, req.SettlementID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if settlement.BuyerEmail != domain.NormalizeEmail(req.Buyer.Email) {
		return nil, e.Wrap(op, e.ErrForbidden)
	}

	if settlement.IntentID != req.TransactionID {
		return nil, e.Wrap(op, e.ErrTransactionMismatch)
	}

	switch settlement.State {
	case domain.SettlementOrderPersisted:
		return nil, e.Wrap(op, e.ErrSettlementCompleted)
	case domain.SettlementFailed:
		return nil, e.Wrap(op, e.ErrSettlementFailed)
	case domain.SettlementIntentCreated:
		if err := s.authorize(ctx, settlement); err != nil {
			return nil, e.Wrap(op, err)
		}
	case domain.SettlementAuthorized:
		s.logger.Infof("Retrying order persistence: settlement_id=%s transaction_id=%s", settlement.ID, settlement.IntentID)
	default:
		return nil, e.Wrap(op, e.ErrInvalidTransition)
	}

	order, err := s.persistOrder(ctx, settlement)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// GetSettlement возвращает расчёт по идентификатору.
func (s *SettlementUseCase) GetSettlement(ctx context.Context, id uuid.UUID) (*domain.Settlement, error) {
	const op = "SettlementUseCase.GetSettlement"

	settlement, err := s.settlementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return settlement, nil
}

// ListPendingReconciliation возвращает все расчёты с оплатой без записанного заказа.
func (s *SettlementUseCase) ListPendingReconciliation(ctx context.Context) ([]domain.Settlement, error) {
	const op = "SettlementUseCase.ListPendingReconciliation"

	settlements, err := s.settlementRepo.ListFlagged(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return settlements, nil
}

// Reconcile повторяет запись заказа для помеченных расчётов и возвращает число восстановленных.
func (s *SettlementUseCase) Reconcile(ctx context.Context, limit int) (int, error) {
	const op = "SettlementUseCase.Reconcile"

	settlements, err := s.settlementRepo.ListForReconciliation(ctx, limit)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	var reconciled int
	for i := range settlements {
		if ctx.Err() != nil {
			return reconciled, ctx.Err()
		}

		settlement := &settlements[i]
		if s.opts.MaxAttempts > 0 && settlement.Attempts >= s.opts.MaxAttempts {
			s.logger.Errorf(errors.New(settlement.FailureReason),
				"Reconciliation attempts exhausted, manual handling required: settlement_id=%s transaction_id=%s",
				settlement.ID, settlement.IntentID)
			s.fail(ctx, settlement, "reconciliation attempts exhausted")
			continue
		}

		if _, err := s.persistOrder(ctx, settlement); err != nil {
			continue
		}

		reconciled++
		s.logger.Infof("Settlement reconciled: settlement_id=%s transaction_id=%s", settlement.ID, settlement.IntentID)
	}

	return reconciled, nil
}

// authorize подтверждает оплату у процессора и сохраняет AUTHORIZED.
func (s *SettlementUseCase) authorize(ctx context.Context, settlement *domain.Settlement) error {
	if s.opts.VerifyIntents {
		intent, err := s.payment.RetrieveIntent(ctx, settlement.IntentID)
		if err != nil {
			s.logger.Errorf(err, "Payment intent lookup failed: settlement_id=%s transaction_id=%s", settlement.ID, settlement.IntentID)
			return e.ErrPaymentProvider
		}

		if intent.Status != IntentSucceeded || intent.AmountMinor != settlement.AmountMinor {
			s.logger.Warnf("Payment not confirmed: settlement_id=%s transaction_id=%s status=%s amount=%d expected=%d",
				settlement.ID, settlement.IntentID, intent.Status, intent.AmountMinor, settlement.AmountMinor)
			s.fail(ctx, settlement, "payment not confirmed: "+string(intent.Status))
			return e.ErrPaymentNotConfirmed
		}
	}

	if err := settlement.Transition(domain.SettlementAuthorized); err != nil {
		return err
	}

	if err := s.settlementRepo.Update(ctx, settlement, domain.SettlementIntentCreated); err != nil {
		if isStateConflict(err) {
			s.logger.Infof("Settlement changed by a concurrent call: settlement_id=%s: %v", settlement.ID, err)
			return err
		}
		s.logger.Errorf(err, "Failed to record authorization: settlement_id=%s transaction_id=%s", settlement.ID, settlement.IntentID)
		return err
	}

	return nil
}

// persistOrder в одной транзакции пишет заказ, переводит расчёт в ORDER_PERSISTED и пишет событие order.paid.
// При ошибке расчёт остаётся AUTHORIZED с флагом needs_reconciliation, а вызывающий получает ошибку.
func (s *SettlementUseCase) persistOrder(ctx context.Context, settlement *domain.Settlement) (*domain.Order, error) {
	var order *domain.Order
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.Create(ctx, domain.OrderFromSettlement(settlement))
		if err != nil {
			return err
		}

		persisted := *settlement
		if err := persisted.Transition(domain.SettlementOrderPersisted); err != nil {
			return err
		}
		persisted.NeedsReconciliation = false
		persisted.FailureReason = ""
		if err := s.settlementRepo.Update(ctx, &persisted, domain.SettlementAuthorized); err != nil {
			return err
		}

		event, err := newOrderPaidEvent(order)
		if err != nil {
			return err
		}
		if _, err := s.outboxRepo.Create(ctx, event); err != nil {
			return err
		}

		*settlement = persisted
		return nil
	})
	if err != nil {
		// Заказ уже записан параллельным вызовом: расчёт не помечается для сверки.
		if isStateConflict(err) {
			s.logger.Infof("Order persistence skipped, settlement changed concurrently: settlement_id=%s: %v", settlement.ID, err)
			return nil, err
		}

		if markErr := s.markForReconciliation(ctx, settlement, err); isStateConflict(markErr) {
			return nil, markErr
		}
		return nil, e.ErrSettlementInconsistent
	}

	s.archiveReceipt(ctx, order)

	return order, nil
}

// markForReconciliation фиксирует, что оплата прошла, а заказ не записан.
// Флаг ставится, только если расчёт всё ещё AUTHORIZED.
func (s *SettlementUseCase) markForReconciliation(ctx context.Context, settlement *domain.Settlement, cause error) error {
	s.logger.Errorf(cause, "Order persistence failed after payment authorization: settlement_id=%s transaction_id=%s buyer=%s amount_minor=%d",
		settlement.ID, settlement.IntentID, settlement.BuyerEmail, settlement.AmountMinor)

	settlement.NeedsReconciliation = true
	settlement.FailureReason = cause.Error()
	settlement.Attempts++

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.settlementRepo.Update(ctx, settlement, domain.SettlementAuthorized); err != nil {
			return err
		}

		event, err := newReconciliationEvent(settlement)
		if err != nil {
			return err
		}
		_, err = s.outboxRepo.Create(ctx, event)
		return err
	})
	if err != nil {
		s.logger.Errorf(err, "Failed to flag settlement for reconciliation: settlement_id=%s transaction_id=%s",
			settlement.ID, settlement.IntentID)
	}

	return err
}

// fail переводит расчёт в FAILED. Ошибка записи только логируется: вызывающий уже получает ошибку.
func (s *SettlementUseCase) fail(ctx context.Context, settlement *domain.Settlement, reason string) {
	from := settlement.State
	if err := settlement.Fail(reason); err != nil {
		s.logger.Warnf("Cannot fail settlement %s: %v", settlement.ID, err)
		return
	}

	if err := s.settlementRepo.Update(ctx, settlement, from); err != nil {
		s.logger.Errorf(err, "Failed to record settlement failure: settlement_id=%s", settlement.ID)
	}
}

func (s *SettlementUseCase) archiveReceipt(ctx context.Context, order *domain.Order) {
	if s.receipts == nil {
		return
	}

	key, err := s.receipts.PutReceipt(ctx, order)
	if err != nil {
		s.logger.Warnf("Failed to archive receipt: transaction_id=%s: %v", order.TransactionID, err)
		return
	}

	s.logger.Debugf("Receipt archived: %s", key)
}

// isStateConflict сообщает, что расчёт уже перевёл в другое состояние параллельный вызов.
func isStateConflict(err error) bool {
	return errors.Is(err, e.ErrSettlementCompleted) ||
		errors.Is(err, e.ErrSettlementFailed) ||
		errors.Is(err, e.ErrInvalidTransition)
}
