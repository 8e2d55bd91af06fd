package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	orderRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/order"
	"github.com/fitform/FitForm-OrderService/internal/orderflow"
	"github.com/fitform/FitForm-OrderService/internal/penalty"
)

// Service сервис для работы с заказами аренды и пошива
// Переходы статусов - чистые функции пакета orderflow; сервис отвечает за
// загрузку строки под блокировкой, сохранение результата и рассылку событий
type Service struct {
	repo         OrderRepository
	settings     SettingsProvider
	txManager    TransactionManager
	dispatcher   NotificationDispatcher
	logger       Logger
	timeProvider TimeProvider
}

// NewService создает новый экземпляр сервиса заказов
func NewService(
	repo OrderRepository,
	settings SettingsProvider,
	txManager TransactionManager,
	dispatcher NotificationDispatcher,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		settings:     settings,
		txManager:    txManager,
		dispatcher:   dispatcher,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// CreateOrderRequest данные нового заказа
type CreateOrderRequest struct {
	CustomerID   int64
	Type         string
	ItemName     string
	ClothingType string
	Measurements map[string]float64
	Notes        *string
}

// Create создает новый заказ в статусе pending
// Для аренды фиксируются действующие тарифы штрафов на момент создания
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	orderType, err := parseOrderType(req.Type)
	if err != nil {
		s.logger.Warn("Create: invalid order type=%s for customer=%d", req.Type, req.CustomerID)
		return nil, err
	}
	if req.ItemName == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}

	o := &domain.Order{
		CustomerID:         req.CustomerID,
		Type:               orderType,
		ItemName:           req.ItemName,
		ClothingType:       req.ClothingType,
		Measurements:       req.Measurements,
		Notes:              req.Notes,
		Status:             domain.OrderPending,
		CounterOfferStatus: domain.CounterOfferNone,
		PenaltyStatus:      domain.PenaltyNone,
	}

	if orderType == domain.OrderTypeRental {
		shopSettings, err := s.settings.Get(ctx)
		if err != nil {
			s.logger.Error("Create: failed to load settings: %v", err)
			return nil, fmt.Errorf("%w: Create - load settings: %v", ErrInternal, err)
		}
		o.CancellationFee = shopSettings.CancellationFee
		o.DamageFeeMin = shopSettings.DamageFeeMin
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		s.logger.Error("Create: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: %s order id=%d created for customer=%d", created.Type, created.ID, created.CustomerID)
	s.notify(ctx, domain.StatusEvent{
		Kind:       domain.EventKindOrder,
		SubjectID:  created.ID,
		OrderType:  created.Type,
		CustomerID: created.CustomerID,
		Actor:      domain.ActorCustomer,
		NewStatus:  string(domain.OrderPending),
		OccurredAt: s.timeProvider.Now(),
	})
	return created, nil
}

// GetByID получает заказ по ID
// Клиент видит только свои заказы, администратор - любые
func (s *Service) GetByID(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("GetByID: order id=%d not found", id)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("GetByID: repository error for order id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !isAdmin && o.CustomerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to order id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return o, nil
}

// ListFilter фильтр списка заказов
type ListFilter struct {
	CustomerID *int64
	Type       *string
	Status     *string
}

// List получает заказы с фильтрацией
// Для клиента фильтр по customer_id подставляется принудительно
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*domain.Order, error) {
	repoFilter := orderRepo.Filter{CustomerID: filter.CustomerID}

	if filter.Type != nil {
		orderType, err := parseOrderType(*filter.Type)
		if err != nil {
			return nil, err
		}
		repoFilter.Type = &orderType
	}
	if filter.Status != nil {
		status, err := parseOrderStatus(*filter.Status)
		if err != nil {
			return nil, err
		}
		repoFilter.Status = &status
	}

	list, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return list, nil
}

// AdminAccept подтверждает новый заказ
func (s *Service) AdminAccept(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.AdminAccept)
}

// AdminDecline отклоняет новый заказ
func (s *Service) AdminDecline(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.AdminDecline)
}

// SetQuotation отправляет клиенту смету
func (s *Service) SetQuotation(ctx context.Context, id int64, amount float64, notes *string) (*domain.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: quotation amount must be positive", ErrInvalidInput)
	}
	return s.transition(ctx, id, nil, func(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
		return orderflow.SetQuotation(o, amount, notes, now)
	})
}

// AcceptQuotation принимает смету от имени клиента
func (s *Service) AcceptQuotation(ctx context.Context, id int64, customerID int64) (*domain.Order, error) {
	return s.transition(ctx, id, ownedBy(customerID), orderflow.CustomerAcceptQuotation)
}

// RejectQuotation отклоняет смету от имени клиента
func (s *Service) RejectQuotation(ctx context.Context, id int64, customerID int64) (*domain.Order, error) {
	return s.transition(ctx, id, ownedBy(customerID), orderflow.CustomerRejectQuotation)
}

// SubmitCounterOffer отправляет встречное предложение клиента
func (s *Service) SubmitCounterOffer(ctx context.Context, id int64, customerID int64, amount float64, notes *string) (*domain.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: counter offer amount must be positive", ErrInvalidInput)
	}
	return s.transition(ctx, id, ownedBy(customerID), func(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
		return orderflow.CustomerCounterOffer(o, amount, notes, now)
	})
}

// AcceptCounterOffer принимает встречное предложение
func (s *Service) AcceptCounterOffer(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.AdminAcceptCounterOffer)
}

// RejectCounterOffer отклоняет встречное предложение
func (s *Service) RejectCounterOffer(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.AdminRejectCounterOffer)
}

// MarkReadyForPickup помечает заказ готовым к выдаче
func (s *Service) MarkReadyForPickup(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.MarkReadyForPickup)
}

// MarkPickedUp помечает заказ выданным
func (s *Service) MarkPickedUp(ctx context.Context, id int64) (*domain.Order, error) {
	return s.transition(ctx, id, nil, orderflow.MarkPickedUp)
}

// MarkReturned помечает арендный заказ возвращенным и, если указан уровень
// повреждений, сразу начисляет штраф
func (s *Service) MarkReturned(ctx context.Context, id int64, damageLevel *string, damageNotes *string) (*domain.Order, error) {
	var level *domain.DamageLevel
	if damageLevel != nil {
		parsed, err := parseDamageLevel(*damageLevel)
		if err != nil {
			return nil, err
		}
		level = &parsed
	}

	return s.transition(ctx, id, nil, func(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
		returned, event, err := orderflow.MarkReturned(o, now)
		if err != nil {
			return o, event, err
		}
		if level != nil {
			returned, err = penalty.Calculate(returned, *level, damageNotes, now)
			if err != nil {
				return o, event, err
			}
		}
		return returned, event, nil
	})
}

// Cancel отменяет заказ
// Для аренды начисляется фиксированный штраф за отмену
func (s *Service) Cancel(ctx context.Context, id int64, userID int64, isAdmin bool) (*domain.Order, error) {
	actor := domain.ActorCustomer
	guard := ownedBy(userID)
	if isAdmin {
		actor = domain.ActorAdmin
		guard = nil
	}
	return s.transition(ctx, id, guard, func(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error) {
		return orderflow.Cancel(o, actor, now)
	})
}

// AcceptAgreement фиксирует согласие клиента с условиями аренды
func (s *Service) AcceptAgreement(ctx context.Context, id int64, customerID int64) (*domain.Order, error) {
	var updated *domain.Order

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		o, err := s.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		if o.CustomerID != customerID {
			return ErrAccessDenied
		}

		next, err := orderflow.AcceptAgreement(*o, s.timeProvider.Now())
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return fmt.Errorf("%w: AcceptAgreement - update order: %v", ErrInternal, err)
		}
		updated = &next
		return nil
	})

	if err != nil {
		s.logger.Warn("AcceptAgreement: order id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("AcceptAgreement: rental agreement accepted for order id=%d", id)
	return updated, nil
}

// AssessDamage начисляет штраф за повреждения по возвращенному арендному заказу
func (s *Service) AssessDamage(ctx context.Context, id int64, damageLevel string, notes *string) (*domain.Order, error) {
	level, err := parseDamageLevel(damageLevel)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		o, err := s.lockOrder(ctx, id)
		if err != nil {
			return err
		}

		next, err := penalty.Calculate(*o, level, notes, s.timeProvider.Now())
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return fmt.Errorf("%w: AssessDamage - update order: %v", ErrInternal, err)
		}
		updated = &next
		return nil
	})

	if err != nil {
		s.logger.Warn("AssessDamage: order id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("AssessDamage: order id=%d, level=%s, total=%.2f", id, level, updated.TotalPenalties)
	return updated, nil
}

// PenaltyBreakdown возвращает расшифровку штрафов по заказу
func (s *Service) PenaltyBreakdown(ctx context.Context, id int64, userID int64, isAdmin bool) (penalty.Breakdown, error) {
	o, err := s.GetByID(ctx, id, userID, isAdmin)
	if err != nil {
		return penalty.Breakdown{}, err
	}
	if !o.IsRental() {
		return penalty.Breakdown{}, penalty.ErrNotRental
	}
	return penalty.GetBreakdown(*o), nil
}

// MarkPenaltyPaid помечает штрафы оплаченными
// Повторный вызов ничего не меняет
func (s *Service) MarkPenaltyPaid(ctx context.Context, id int64) (*domain.Order, error) {
	var updated *domain.Order

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		o, err := s.lockOrder(ctx, id)
		if err != nil {
			return err
		}

		next, changed, err := penalty.MarkPaid(*o, s.timeProvider.Now())
		if err != nil {
			return err
		}
		if !changed {
			updated = o
			return nil
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return fmt.Errorf("%w: MarkPenaltyPaid - update order: %v", ErrInternal, err)
		}
		updated = &next
		return nil
	})

	if err != nil {
		s.logger.Warn("MarkPenaltyPaid: order id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("MarkPenaltyPaid: penalties settled for order id=%d", id)
	return updated, nil
}

// transition выполняет переход статуса в сериализуемой транзакции:
// строка заказа блокируется, чистая функция перехода строит новое состояние,
// результат сохраняется целиком. Событие уходит после фиксации
func (s *Service) transition(
	ctx context.Context,
	id int64,
	guard func(o *domain.Order) error,
	fn func(o domain.Order, now time.Time) (domain.Order, domain.StatusEvent, error),
) (*domain.Order, error) {
	var updated *domain.Order
	var event domain.StatusEvent

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		o, err := s.lockOrder(ctx, id)
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(o); err != nil {
				return err
			}
		}

		next, ev, err := fn(*o, s.timeProvider.Now())
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, &next); err != nil {
			return fmt.Errorf("%w: transition - update order: %v", ErrInternal, err)
		}

		updated = &next
		event = ev
		return nil
	})

	if err != nil {
		var stateErr *orderflow.StateError
		if errors.As(err, &stateErr) {
			s.logger.Warn("transition: order id=%d rejected: %v", id, err)
		} else {
			s.logger.Error("transition: order id=%d failed: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("transition: order id=%d moved %s -> %s", id, event.OldStatus, event.NewStatus)
	s.notify(ctx, event)
	return updated, nil
}

func (s *Service) lockOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: load order: %v", ErrInternal, err)
	}
	return o, nil
}

func (s *Service) notify(ctx context.Context, event domain.StatusEvent) {
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Error("notify: dispatch failed for order #%d: %v", event.SubjectID, err)
	}
}

func ownedBy(customerID int64) func(o *domain.Order) error {
	return func(o *domain.Order) error {
		if o.CustomerID != customerID {
			return ErrAccessDenied
		}
		return nil
	}
}

func parseOrderType(t string) (domain.OrderType, error) {
	switch domain.OrderType(t) {
	case domain.OrderTypeRental, domain.OrderTypePurchase:
		return domain.OrderType(t), nil
	default:
		return "", fmt.Errorf("%w: unknown order type %q", ErrInvalidInput, t)
	}
}

func parseOrderStatus(status string) (domain.OrderStatus, error) {
	switch domain.OrderStatus(status) {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderDeclined,
		domain.OrderQuotationSent, domain.OrderCounterOfferPending,
		domain.OrderInProgress, domain.OrderReadyForPickup,
		domain.OrderPickedUp, domain.OrderReturned, domain.OrderCancelled:
		return domain.OrderStatus(status), nil
	default:
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, status)
	}
}

func parseDamageLevel(level string) (domain.DamageLevel, error) {
	switch domain.DamageLevel(level) {
	case domain.DamageNone, domain.DamageMinor, domain.DamageMajor, domain.DamageSevere:
		return domain.DamageLevel(level), nil
	default:
		return "", fmt.Errorf("%w: unknown damage level %q", ErrInvalidInput, level)
	}
}
