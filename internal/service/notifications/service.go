package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitform/FitForm-OrderService/internal/domain"
	notificationRepo "github.com/fitform/FitForm-OrderService/internal/infra/storage/notification"
)

// Service сервис ленты уведомлений
type Service struct {
	repo   NotificationRepository
	logger Logger
}

// NewService создает новый сервис уведомлений
func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List возвращает ленту уведомлений пользователя, новые первыми
// Администраторы видят общую ленту широковещательных уведомлений
func (s *Service) List(ctx context.Context, userID int64, isAdmin bool) ([]*domain.Notification, error) {
	var (
		items []*domain.Notification
		err   error
	)

	if isAdmin {
		items, err = s.repo.ListForAdmins(ctx)
	} else {
		items, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: List - fetch notifications: %v", ErrInternal, err)
	}

	return items, nil
}

// MarkRead помечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("%w: MarkRead - update notification: %v", ErrInternal, err)
	}

	return nil
}
