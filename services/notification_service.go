package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/realtime"
)

const maxNotificationList = 100

type NotificationList[T any] struct {
	Notifications []T   `json:"notifications"`
	UnreadCount   int64 `json:"unreadCount"`
}

// NotificationService menyimpan notifikasi in-app. Notifikasi admin juga dikirim ke websocket admin.
type NotificationService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewNotificationService(db *gorm.DB, hub *realtime.Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

func (s *NotificationService) NotifyAdmins(ctx context.Context, notifType, title, message string, relatedID *uint) error {
	if !containsString(models.AdminNotificationTypes, notifType) {
		return ErrInvalidNotificationType
	}
	if err := validateContent(title, message); err != nil {
		return err
	}

	notif := models.AdminNotification{
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.db.WithContext(ctx).Create(&notif).Error; err != nil {
		return err
	}

	s.hub.Broadcast(realtime.Message{Event: realtime.EventAdminNotification, Data: notif})
	return nil
}

func (s *NotificationService) NotifyCustomer(ctx context.Context, customerID uint, notifType, title, message string, relatedID *uint) error {
	if !containsString(models.CustomerNotificationTypes, notifType) {
		return ErrInvalidNotificationType
	}
	if customerID == 0 {
		return newValidationError("CustomerID", "is required")
	}
	if err := validateContent(title, message); err != nil {
		return err
	}

	notif := models.CustomerNotification{
		CustomerID: customerID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		RelatedID:  relatedID,
	}
	return s.db.WithContext(ctx).Create(&notif).Error
}

func (s *NotificationService) ListAdmin(ctx context.Context, unreadOnly bool) (*NotificationList[models.AdminNotification], error) {
	out := &NotificationList[models.AdminNotification]{Notifications: make([]models.AdminNotification, 0)}
	if err := s.list(s.adminScope(ctx), unreadOnly, &out.Notifications, &out.UnreadCount); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationService) ListCustomer(ctx context.Context, customerID uint, unreadOnly bool) (*NotificationList[models.CustomerNotification], error) {
	out := &NotificationList[models.CustomerNotification]{Notifications: make([]models.CustomerNotification, 0)}
	if err := s.list(s.customerScope(ctx, customerID), unreadOnly, &out.Notifications, &out.UnreadCount); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationService) MarkAdminRead(ctx context.Context, id uint) error {
	return s.markRead(s.adminScope(ctx), &models.AdminNotification{}, id)
}

func (s *NotificationService) MarkCustomerRead(ctx context.Context, customerID, id uint) error {
	return s.markRead(s.customerScope(ctx, customerID), &models.CustomerNotification{}, id)
}

// MarkAllAdminRead mengembalikan jumlah notifikasi yang berubah
func (s *NotificationService) MarkAllAdminRead(ctx context.Context) (int64, error) {
	res := s.adminScope(ctx).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) MarkAllCustomerRead(ctx context.Context, customerID uint) (int64, error) {
	res := s.customerScope(ctx, customerID).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) DeleteAdmin(ctx context.Context, id uint) error {
	return s.delete(s.adminScope(ctx), &models.AdminNotification{}, id)
}

func (s *NotificationService) DeleteCustomer(ctx context.Context, customerID, id uint) error {
	return s.delete(s.customerScope(ctx, customerID), &models.CustomerNotification{}, id)
}

func (s *NotificationService) adminScope(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.AdminNotification{})
}

func (s *NotificationService) customerScope(ctx context.Context, customerID uint) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.CustomerNotification{}).Where("customer_id = ?", customerID)
}

func (s *NotificationService) list(scope *gorm.DB, unreadOnly bool, dest interface{}, unread *int64) error {
	if err := scope.Session(&gorm.Session{}).Where("is_read = ?", false).Count(unread).Error; err != nil {
		return err
	}
	query := scope.Session(&gorm.Session{})
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	return query.Order("created_at DESC").Order("id DESC").Limit(maxNotificationList).Find(dest).Error
}

func (s *NotificationService) markRead(scope *gorm.DB, model interface{}, id uint) error {
	if err := scope.Session(&gorm.Session{}).Where("id = ?", id).First(model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return scope.Session(&gorm.Session{}).Where("id = ?", id).Update("is_read", true).Error
}

func (s *NotificationService) delete(scope *gorm.DB, model interface{}, id uint) error {
	res := scope.Session(&gorm.Session{}).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func validateContent(title, message string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("Title", "is required")
	}
	if strings.TrimSpace(message) == "" {
		return newValidationError("Message", "is required")
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
