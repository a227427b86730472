package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService records correspondence triggers for users. Delivery is
// handled outside this system.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	UserID      uint
	Type        model.NotificationType
	Category    model.NotificationCategory
	Title       string
	Message     string
	CandidateID *uint
	Metadata    *model.NotificationMetadata
}

// ListNotificationsOptions represents options for listing notifications
type ListNotificationsOptions struct {
	UserID     uint
	UnreadOnly bool
	Category   string
	Limit      int
	Offset     int
}

// CreateNotification creates a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*model.UserNotification, error) {
	notification := &model.UserNotification{
		UserID:      req.UserID,
		Type:        req.Type,
		Category:    req.Category,
		Title:       req.Title,
		Message:     req.Message,
		Read:        false,
		CandidateID: req.CandidateID,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// NotifyCampusStaff fans a notification out to every campus admin of the
// candidate's campus, plus super admins. Used by the expiry and SLA sweeps.
func (s *NotificationService) NotifyCampusStaff(ctx context.Context, candidate *model.Candidate, req CreateNotificationRequest) error {
	var users []model.User
	q := s.db.WithContext(ctx).Where("role = ?", model.RoleSuperAdmin)
	if candidate.CampusID != nil {
		q = q.Or("role = ? AND campus_id = ?", model.RoleCampusAdmin, *candidate.CampusID)
	}
	if err := q.Find(&users).Error; err != nil {
		return fmt.Errorf("failed to resolve notification recipients: %w", err)
	}

	req.CandidateID = &candidate.ID
	for _, u := range users {
		req.UserID = u.ID
		if _, err := s.CreateNotification(ctx, req); err != nil {
			log.Printf("Failed to notify user %d about candidate %d: %v", u.ID, candidate.ID, err)
		}
	}
	return nil
}

// NotifyDocumentExpiry records a renewal notice for a document inside the
// risk window.
func (s *NotificationService) NotifyDocumentExpiry(ctx context.Context, candidate *model.Candidate, doc *model.Document) error {
	expiry := ""
	if doc.ExpiryDate != nil {
		expiry = doc.ExpiryDate.Format("2006-01-02")
	}
	return s.NotifyCampusStaff(ctx, candidate, CreateNotificationRequest{
		Type:     model.NotificationTypeWarning,
		Category: model.NotificationCategoryDocumentExpiry,
		Title:    fmt.Sprintf("%s expiring soon", doc.Type),
		Message:  fmt.Sprintf("%s of candidate %s expires on %s and needs renewal", doc.Type, candidate.Name, expiry),
		Metadata: &model.NotificationMetadata{
			DocumentType: string(doc.Type),
			ExpiryDate:   expiry,
		},
	})
}

// NotifyEscalation records a complaint escalation alert.
func (s *NotificationService) NotifyEscalation(ctx context.Context, candidate *model.Candidate, complaint *model.Complaint) error {
	return s.NotifyCampusStaff(ctx, candidate, CreateNotificationRequest{
		Type:     model.NotificationTypeError,
		Category: model.NotificationCategoryComplaintEscalation,
		Title:    fmt.Sprintf("Complaint #%d escalated to level %d", complaint.ID, complaint.EscalationLevel),
		Message:  complaint.Subject,
		Metadata: &model.NotificationMetadata{
			ComplaintID:     complaint.ID,
			EscalationLevel: complaint.EscalationLevel,
		},
	})
}

// NotifySLABreach records an SLA breach alert for a complaint.
func (s *NotificationService) NotifySLABreach(ctx context.Context, candidate *model.Candidate, complaint *model.Complaint) error {
	return s.NotifyCampusStaff(ctx, candidate, CreateNotificationRequest{
		Type:     model.NotificationTypeError,
		Category: model.NotificationCategorySLABreach,
		Title:    fmt.Sprintf("Complaint #%d breached its SLA", complaint.ID),
		Message:  fmt.Sprintf("Complaint %q was due %s ago", complaint.Subject, time.Since(complaint.SLADueAt()).Round(time.Hour)),
		Metadata: &model.NotificationMetadata{
			ComplaintID: complaint.ID,
		},
	})
}

// NotifyStatusChange records a status-change notice after a transition.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, candidate *model.Candidate, from, to model.CandidateStatus) error {
	return s.NotifyCampusStaff(ctx, candidate, CreateNotificationRequest{
		Type:     model.NotificationTypeInfo,
		Category: model.NotificationCategoryStatusChange,
		Title:    fmt.Sprintf("Candidate %s moved to %s", candidate.Name, to),
		Message:  fmt.Sprintf("Status changed from %s to %s", from, to),
		Metadata: &model.NotificationMetadata{
			FromStatus: string(from),
			ToStatus:   string(to),
		},
	})
}

// GetNotificationsByUser retrieves notifications for a user
func (s *NotificationService) GetNotificationsByUser(ctx context.Context, opts ListNotificationsOptions) ([]model.UserNotification, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.UserNotification{}).Where("user_id = ?", opts.UserID)

	if opts.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var notifications []model.UserNotification
	err := query.Order("created_at DESC").Limit(opts.Limit).Offset(opts.Offset).Find(&notifications).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount returns how many unread notifications a user has.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks a notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// MarkAllAsRead marks all of a user's notifications as read and returns how
// many were affected.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification soft-deletes a single notification owned by the user.
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

// DeleteAllNotifications soft-deletes all notifications of a user and returns
// how many were removed.
func (s *NotificationService) DeleteAllNotifications(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}
