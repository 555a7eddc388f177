package models

import "time"

// NotificationType classifies an in-app notification.
type NotificationType string

const (
	NotificationTypeOutingInvite    NotificationType = "outing_invite"
	NotificationTypeDebtReminder    NotificationType = "debt_reminder"
	NotificationTypeEventUpdate     NotificationType = "event_update"
	NotificationTypePaymentReceived NotificationType = "payment_received"
)

// Notification represents an in-app notification cached from the remote
// service. ReferenceID points at the outing, event, or debt the notification
// is about; its meaning depends on Type.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// Type classifies the notification and scopes ReferenceID.
	Type NotificationType

	// Title is the short headline.
	Title string

	// Message is the body text.
	Message string

	// ReferenceID identifies the related entity, scoped by Type.
	ReferenceID string

	// SentAt is when the remote service sent the notification.
	SentAt time.Time

	// ReadAt is when the user read it; nil while unread.
	ReadAt *time.Time
}

// Read reports whether the notification has been read.
func (n Notification) Read() bool {
	return n.ReadAt != nil
}
