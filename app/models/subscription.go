package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription lifecycle states. Once canceled the record is terminal; a
// new checkout creates a fresh record instead of reopening it.
const (
	SubStatusPending  = "pending"
	SubStatusTrialing = "trialing"
	SubStatusActive   = "active"
	SubStatusPastDue  = "past_due"
	SubStatusCanceled = "canceled"
)

// Raw provider payment status strings as delivered by webhook events.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusExpired  = "expired"
	PaymentStatusRefunded = "refunded"
	PaymentStatusCanceled = "canceled"
)

// Subscription tracks a user/workspace's billing relationship to a plan.
// Rows are never hard-deleted; the full history stays for audit.
type Subscription struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	WorkspaceID       string     `gorm:"type:varchar(36);not null;index" json:"workspace_id"`
	PlanID            string     `gorm:"type:varchar(32);not null;index" json:"plan_id"`
	Status            string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	PaymentStatus     string     `gorm:"type:varchar(32);default:''" json:"payment_status"`
	TrialEndsAt       *time.Time `gorm:"type:timestamp;default:null" json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd  *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	ExternalReference string     `gorm:"type:varchar(100);index" json:"external_reference"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewSubscription builds a pending subscription with a fresh UUID.
func NewSubscription(userID, workspaceID, planID string) *Subscription {
	return &Subscription{
		ID:          uuid.NewString(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		PlanID:      planID,
		Status:      SubStatusPending,
	}
}

// IsTerminal reports whether the subscription reached a terminal state.
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubStatusCanceled
}
