package models

import "time"

// PaymentEvent is the append-only audit log of every webhook payload
// received from the payment provider. Rows are written before dispatch and
// never updated; duplicate deliveries produce duplicate rows on purpose.
type PaymentEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SubscriptionID *string   `gorm:"type:varchar(36);default:null;index" json:"subscription_id,omitempty"`
	ExternalID     string    `gorm:"type:varchar(100);index" json:"external_id"`
	EventType      string    `gorm:"type:varchar(64);not null;index" json:"event_type"`
	Amount         int64     `gorm:"default:0" json:"amount"`
	PaymentMethod  string    `gorm:"type:varchar(32);default:''" json:"payment_method"`
	PayloadJSON    string    `gorm:"type:longtext;not null" json:"payload_json"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
