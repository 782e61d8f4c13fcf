package repository

import (
	"github.com/marsolucoes/lumia/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByID retrieves a subscription by its UUID
func (r *subscriptionRepository) GetByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByUser lists all subscriptions ever created for a user, newest first
func (r *subscriptionRepository) ListByUser(userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// ListByWorkspace lists all subscriptions attached to a workspace
func (r *subscriptionRepository) ListByWorkspace(workspaceID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").Find(&subs).Error
	return subs, err
}
