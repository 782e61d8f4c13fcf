package billing

import (
	"time"

	"github.com/marsolucoes/lumia/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetWorkspaceByOwner(ownerID string) (*models.Workspace, error)
	CreateWorkspaceWithAdmin(ws *models.Workspace, member *models.WorkspaceMember) error
	CountWorkspaceMembers(workspaceID string) (int64, error)
	CreateMembership(member *models.WorkspaceMember) error
	GetMembership(workspaceID, userID string) (*models.WorkspaceMember, error)

	CreateSubscription(sub *models.Subscription) error
	GetSubscriptionByID(id string) (*models.Subscription, error)
	UpdateSubscription(sub *models.Subscription) error
	ListTrialsEndingBetween(from, to time.Time) ([]models.Subscription, error)
	ListTrialsExpiredBefore(t time.Time) ([]models.Subscription, error)

	SetUserSubscriptionStatus(userID, status string) error
	GetUserByID(id string) (*models.User, error)

	CreatePaymentEvent(event *models.PaymentEvent) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetWorkspaceByOwner(ownerID string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.Where("owner_id = ?", ownerID).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// CreateWorkspaceWithAdmin creates the workspace and its admin membership as
// one transaction so a failed membership insert never leaves an orphaned
// workspace behind.
func (r *gormRepository) CreateWorkspaceWithAdmin(ws *models.Workspace, member *models.WorkspaceMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		member.WorkspaceID = ws.ID
		return tx.Create(member).Error
	})
}

func (r *gormRepository) CountWorkspaceMembers(workspaceID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspaceID).Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateMembership(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

func (r *gormRepository) GetMembership(workspaceID, userID string) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) GetSubscriptionByID(id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpdateSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) ListTrialsEndingBetween(from, to time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at BETWEEN ? AND ?",
			models.SubStatusTrialing, from, to).
		Find(&subs).Error
	return subs, err
}

func (r *gormRepository) ListTrialsExpiredBefore(t time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?",
			models.SubStatusTrialing, t).
		Find(&subs).Error
	return subs, err
}

func (r *gormRepository) SetUserSubscriptionStatus(userID, status string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_status", status).Error
}

func (r *gormRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreatePaymentEvent(event *models.PaymentEvent) error {
	return r.db.Create(event).Error
}
