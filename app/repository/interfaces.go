package repository

import (
	"github.com/marsolucoes/lumia/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetBySessionToken(token string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// WorkspaceRepository defines the interface for workspace-related database
// operations
type WorkspaceRepository interface {
	GetByID(id string) (*models.Workspace, error)
	GetByOwner(ownerID string) (*models.Workspace, error)
	Update(ws *models.Workspace) error
	CountMembers(workspaceID string) (int64, error)
	GetMember(workspaceID, userID string) (*models.WorkspaceMember, error)
	AddMember(member *models.WorkspaceMember) error
	ListMembers(workspaceID string) ([]models.WorkspaceMember, error)
}

// SubscriptionRepository defines read access used outside the billing
// service (admin/API listings).
type SubscriptionRepository interface {
	GetByID(id string) (*models.Subscription, error)
	ListByUser(userID string) ([]models.Subscription, error)
	ListByWorkspace(workspaceID string) ([]models.Subscription, error)
}

// Repositories aggregates all repository instances
type Repositories struct {
	User         UserRepository
	Workspace    WorkspaceRepository
	Subscription SubscriptionRepository
}
