package repository

import (
	"sync"

	"gorm.io/gorm"

	"github.com/marsolucoes/lumia/internal/pkg/database"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// NewRepositories wires every repository against one DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Workspace:    NewWorkspaceRepository(db),
		Subscription: NewSubscriptionRepository(db),
	}
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetWorkspaceRepository returns the workspace repository instance
func (f *Factory) GetWorkspaceRepository() WorkspaceRepository {
	return f.GetRepositories().Workspace
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

var (
	globalFactory *Factory
	factoryOnce   sync.Once
)

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(database.GetDB())
	})
	return globalFactory
}
