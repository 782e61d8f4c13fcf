package repository

import (
	"github.com/marsolucoes/lumia/app/models"
	"gorm.io/gorm"
)

// workspaceRepository implements the WorkspaceRepository interface
type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace repository instance
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

// GetByID retrieves a workspace by its UUID
func (r *workspaceRepository) GetByID(id string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.Where("id = ?", id).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetByOwner retrieves the workspace owned by a user
func (r *workspaceRepository) GetByOwner(ownerID string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.Where("owner_id = ?", ownerID).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// Update updates an existing workspace
func (r *workspaceRepository) Update(ws *models.Workspace) error {
	return r.db.Save(ws).Error
}

// CountMembers returns the number of membership rows for a workspace
func (r *workspaceRepository) CountMembers(workspaceID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ?", workspaceID).Count(&count).Error
	return count, err
}

// GetMember retrieves one membership row
func (r *workspaceRepository) GetMember(workspaceID, userID string) (*models.WorkspaceMember, error) {
	var m models.WorkspaceMember
	err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember inserts a membership row
func (r *workspaceRepository) AddMember(member *models.WorkspaceMember) error {
	return r.db.Create(member).Error
}

// ListMembers lists membership rows for a workspace
func (r *workspaceRepository) ListMembers(workspaceID string) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").Find(&members).Error
	return members, err
}
