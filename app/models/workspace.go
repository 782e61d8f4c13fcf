package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	WorkspacePlanLevelFree = "free"
	WorkspacePlanLevelPro  = "pro"
)

const (
	WorkspaceRoleAdmin  = "admin"
	WorkspaceRoleMember = "member"
)

// Workspace is the tenant container owning subscriptions and members.
// Created lazily on first checkout; at most one per owner.
type Workspace struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"owner_id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	PlanLevel string    `gorm:"type:varchar(16);not null;default:'free'" json:"plan_level"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewWorkspace builds a workspace for an owner with a derived display name.
func NewWorkspace(ownerID, ownerName string) *Workspace {
	return &Workspace{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      ownerName + "'s Workspace",
		PlanLevel: WorkspacePlanLevelFree,
	}
}

// WorkspaceMember links a user to a workspace with a role. The unique index
// keeps memberships one-per-user-per-workspace.
type WorkspaceMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID string    `gorm:"type:varchar(36);not null;index:ux_workspace_members_ws_user,unique,priority:1" json:"workspace_id"`
	UserID      string    `gorm:"type:varchar(36);not null;index:ux_workspace_members_ws_user,unique,priority:2" json:"user_id"`
	Role        string    `gorm:"type:varchar(16);not null;default:'member'" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
