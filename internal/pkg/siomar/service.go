package siomar

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/marsolucoes/lumia/app/models"
	"gorm.io/gorm"
)

// SyncInput carries a cross-project sync request. Only user identity is
// mandatory; workspace context is attached when present.
type SyncInput struct {
	UserID         string `json:"userId" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name"`
	WorkspaceID    string `json:"workspaceId"`
	WorkspaceName  string `json:"workspaceName"`
	PlanLevel      string `json:"planLevel"`
	SeatLimit      int    `json:"seatLimit"`
	Role           string `json:"role"`
	SubscriptionID string `json:"subscriptionId"`
}

// RemoteAPI is the slice of Client the service needs; split out so tests can
// substitute a recording fake.
type RemoteAPI interface {
	GetUser(ctx context.Context, userID string) (*RemoteUser, error)
	CreateUser(ctx context.Context, user RemoteUser) error
	UpsertWorkspaceContext(ctx context.Context, row WorkspaceContext) error
}

// ProfileMarker records the sync bookkeeping on the local profile.
type ProfileMarker interface {
	MarkSynced(userID string, at time.Time) error
}

type gormProfileMarker struct {
	db *gorm.DB
}

func (m *gormProfileMarker) MarkSynced(userID string, at time.Time) error {
	return m.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"sio_mar_synced":    true,
			"sio_mar_synced_at": &at,
		}).Error
}

// NewProfileMarker creates a GORM-backed profile marker.
func NewProfileMarker(db *gorm.DB) ProfileMarker {
	return &gormProfileMarker{db: db}
}

// Service propagates users and their workspace context into the SIO_MAR
// project, idempotently on the shared user UUID.
type Service struct {
	remote   RemoteAPI
	profiles ProfileMarker
	validate *validator.Validate
}

func NewService(remote RemoteAPI, profiles ProfileMarker) *Service {
	return &Service{
		remote:   remote,
		profiles: profiles,
		validate: validator.New(),
	}
}

// Sync ensures the user exists remotely under the same UUID, upserts the
// workspace context when provided and marks the local profile synced.
// Remote user creation is the only fatal step; everything after it already
// left the system in a useful state and is logged instead of propagated.
// Returns whether a remote user was created.
func (s *Service) Sync(ctx context.Context, in SyncInput) (bool, error) {
	if err := s.validate.Struct(in); err != nil {
		return false, err
	}

	created := false
	_, err := s.remote.GetUser(ctx, in.UserID)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := s.remote.CreateUser(ctx, RemoteUser{
			ID:    in.UserID,
			Email: in.Email,
			Name:  strings.TrimSpace(in.Name),
		}); err != nil {
			return false, err
		}
		created = true
	case err != nil:
		return false, err
	}

	if s.hasWorkspaceContext(in) {
		if err := s.remote.UpsertWorkspaceContext(ctx, WorkspaceContext{
			UserID:         in.UserID,
			WorkspaceID:    in.WorkspaceID,
			WorkspaceName:  in.WorkspaceName,
			PlanLevel:      in.PlanLevel,
			SeatLimit:      in.SeatLimit,
			Role:           in.Role,
			SubscriptionID: in.SubscriptionID,
		}); err != nil {
			log.Printf("siomar workspace context upsert failed for user %s: %v", in.UserID, err)
		}
	}

	if s.profiles != nil {
		if err := s.profiles.MarkSynced(in.UserID, time.Now()); err != nil {
			log.Printf("failed to mark profile %s as synced: %v", in.UserID, err)
		}
	}

	return created, nil
}

func (s *Service) hasWorkspaceContext(in SyncInput) bool {
	return strings.TrimSpace(in.WorkspaceID) != "" || strings.TrimSpace(in.WorkspaceName) != ""
}
