package controllers

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/internal/pkg/siomar"
)

// fakeBillingRepo is an in-memory billing.Repository.
type fakeBillingRepo struct {
	workspaces    map[string]*models.Workspace
	members       []*models.WorkspaceMember
	subscriptions map[string]*models.Subscription
	users         map[string]*models.User
	events        []*models.PaymentEvent
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		workspaces:    map[string]*models.Workspace{},
		subscriptions: map[string]*models.Subscription{},
		users:         map[string]*models.User{},
	}
}

func (f *fakeBillingRepo) GetWorkspaceByOwner(ownerID string) (*models.Workspace, error) {
	for _, ws := range f.workspaces {
		if ws.OwnerID == ownerID {
			return ws, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) CreateWorkspaceWithAdmin(ws *models.Workspace, member *models.WorkspaceMember) error {
	f.workspaces[ws.ID] = ws
	member.WorkspaceID = ws.ID
	f.members = append(f.members, member)
	return nil
}

func (f *fakeBillingRepo) CountWorkspaceMembers(workspaceID string) (int64, error) {
	var n int64
	for _, m := range f.members {
		if m.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBillingRepo) CreateMembership(member *models.WorkspaceMember) error {
	f.members = append(f.members, member)
	return nil
}

func (f *fakeBillingRepo) GetMembership(workspaceID, userID string) (*models.WorkspaceMember, error) {
	for _, m := range f.members {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillingRepo) CreateSubscription(sub *models.Subscription) error {
	f.subscriptions[sub.ID] = sub
	return nil
}

func (f *fakeBillingRepo) GetSubscriptionByID(id string) (*models.Subscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeBillingRepo) UpdateSubscription(sub *models.Subscription) error {
	f.subscriptions[sub.ID] = sub
	return nil
}

func (f *fakeBillingRepo) ListTrialsEndingBetween(from, to time.Time) ([]models.Subscription, error) {
	return nil, nil
}

func (f *fakeBillingRepo) ListTrialsExpiredBefore(t time.Time) ([]models.Subscription, error) {
	return nil, nil
}

func (f *fakeBillingRepo) SetUserSubscriptionStatus(userID, status string) error {
	if u, ok := f.users[userID]; ok {
		u.SubscriptionStatus = status
	}
	return nil
}

func (f *fakeBillingRepo) GetUserByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeBillingRepo) CreatePaymentEvent(event *models.PaymentEvent) error {
	f.events = append(f.events, event)
	return nil
}

// nopMailer records templates without delivering anything.
type nopMailer struct {
	sent []string
}

func (m *nopMailer) SendTemplate(to, template string, vars map[string]string) error {
	m.sent = append(m.sent, template)
	return nil
}

// fakeSioMarRemote is an in-memory siomar.RemoteAPI.
type fakeSioMarRemote struct {
	users    map[string]siomar.RemoteUser
	contexts []siomar.WorkspaceContext
	fail     bool
}

func newFakeSioMarRemote() *fakeSioMarRemote {
	return &fakeSioMarRemote{users: map[string]siomar.RemoteUser{}}
}

func (f *fakeSioMarRemote) GetUser(ctx context.Context, userID string) (*siomar.RemoteUser, error) {
	if f.fail {
		return nil, errors.New("remote unavailable")
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, siomar.ErrNotFound
	}
	return &u, nil
}

func (f *fakeSioMarRemote) CreateUser(ctx context.Context, user siomar.RemoteUser) error {
	if f.fail {
		return errors.New("remote unavailable")
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeSioMarRemote) UpsertWorkspaceContext(ctx context.Context, row siomar.WorkspaceContext) error {
	if f.fail {
		return errors.New("remote unavailable")
	}
	f.contexts = append(f.contexts, row)
	return nil
}
