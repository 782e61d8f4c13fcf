package scheduler

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/internal/pkg/mail"
)

type fakeTrialRepo struct {
	subscriptions map[string]*models.Subscription
	users         map[string]*models.User
}

func newFakeTrialRepo() *fakeTrialRepo {
	return &fakeTrialRepo{
		subscriptions: map[string]*models.Subscription{},
		users:         map[string]*models.User{},
	}
}

func (f *fakeTrialRepo) GetWorkspaceByOwner(string) (*models.Workspace, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeTrialRepo) CreateWorkspaceWithAdmin(*models.Workspace, *models.WorkspaceMember) error {
	return nil
}
func (f *fakeTrialRepo) CountWorkspaceMembers(string) (int64, error)        { return 0, nil }
func (f *fakeTrialRepo) CreateMembership(*models.WorkspaceMember) error     { return nil }
func (f *fakeTrialRepo) GetMembership(string, string) (*models.WorkspaceMember, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTrialRepo) CreateSubscription(sub *models.Subscription) error {
	f.subscriptions[sub.ID] = sub
	return nil
}

func (f *fakeTrialRepo) GetSubscriptionByID(id string) (*models.Subscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (f *fakeTrialRepo) UpdateSubscription(sub *models.Subscription) error {
	f.subscriptions[sub.ID] = sub
	return nil
}

func (f *fakeTrialRepo) ListTrialsEndingBetween(from, to time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.subscriptions {
		if sub.Status == models.SubStatusTrialing && sub.TrialEndsAt != nil &&
			!sub.TrialEndsAt.Before(from) && !sub.TrialEndsAt.After(to) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeTrialRepo) ListTrialsExpiredBefore(t time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, sub := range f.subscriptions {
		if sub.Status == models.SubStatusTrialing && sub.TrialEndsAt != nil && sub.TrialEndsAt.Before(t) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeTrialRepo) SetUserSubscriptionStatus(userID, status string) error {
	if u, ok := f.users[userID]; ok {
		u.SubscriptionStatus = status
	}
	return nil
}

func (f *fakeTrialRepo) GetUserByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeTrialRepo) CreatePaymentEvent(*models.PaymentEvent) error { return nil }

type captureMailer struct {
	sent []string
}

func (m *captureMailer) SendTemplate(to, template string, vars map[string]string) error {
	m.sent = append(m.sent, template+":"+to)
	return nil
}

func addTrial(repo *fakeTrialRepo, id, userID string, endsIn time.Duration, now time.Time) {
	end := now.Add(endsIn)
	repo.subscriptions[id] = &models.Subscription{
		ID:          id,
		UserID:      userID,
		Status:      models.SubStatusTrialing,
		TrialEndsAt: &end,
	}
	repo.users[userID] = &models.User{ID: userID, Name: "User " + userID, Email: userID + "@example.com"}
}

func TestRunTrialReminderOnce(t *testing.T) {
	repo := newFakeTrialRepo()
	mailer := &captureMailer{}
	now := time.Now()

	addTrial(repo, "sub-soon", "u1", 2*24*time.Hour, now)
	addTrial(repo, "sub-later", "u2", 6*24*time.Hour, now)

	jobs := NewTrialJobs(repo, mailer)
	if err := jobs.RunTrialReminderOnce(context.Background(), now); err != nil {
		t.Fatalf("RunTrialReminderOnce() error = %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1: %v", len(mailer.sent), mailer.sent)
	}
	if mailer.sent[0] != mail.TemplateTrialEnding+":u1@example.com" {
		t.Errorf("sent = %v", mailer.sent)
	}
}

func TestRunTrialExpirationOnce(t *testing.T) {
	repo := newFakeTrialRepo()
	mailer := &captureMailer{}
	now := time.Now()

	addTrial(repo, "sub-expired", "u1", -24*time.Hour, now)
	addTrial(repo, "sub-warn", "u2", 24*time.Hour, now)
	addTrial(repo, "sub-safe", "u3", 5*24*time.Hour, now)

	jobs := NewTrialJobs(repo, mailer)
	if err := jobs.RunTrialExpirationOnce(context.Background(), now); err != nil {
		t.Fatalf("RunTrialExpirationOnce() error = %v", err)
	}

	if got := repo.subscriptions["sub-expired"].Status; got != models.SubStatusPastDue {
		t.Errorf("expired trial status = %q, want past_due", got)
	}
	if got := repo.users["u1"].SubscriptionStatus; got != models.SubscriptionStatusPastDue {
		t.Errorf("profile status = %q, want past_due", got)
	}
	if got := repo.subscriptions["sub-warn"].Status; got != models.SubStatusTrialing {
		t.Errorf("warnable trial status changed to %q", got)
	}

	want := map[string]bool{
		mail.TemplateTrialExpired + ":u1@example.com": true,
		mail.TemplateTrialWarning + ":u2@example.com": true,
	}
	if len(mailer.sent) != len(want) {
		t.Fatalf("sent = %v", mailer.sent)
	}
	for _, s := range mailer.sent {
		if !want[s] {
			t.Errorf("unexpected mail %q", s)
		}
	}
}
