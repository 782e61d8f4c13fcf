package billing

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/internal/pkg/mail"
	"gorm.io/gorm"
)

const trialDuration = 7 * 24 * time.Hour
const renewalPeriod = 30 * 24 * time.Hour

// Service owns the subscription lifecycle: checkout-side record creation and
// the webhook-driven transitions that reconcile provider events into local
// state.
type Service struct {
	repo   Repository
	mailer Mailer
}

// NewService creates a billing service from an injected repository and mailer.
func NewService(repo Repository, mailer Mailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, mailer Mailer) *Service {
	return NewService(NewRepository(db), mailer)
}

// EnsureWorkspace returns the caller's workspace, creating it together with
// the owner's admin membership when absent. The two inserts run in one
// transaction; a failed membership insert surfaces instead of leaving an
// orphaned workspace.
func (s *Service) EnsureWorkspace(ctx context.Context, ownerID, ownerName string) (*models.Workspace, error) {
	_ = ctx
	if strings.TrimSpace(ownerID) == "" {
		return nil, errors.New("owner id is required")
	}

	ws, err := s.repo.GetWorkspaceByOwner(ownerID)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ws = models.NewWorkspace(ownerID, strings.TrimSpace(ownerName))
	member := &models.WorkspaceMember{
		UserID: ownerID,
		Role:   models.WorkspaceRoleAdmin,
	}
	if err := s.repo.CreateWorkspaceWithAdmin(ws, member); err != nil {
		return nil, err
	}
	return ws, nil
}

// StartTrial creates a trialing subscription ending seven days out and fires
// the welcome email best-effort.
func (s *Service) StartTrial(ctx context.Context, userID, workspaceID, planID, name, email string) (*models.Subscription, error) {
	_ = ctx
	if !isKnownPlan(planID) {
		log.Printf("unknown plan %q on trial start, folding onto %s", planID, normalizePlan(planID))
	}
	sub := models.NewSubscription(userID, workspaceID, normalizePlan(planID))
	trialEnd := time.Now().Add(trialDuration)
	sub.Status = models.SubStatusTrialing
	sub.TrialEndsAt = &trialEnd

	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	if err := s.repo.SetUserSubscriptionStatus(userID, models.SubscriptionStatusTrialing); err != nil {
		log.Printf("failed to mirror trial status onto profile %s: %v", userID, err)
	}

	s.safeSend(email, mail.TemplateWelcome, map[string]string{
		"name": name,
		"plan": sub.PlanID,
	})
	return sub, nil
}

// CreatePendingSubscription creates the pending record a paid checkout hangs
// off of. Every checkout attempt gets a fresh row; the payment provider
// stays the source of truth for which attempt actually gets paid.
func (s *Service) CreatePendingSubscription(ctx context.Context, userID, workspaceID, planID string) (*models.Subscription, error) {
	_ = ctx
	sub := models.NewSubscription(userID, workspaceID, normalizePlan(planID))
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// PrepareCheckoutReference encodes and persists the external reference the
// gateway call will carry, so the webhook side can correlate events back.
func (s *Service) PrepareCheckoutReference(ctx context.Context, sub *models.Subscription) (string, error) {
	_ = ctx
	ref := EncodeExternalReference(sub.ID, time.Now())
	sub.ExternalReference = ref
	if err := s.repo.UpdateSubscription(sub); err != nil {
		return "", err
	}
	return ref, nil
}

// RecordPaymentEvent appends a row to the audit log. Callers treat failures
// as best-effort; duplicates for retried deliveries are expected.
func (s *Service) RecordPaymentEvent(ctx context.Context, in PaymentEventInput) error {
	_ = ctx
	event := &models.PaymentEvent{
		ExternalID:    strings.TrimSpace(in.ExternalID),
		EventType:     strings.TrimSpace(in.EventType),
		Amount:        in.Amount,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		PayloadJSON:   in.PayloadJSON,
	}
	if id := strings.TrimSpace(in.SubscriptionID); id != "" {
		event.SubscriptionID = &id
	}
	return s.repo.CreatePaymentEvent(event)
}

// ApplyPaymentPaid marks the subscription active/paid, mirrors the status
// onto the owning profile and sends the confirmation email.
func (s *Service) ApplyPaymentPaid(ctx context.Context, in TransitionInput) error {
	return s.applyTransition(ctx, in, func(sub *models.Subscription) {
		sub.Status = models.SubStatusActive
		sub.PaymentStatus = models.PaymentStatusPaid
	}, models.SubscriptionStatusActive, mail.TemplatePaymentConfirmed, in.PaymentMethod)
}

// ApplyPaymentExpired records the expired payment without touching the
// lifecycle status and notifies the customer.
func (s *Service) ApplyPaymentExpired(ctx context.Context, in TransitionInput) error {
	return s.applyTransition(ctx, in, func(sub *models.Subscription) {
		sub.PaymentStatus = models.PaymentStatusExpired
	}, "", mail.TemplatePaymentExpired, in.PaymentMethod)
}

// ApplyPaymentRefunded cancels the subscription after a refund or chargeback.
func (s *Service) ApplyPaymentRefunded(ctx context.Context, in TransitionInput) error {
	return s.applyTransition(ctx, in, func(sub *models.Subscription) {
		sub.Status = models.SubStatusCanceled
		sub.PaymentStatus = models.PaymentStatusRefunded
	}, models.SubscriptionStatusCanceled, mail.TemplatePaymentRefunded, in.PaymentMethod)
}

// ApplySubscriptionCanceled cancels the subscription on provider-side
// cancellation.
func (s *Service) ApplySubscriptionCanceled(ctx context.Context, in TransitionInput) error {
	return s.applyTransition(ctx, in, func(sub *models.Subscription) {
		sub.Status = models.SubStatusCanceled
		sub.PaymentStatus = models.PaymentStatusCanceled
	}, models.SubscriptionStatusCanceled, mail.TemplateSubscriptionCanceled, in.PaymentMethod)
}

// ApplySubscriptionRenewed re-activates the subscription and extends the
// current period by thirty days.
func (s *Service) ApplySubscriptionRenewed(ctx context.Context, in TransitionInput) error {
	return s.applyTransition(ctx, in, func(sub *models.Subscription) {
		sub.Status = models.SubStatusActive
		sub.PaymentStatus = models.PaymentStatusPaid
		periodEnd := time.Now().Add(renewalPeriod)
		sub.CurrentPeriodEnd = &periodEnd
	}, models.SubscriptionStatusActive, mail.TemplatePaymentConfirmed, "renewal")
}

// CancelSubscription handles an explicit cancellation by the subscription
// owner. Cancelling an already terminal subscription is a no-op.
func (s *Service) CancelSubscription(ctx context.Context, subscriptionID, userID, email, name string) error {
	_ = ctx
	if strings.TrimSpace(subscriptionID) == "" {
		return errors.New("subscription id is required")
	}

	sub, err := s.repo.GetSubscriptionByID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("subscription not found")
		}
		return err
	}
	if sub.UserID != userID {
		return errors.New("subscription does not belong to caller")
	}
	if sub.IsTerminal() {
		return nil
	}

	sub.Status = models.SubStatusCanceled
	sub.PaymentStatus = models.PaymentStatusCanceled
	if err := s.repo.UpdateSubscription(sub); err != nil {
		return err
	}
	if err := s.repo.SetUserSubscriptionStatus(userID, models.SubscriptionStatusCanceled); err != nil {
		return err
	}

	s.safeSend(email, mail.TemplateSubscriptionCanceled, map[string]string{
		"name":           strings.TrimSpace(name),
		"amount":         FormatAmountBRL(0),
		"payment_method": "",
	})
	return nil
}

// applyTransition runs one idempotent status transition. An event that
// cannot be correlated to a subscription skips the mutation but still
// attempts customer notification when an address is present.
func (s *Service) applyTransition(
	ctx context.Context,
	in TransitionInput,
	mutate func(*models.Subscription),
	profileStatus string,
	template string,
	paymentMethodLabel string,
) error {
	_ = ctx

	vars := map[string]string{
		"name":           strings.TrimSpace(in.CustomerName),
		"amount":         FormatAmountBRL(in.Amount),
		"payment_method": strings.TrimSpace(paymentMethodLabel),
	}

	id := strings.TrimSpace(in.SubscriptionID)
	if id == "" {
		log.Printf("payment event without subscription correlation (email=%s), skipping status update", in.CustomerEmail)
		s.safeSend(in.CustomerEmail, template, vars)
		return nil
	}

	sub, err := s.repo.GetSubscriptionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("payment event references unknown subscription %s, skipping status update", id)
			s.safeSend(in.CustomerEmail, template, vars)
			return nil
		}
		return err
	}

	mutate(sub)
	if err := s.repo.UpdateSubscription(sub); err != nil {
		return err
	}

	if profileStatus != "" {
		if err := s.repo.SetUserSubscriptionStatus(sub.UserID, profileStatus); err != nil {
			return err
		}
	}

	s.safeSend(in.CustomerEmail, template, vars)
	return nil
}

// safeSend delivers a templated email and swallows any failure. A mail
// outage must never turn into a webhook error response.
func (s *Service) safeSend(to, template string, vars map[string]string) {
	if s.mailer == nil || strings.TrimSpace(to) == "" {
		return
	}
	if err := s.mailer.SendTemplate(to, template, vars); err != nil {
		log.Printf("mail send failed (template=%s to=%s): %v", template, to, err)
	}
}
