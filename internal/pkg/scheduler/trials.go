package scheduler

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/internal/pkg/billing"
	"github.com/marsolucoes/lumia/internal/pkg/mail"
)

const reminderWindow = 3 * 24 * time.Hour
const warningWindow = 2 * 24 * time.Hour

// TrialJobs implements the daily trial lifecycle sweeps over the billing
// repository. The job methods take the reference time explicitly so runs
// are reproducible.
type TrialJobs struct {
	repo   billing.Repository
	mailer billing.Mailer
}

func NewTrialJobs(repo billing.Repository, mailer billing.Mailer) *TrialJobs {
	return &TrialJobs{repo: repo, mailer: mailer}
}

// RunTrialReminderOnce emails every trialing subscription ending within the
// next three days.
func (j *TrialJobs) RunTrialReminderOnce(ctx context.Context, now time.Time) error {
	_ = ctx
	subs, err := j.repo.ListTrialsEndingBetween(now, now.Add(reminderWindow))
	if err != nil {
		return err
	}

	for _, sub := range subs {
		user, err := j.repo.GetUserByID(sub.UserID)
		if err != nil {
			log.Printf("trial reminder: no profile for subscription %s: %v", sub.ID, err)
			continue
		}
		daysLeft := int(sub.TrialEndsAt.Sub(now).Hours()/24) + 1
		j.send(user.Email, mail.TemplateTrialEnding, map[string]string{
			"name":      user.Name,
			"days_left": strconv.Itoa(daysLeft),
		})
	}
	return nil
}

// RunTrialExpirationOnce flips trials past their end date to past_due and
// warns trials ending within two days.
func (j *TrialJobs) RunTrialExpirationOnce(ctx context.Context, now time.Time) error {
	_ = ctx
	expired, err := j.repo.ListTrialsExpiredBefore(now)
	if err != nil {
		return err
	}

	for _, sub := range expired {
		sub := sub
		sub.Status = models.SubStatusPastDue
		if err := j.repo.UpdateSubscription(&sub); err != nil {
			log.Printf("trial expiration: could not update subscription %s: %v", sub.ID, err)
			continue
		}
		if err := j.repo.SetUserSubscriptionStatus(sub.UserID, models.SubscriptionStatusPastDue); err != nil {
			log.Printf("trial expiration: could not update profile %s: %v", sub.UserID, err)
		}

		user, err := j.repo.GetUserByID(sub.UserID)
		if err != nil {
			continue
		}
		j.send(user.Email, mail.TemplateTrialExpired, map[string]string{"name": user.Name})
	}

	warnable, err := j.repo.ListTrialsEndingBetween(now, now.Add(warningWindow))
	if err != nil {
		return err
	}
	for _, sub := range warnable {
		user, err := j.repo.GetUserByID(sub.UserID)
		if err != nil {
			continue
		}
		j.send(user.Email, mail.TemplateTrialWarning, map[string]string{"name": user.Name})
	}
	return nil
}

func (j *TrialJobs) send(to, template string, vars map[string]string) {
	if j.mailer == nil || to == "" {
		return
	}
	if err := j.mailer.SendTemplate(to, template, vars); err != nil {
		log.Printf("trial mail failed (template=%s to=%s): %v", template, to, err)
	}
}
