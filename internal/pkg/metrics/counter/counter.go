package counter

import (
	"context"

	"github.com/marsolucoes/lumia/internal/pkg/cache"
)

const (
	webhookEventsKey    = "billing:counters:webhook_events"
	checkoutAttemptsKey = "billing:counters:checkout_attempts"
)

// AddWebhookEvent increments the received counter for a webhook event type in Redis
func AddWebhookEvent(eventType string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookEventsKey, eventType, 1).Err()
}

// AddCheckoutAttempt increments the attempt counter for a plan in Redis
func AddCheckoutAttempt(planID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, checkoutAttemptsKey, planID, 1).Err()
}

// WebhookEventCounts returns the per-type webhook delivery counters.
func WebhookEventCounts(ctx context.Context) (map[string]string, error) {
	return cache.GetClient().HGetAll(ctx, webhookEventsKey).Result()
}

// CheckoutAttemptCounts returns the per-plan checkout attempt counters.
func CheckoutAttemptCounts(ctx context.Context) (map[string]string, error) {
	return cache.GetClient().HGetAll(ctx, checkoutAttemptsKey).Result()
}
