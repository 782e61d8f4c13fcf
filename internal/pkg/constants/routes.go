package constants

// Static route constants
const (
	APIRoute = "/api"

	CheckoutRoute       = "/checkout"
	WebhookNetCredRoute = "/webhooks/netcred"
	WebhookAsaasRoute   = "/webhooks/asaas"
	InviteMemberRoute   = "/workspaces/members"
	SubscriptionCancel  = "/subscriptions/:id/cancel"
	SioMarSyncRoute     = "/integrations/siomar/sync"
	BillingStatsRoute   = "/stats/billing"

	// Checkout success redirect on the frontend
	TrialSuccessPath = "/lumia/sucesso"
)
