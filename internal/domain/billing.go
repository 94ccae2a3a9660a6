package domain

import "context"

// BillingGateway answers the single entitlement question the attempt engine
// needs from the billing side: does this user currently hold premium access?
// The payment provider itself (charging, customer records) is out of scope;
// implementations are expected to be fast reads suitable for the start-time
// entitlement check.
type BillingGateway interface {
	HasActivePremium(ctx context.Context, userID string) (bool, error)
}
