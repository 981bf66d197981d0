package notifier

import "context"

// Service defines the interface for the notification channel. Delivery is
// best-effort: a failure for one recipient is logged and never aborts the
// calling cycle, so neither method returns an error.
type Service interface {
	SendToAdmins(ctx context.Context, text string)
	SendToSubscribers(ctx context.Context, text string)
}
