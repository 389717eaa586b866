package notifier

import "context"

// Notifier delivers a plain-text message to a recipient identity. Send
// reports delivery success; an unconfigured notifier returns false rather
// than failing, so callers only ever branch on the boolean.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) bool
}
