package ports

import "context"

// Notifier delivers verification codes. It is fire-and-forget from the
// core's perspective: a send failure never rolls back user creation.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, nickname, code string) error
}
