package ports

import (
	"context"
)

// EmailClient is the outbound email collaborator. Implementations must bound
// their own network wait so a hung remote cannot stall the serving request.
type EmailClient interface {
	// SendConfirmationEmail delivers the confirmation link for token to the
	// recipient address. It is only ever called after the subscription has
	// been committed.
	SendConfirmationEmail(ctx context.Context, recipient, token string) error
}
