package email

import (
	"context"
)

type Service interface {
	SendPasswordReset(ctx context.Context, to string, token string) error
	SendWelcome(ctx context.Context, to string, name string) error
}
