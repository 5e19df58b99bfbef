package app

import (
	"context"
	"strings"

	"github.com/example/slot-reserve/internal/domain"
	"github.com/example/slot-reserve/internal/store"
)

// Subscribe appends an email address to the waiting list. Syntax checking
// beyond non-emptiness belongs to the form shell.
func (e *Engine) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrEmptyEmail
	}
	return e.store.AppendRecord(ctx, store.TableSubscribers, []string{email})
}
