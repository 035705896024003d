package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dispatchsite/internal/domain/account"
	"dispatchsite/internal/domain/content"
)

// AccountStoreForSeed defines the store interface needed by SeedAccounts.
type AccountStoreForSeed interface {
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// ContentStoreForSeed defines the store interface needed by SeedContent.
type ContentStoreForSeed interface {
	Exists(ctx context.Context) (bool, error)
	Replace(ctx context.Context, doc content.Document) error
}

// SeedAccountsDeps holds dependencies for SeedAccounts.
type SeedAccountsDeps struct {
	AccountStore AccountStoreForSeed
}

// SeedCredential pairs a username and password with a role for first-boot seeding.
type SeedCredential struct {
	Username string
	Password string
	Role     string
}

// ExecuteSeedAccounts creates the initial credential records when the store
// is empty. Idempotent: a non-empty store is left untouched, so credentials
// are effectively read-only after first boot.
// POST: Store holds one account per credential, or was already non-empty
func ExecuteSeedAccounts(ctx context.Context, deps SeedAccountsDeps, creds []SeedCredential) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range creds {
		acct := account.Account{
			ID:        uuid.New().String(),
			Username:  c.Username,
			Role:      c.Role,
			CreatedAt: time.Now(),
		}
		if err := acct.Validate(); err != nil {
			return fmt.Errorf("seed account %q: %w", c.Username, err)
		}
		if err := acct.SetPassword(c.Password); err != nil {
			return fmt.Errorf("seed account %q: %w", c.Username, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("seed account %q: %w", c.Username, err)
		}
		slog.Info("auth_event", "event", "account_seeded", "username", c.Username, "role", c.Role)
	}
	return nil
}

// SeedContentDeps holds dependencies for SeedContent.
type SeedContentDeps struct {
	ContentStore ContentStoreForSeed
}

// ExecuteSeedContent stores the default content document if none exists.
// This is what guarantees reads never see a missing document.
// POST: A valid document exists in the store
func ExecuteSeedContent(ctx context.Context, deps SeedContentDeps) error {
	exists, err := deps.ContentStore.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check content document: %w", err)
	}
	if exists {
		return nil
	}
	if err := deps.ContentStore.Replace(ctx, content.DefaultDocument(time.Now())); err != nil {
		return fmt.Errorf("seed content document: %w", err)
	}
	slog.Info("content_seeded")
	return nil
}
