// internal/domain/account/repository_port.go
package account

import "context"

// Repository Port for Account (accounts コレクション)。
type RepositoryPort interface {
	// GetByUID returns ErrNotFound when missing.
	GetByUID(ctx context.Context, uid string) (Account, error)

	// Save upserts the account document keyed by UID.
	Save(ctx context.Context, a Account) (Account, error)
}
