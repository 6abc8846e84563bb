// internal/domain/category/repository_port.go
package category

import "context"

// ------------------------------------------------------
// Repository Port for Category (categories コレクション)
// ------------------------------------------------------
type RepositoryPort interface {
	// List returns every category.
	List(ctx context.Context) ([]Category, error)

	// GetByID returns ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (Category, error)

	// Create adds a category, rejecting an existing name with
	// ErrDuplicateName inside the same transaction that checks it.
	Create(ctx context.Context, name string) (Category, error)

	// EnsureUncategorized creates the Uncategorized category if it does not
	// exist yet and returns it either way.
	EnsureUncategorized(ctx context.Context) (Category, error)

	// Rename changes the category name and propagates the new name to every
	// product whose categoryName matches the old one, atomically. Returns
	// the number of products touched.
	Rename(ctx context.Context, id, newName string) (int, error)

	// Delete removes the category and reassigns its products to
	// Uncategorized (created first when missing), atomically. Returns the
	// number of products reassigned.
	Delete(ctx context.Context, id string) (int, error)
}
