// internal/domain/product/repository_port.go
package product

import "context"

// ------------------------------------------------------
// Repository Port for Product (products コレクション)
// ------------------------------------------------------
//
// Hexagonal Architecture における「出力ポート」。
// Firestore などの具体実装は adapters/out 側で実装し、
// ドメイン層からはこのインターフェースのみを参照します。
type RepositoryPort interface {
	// Create saves a new Product. When p.ID is empty the implementation
	// assigns a document id and returns it.
	Create(ctx context.Context, p Product) (Product, error)

	// GetByID returns ErrNotFound when the document does not exist.
	GetByID(ctx context.Context, id string) (Product, error)

	// List returns every product. The caller owns ordering/filtering.
	List(ctx context.Context) ([]Product, error)

	// ListInStock returns products with stock > 0 ordered by name, one page
	// at a time, plus the total number of in-stock products.
	ListInStock(ctx context.Context, page, perPage int) ([]Product, int, error)

	// Update overwrites the stored product fields (updatedAt is maintained
	// by the implementation).
	Update(ctx context.Context, p Product) (Product, error)

	// Delete removes the product document.
	Delete(ctx context.Context, id string) error

	// WatchLowStock subscribes to the set of products with stock below
	// threshold, capped to limit by server-side ordering. Every change to
	// the result set pushes a full snapshot to onChange. The returned stop
	// func cancels the subscription and must be called on teardown.
	WatchLowStock(ctx context.Context, threshold, limit int, onChange func([]Product)) (stop func(), err error)
}
