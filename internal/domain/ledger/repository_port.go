// internal/domain/ledger/repository_port.go
package ledger

import (
	"context"

	productdom "stockroom/internal/domain/product"
)

// ------------------------------------------------------
// Repository Port for the deduction/return ledger
// (deductions / returns コレクション)
// ------------------------------------------------------
//
// Deduct and Return are the two multi-document transactions of the system.
// The implementation must apply each as a single atomic unit with the
// store's retry-on-conflict primitive: concurrent deductions against the
// same product may never both succeed past the available quantity.
type RepositoryPort interface {
	// Deduct reads the product, applies the deduction arithmetic, writes the
	// updated product and appends a Deduction record with a store-assigned
	// timestamp — all inside one transaction.
	//
	// Fails with product.ErrNotFound or product.ErrInsufficientStock (and
	// the validation sentinels) without any partial write.
	Deduct(ctx context.Context, productID string, amount float64) (productdom.Product, Deduction, error)

	// Return reverses the given deduction: restores the product stock,
	// creates a Return record, and deletes the source Deduction — all inside
	// one transaction. Fails with product.ErrNotFound when the referenced
	// product no longer exists, leaving everything untouched.
	Return(ctx context.Context, deductionID string) (productdom.Product, Return, error)

	// GetDeduction returns ErrDeductionNotFound when missing.
	GetDeduction(ctx context.Context, id string) (Deduction, error)

	// ListLatestDeductions returns the most recent n deductions ordered by
	// date descending.
	ListLatestDeductions(ctx context.Context, n int) ([]Deduction, error)

	// DeleteDeduction removes a deduction record without touching stock.
	DeleteDeduction(ctx context.Context, id string) error

	// ListReturns returns one page of returns ordered by date descending,
	// plus the total record count.
	ListReturns(ctx context.Context, page, perPage int) ([]Return, int, error)

	// WatchLatestDeductions subscribes to the latest-n deduction window.
	// Every ledger change pushes a full snapshot to onChange. The returned
	// stop func cancels the subscription.
	WatchLatestDeductions(ctx context.Context, n int, onChange func([]Deduction)) (stop func(), err error)
}
