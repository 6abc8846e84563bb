// internal/application/usecase/stock_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"

	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
	"stockroom/internal/infra/cache"
)

// StockUsecase owns the two ledger transactions (deduct and return) plus the
// read/delete paths over the deduction and return records. Atomicity lives in
// the repository; this layer validates input, invalidates the product cache
// on every successful mutation, and logs the outcome.
type StockUsecase struct {
	ledger ledgerdom.RepositoryPort
	cache  *cache.ProductCache
}

func NewStockUsecase(ledger ledgerdom.RepositoryPort, c *cache.ProductCache) *StockUsecase {
	return &StockUsecase{ledger: ledger, cache: c}
}

// Deduct decreases the product stock by amount whole-unit equivalents and
// appends a Deduction record, as one atomic unit.
func (uc *StockUsecase) Deduct(ctx context.Context, productID string, amount float64) (productdom.Product, ledgerdom.Deduction, error) {
	if uc == nil || uc.ledger == nil {
		return productdom.Product{}, ledgerdom.Deduction{}, errors.New("stock usecase/repo is nil")
	}
	if amount <= 0 {
		return productdom.Product{}, ledgerdom.Deduction{}, productdom.ErrInvalidAmount
	}

	p, d, err := uc.ledger.Deduct(ctx, productID, amount)
	if err != nil {
		log.Printf("[stock_uc] deduct failed productId=%q amount=%v err=%v", productID, amount, err)
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	uc.cache.Invalidate()

	log.Printf("[stock_uc] deduct ok productId=%q amount=%v stock=%d remainder=%v deductionId=%q",
		p.ID, amount, p.Stock, p.FractionRemaining, d.ID)
	return p, d, nil
}

// Return reverses a prior deduction: restores the stock, records a Return,
// and consumes the source Deduction, as one atomic unit.
func (uc *StockUsecase) Return(ctx context.Context, deductionID string) (productdom.Product, ledgerdom.Return, error) {
	if uc == nil || uc.ledger == nil {
		return productdom.Product{}, ledgerdom.Return{}, errors.New("stock usecase/repo is nil")
	}

	p, ret, err := uc.ledger.Return(ctx, deductionID)
	if err != nil {
		log.Printf("[stock_uc] return failed deductionId=%q err=%v", deductionID, err)
		return productdom.Product{}, ledgerdom.Return{}, err
	}
	uc.cache.Invalidate()

	log.Printf("[stock_uc] return ok deductionId=%q productId=%q amount=%v stock=%d remainder=%v",
		deductionID, p.ID, ret.Amount, p.Stock, p.FractionRemaining)
	return p, ret, nil
}

// DeleteDeduction drops a ledger record without restoring stock.
func (uc *StockUsecase) DeleteDeduction(ctx context.Context, id string) error {
	if uc == nil || uc.ledger == nil {
		return errors.New("stock usecase/repo is nil")
	}

	if err := uc.ledger.DeleteDeduction(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate()

	log.Printf("[stock_uc] deduction deleted deductionId=%q", id)
	return nil
}

func (uc *StockUsecase) LatestDeductions(ctx context.Context, n int) ([]ledgerdom.Deduction, error) {
	if uc == nil || uc.ledger == nil {
		return nil, errors.New("stock usecase/repo is nil")
	}
	return uc.ledger.ListLatestDeductions(ctx, n)
}

func (uc *StockUsecase) ListReturns(ctx context.Context, page, perPage int) ([]ledgerdom.Return, int, error) {
	if uc == nil || uc.ledger == nil {
		return nil, 0, errors.New("stock usecase/repo is nil")
	}
	return uc.ledger.ListReturns(ctx, page, perPage)
}
