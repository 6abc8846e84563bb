// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	productdom "stockroom/internal/domain/product"
	"stockroom/internal/infra/cache"
)

type ProductUsecase struct {
	repo  productdom.RepositoryPort
	cache *cache.ProductCache
}

func NewProductUsecase(repo productdom.RepositoryPort, c *cache.ProductCache) *ProductUsecase {
	return &ProductUsecase{repo: repo, cache: c}
}

// List serves the full product list through the TTL cache. The cache is an
// initial-paint optimization only; any mutation in this usecase invalidates
// it so the next List goes back to the store.
func (uc *ProductUsecase) List(ctx context.Context) ([]productdom.Product, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("product usecase/repo is nil")
	}

	if cached, ok := uc.cache.Get(); ok {
		return cached, nil
	}

	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(products)
	return products, nil
}

func (uc *ProductUsecase) ListInStock(ctx context.Context, page, perPage int) ([]productdom.Product, int, error) {
	if uc == nil || uc.repo == nil {
		return nil, 0, errors.New("product usecase/repo is nil")
	}
	return uc.repo.ListInStock(ctx, page, perPage)
}

func (uc *ProductUsecase) Get(ctx context.Context, id string) (productdom.Product, error) {
	if uc == nil || uc.repo == nil {
		return productdom.Product{}, errors.New("product usecase/repo is nil")
	}
	return uc.repo.GetByID(ctx, id)
}

func (uc *ProductUsecase) Add(
	ctx context.Context,
	name string,
	categoryName string,
	stock int64,
	isDivisible bool,
	fractionPerUnit float64,
	fractionRemaining float64,
) (productdom.Product, error) {
	if uc == nil || uc.repo == nil {
		return productdom.Product{}, errors.New("product usecase/repo is nil")
	}

	p, err := productdom.New(name, categoryName, stock, isDivisible, fractionPerUnit, fractionRemaining, time.Now().UTC())
	if err != nil {
		return productdom.Product{}, err
	}

	created, err := uc.repo.Create(ctx, p)
	if err != nil {
		return productdom.Product{}, err
	}
	uc.cache.Invalidate()

	log.Printf("[product_uc] add ok productId=%q name=%q category=%q", created.ID, created.Name, created.CategoryName)
	return created, nil
}

func (uc *ProductUsecase) Update(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if uc == nil || uc.repo == nil {
		return productdom.Product{}, errors.New("product usecase/repo is nil")
	}

	if strings.TrimSpace(p.ID) == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	updated, err := uc.repo.Update(ctx, p)
	if err != nil {
		return productdom.Product{}, err
	}
	uc.cache.Invalidate()

	log.Printf("[product_uc] update ok productId=%q", updated.ID)
	return updated, nil
}

// Delete removes a product after the caller re-typed its exact name.
// A mismatch fails with ErrNameMismatch before any write.
func (uc *ProductUsecase) Delete(ctx context.Context, id, confirmName string) error {
	if uc == nil || uc.repo == nil {
		return errors.New("product usecase/repo is nil")
	}

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if confirmName != p.Name {
		return productdom.ErrNameMismatch
	}

	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	uc.cache.Invalidate()

	log.Printf("[product_uc] delete ok productId=%q name=%q", p.ID, p.Name)
	return nil
}
