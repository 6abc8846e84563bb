// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"

	categorydom "stockroom/internal/domain/category"
	"stockroom/internal/infra/cache"
)

type CategoryUsecase struct {
	repo  categorydom.RepositoryPort
	cache *cache.ProductCache
}

func NewCategoryUsecase(repo categorydom.RepositoryPort, c *cache.ProductCache) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, cache: c}
}

// List returns all categories, bootstrapping the Uncategorized fallback on
// first use so it is always present.
func (uc *CategoryUsecase) List(ctx context.Context) ([]categorydom.Category, error) {
	if uc == nil || uc.repo == nil {
		return nil, errors.New("category usecase/repo is nil")
	}

	if _, err := uc.repo.EnsureUncategorized(ctx); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx)
}

func (uc *CategoryUsecase) Add(ctx context.Context, name string) (categorydom.Category, error) {
	if uc == nil || uc.repo == nil {
		return categorydom.Category{}, errors.New("category usecase/repo is nil")
	}

	if _, err := uc.repo.EnsureUncategorized(ctx); err != nil {
		return categorydom.Category{}, err
	}

	created, err := uc.repo.Create(ctx, name)
	if err != nil {
		return categorydom.Category{}, err
	}

	log.Printf("[category_uc] add ok categoryId=%q name=%q", created.ID, created.Name)
	return created, nil
}

// Rename propagates the new name to every product referencing the old one
// (the relation is by name, not id) and invalidates the product cache since
// those products changed.
func (uc *CategoryUsecase) Rename(ctx context.Context, id, newName string) (int, error) {
	if uc == nil || uc.repo == nil {
		return 0, errors.New("category usecase/repo is nil")
	}

	touched, err := uc.repo.Rename(ctx, id, newName)
	if err != nil {
		return 0, err
	}
	uc.cache.Invalidate()

	log.Printf("[category_uc] rename ok categoryId=%q newName=%q productsTouched=%d", id, newName, touched)
	return touched, nil
}

// Delete reassigns the category's products to Uncategorized (created first
// when missing) rather than deleting them.
func (uc *CategoryUsecase) Delete(ctx context.Context, id string) (int, error) {
	if uc == nil || uc.repo == nil {
		return 0, errors.New("category usecase/repo is nil")
	}

	reassigned, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	uc.cache.Invalidate()

	log.Printf("[category_uc] delete ok categoryId=%q productsReassigned=%d", id, reassigned)
	return reassigned, nil
}
