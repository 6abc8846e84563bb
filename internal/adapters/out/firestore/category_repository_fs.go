// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	categorydom "stockroom/internal/domain/category"
)

// Firestore-based implementation of the Category repository.
//
// The product->category relation is by name, so Rename and Delete fan out
// over every referencing product document inside one transaction. That keeps
// the name change and the product updates indivisible, at the cost of
// transactions proportional to the category size.
type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

func (r *CategoryRepositoryFS) products() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// ============================================================
// category.RepositoryPort
// ============================================================

func (r *CategoryRepositoryFS) List(ctx context.Context) ([]categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := make([]categorydom.Category, 0, 16)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToCategory(doc))
	}
	return out, nil
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return categorydom.Category{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return categorydom.Category{}, categorydom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return categorydom.Category{}, categorydom.ErrNotFound
		}
		return categorydom.Category{}, err
	}
	return docToCategory(snap), nil
}

func (r *CategoryRepositoryFS) Create(ctx context.Context, name string) (categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return categorydom.Category{}, errors.New("firestore client is nil")
	}

	name, err := categorydom.NormalizeName(name)
	if err != nil {
		return categorydom.Category{}, err
	}

	ref := r.col().NewDoc()

	// Duplicate check and create share one transaction so two concurrent
	// adds of the same name cannot both commit.
	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.col().Where("name", "==", name).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return categorydom.ErrDuplicateName
		}
		return tx.Create(ref, map[string]any{"name": name})
	})
	if err != nil {
		return categorydom.Category{}, err
	}

	return categorydom.Category{ID: ref.ID, Name: name}, nil
}

func (r *CategoryRepositoryFS) EnsureUncategorized(ctx context.Context) (categorydom.Category, error) {
	if r == nil || r.Client == nil {
		return categorydom.Category{}, errors.New("firestore client is nil")
	}

	ref := r.col().NewDoc()
	var out categorydom.Category

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.col().Where("name", "==", categorydom.Uncategorized).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			out = docToCategory(existing[0])
			return nil
		}
		if err := tx.Create(ref, map[string]any{"name": categorydom.Uncategorized}); err != nil {
			return err
		}
		out = categorydom.Category{ID: ref.ID, Name: categorydom.Uncategorized}
		return nil
	})
	if err != nil {
		return categorydom.Category{}, err
	}
	return out, nil
}

// Rename changes the category name and rewrites categoryName on every
// product still referencing the old name, in one transaction.
func (r *CategoryRepositoryFS) Rename(ctx context.Context, id, newName string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return 0, categorydom.ErrNotFound
	}
	newName, err := categorydom.NormalizeName(newName)
	if err != nil {
		return 0, err
	}

	catRef := r.col().Doc(id)
	touched := 0

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		touched = 0

		snap, err := tx.Get(catRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return categorydom.ErrNotFound
			}
			return err
		}
		cur := docToCategory(snap)

		if cur.Name == categorydom.Uncategorized {
			return categorydom.ErrReserved
		}
		if cur.Name == newName {
			return nil
		}

		dup, err := tx.Documents(r.col().Where("name", "==", newName).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(dup) > 0 {
			return categorydom.ErrDuplicateName
		}

		refs, err := tx.Documents(r.products().Where("categoryName", "==", cur.Name)).GetAll()
		if err != nil {
			return err
		}

		for _, doc := range refs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "categoryName", Value: newName},
				{Path: "updatedAt", Value: firestore.ServerTimestamp},
			}); err != nil {
				return err
			}
			touched++
		}

		return tx.Update(catRef, []firestore.Update{{Path: "name", Value: newName}})
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

// Delete removes the category and reassigns its products to Uncategorized,
// creating the Uncategorized category first when it is missing.
func (r *CategoryRepositoryFS) Delete(ctx context.Context, id string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return 0, categorydom.ErrNotFound
	}

	catRef := r.col().Doc(id)
	fallbackRef := r.col().NewDoc()
	reassigned := 0

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		reassigned = 0

		snap, err := tx.Get(catRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return categorydom.ErrNotFound
			}
			return err
		}
		cur := docToCategory(snap)

		if cur.Name == categorydom.Uncategorized {
			return categorydom.ErrReserved
		}

		fallback, err := tx.Documents(r.col().Where("name", "==", categorydom.Uncategorized).Limit(1)).GetAll()
		if err != nil {
			return err
		}

		refs, err := tx.Documents(r.products().Where("categoryName", "==", cur.Name)).GetAll()
		if err != nil {
			return err
		}

		if len(fallback) == 0 {
			if err := tx.Create(fallbackRef, map[string]any{"name": categorydom.Uncategorized}); err != nil {
				return err
			}
		}

		for _, doc := range refs {
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "categoryName", Value: categorydom.Uncategorized},
				{Path: "updatedAt", Value: firestore.ServerTimestamp},
			}); err != nil {
				return err
			}
			reassigned++
		}

		return tx.Delete(catRef)
	})
	if err != nil {
		return 0, err
	}
	return reassigned, nil
}

// ============================================================
// Mapping Helpers
// ============================================================

func docToCategory(doc *firestore.DocumentSnapshot) categorydom.Category {
	name, _ := doc.DataAt("name")
	s, _ := name.(string)
	return categorydom.Category{
		ID:   doc.Ref.ID,
		Name: strings.TrimSpace(s),
	}
}
