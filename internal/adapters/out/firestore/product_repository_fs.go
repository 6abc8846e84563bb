// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "stockroom/internal/domain/product"
)

// Firestore-based implementation of the Product repository.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// ============================================================
// product.RepositoryPort
// ============================================================

func (r *ProductRepositoryFS) Create(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	ref := r.col().NewDoc()
	if id := strings.TrimSpace(p.ID); id != "" {
		ref = r.col().Doc(id)
	}

	if _, err := ref.Create(ctx, productToDoc(p)); err != nil {
		return productdom.Product{}, err
	}

	p.ID = ref.ID
	return p, nil
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return docToProduct(snap)
}

func (r *ProductRepositoryFS) List(ctx context.Context) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	out := make([]productdom.Product, 0, 64)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := docToProduct(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ListInStock mirrors the in-stock view: stock > 0, ordered by name, paged.
// The total count is taken with a full read of the filtered set, the same
// way the original view derived its page count.
func (r *ProductRepositoryFS) ListInStock(ctx context.Context, page, perPage int) ([]productdom.Product, int, error) {
	if r == nil || r.Client == nil {
		return nil, 0, errors.New("firestore client is nil")
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	base := r.col().Where("stock", ">", 0)

	all, err := base.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, err
	}
	total := len(all)

	q := base.OrderBy("name", firestore.Asc).
		Offset((page - 1) * perPage).
		Limit(perPage)

	it := q.Documents(ctx)
	defer it.Stop()

	out := make([]productdom.Product, 0, perPage)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		p, err := docToProduct(doc)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

func (r *ProductRepositoryFS) Update(ctx context.Context, p productdom.Product) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("firestore client is nil")
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "name", Value: p.Name},
		{Path: "categoryName", Value: p.CategoryName},
		{Path: "stock", Value: p.Stock},
		{Path: "isDivisible", Value: p.IsDivisible},
		{Path: "fractionPerUnit", Value: p.FractionPerUnit},
		{Path: "fractionRemaining", Value: p.FractionRemaining},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}

	p.UpdatedAt = time.Now().UTC()
	return p, nil
}

func (r *ProductRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.ErrNotFound
	}

	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// WatchLowStock subscribes to products with stock below threshold, capped to
// limit by server-side ordering, and pushes a full snapshot on every change.
func (r *ProductRepositoryFS) WatchLowStock(ctx context.Context, threshold, limit int, onChange func([]productdom.Product)) (func(), error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback is nil")
	}

	q := r.col().Where("stock", "<", threshold).Limit(limit)
	return watchQuery(ctx, "low-stock", q, func(snap *firestore.QuerySnapshot) {
		products := make([]productdom.Product, 0, snap.Size)
		docs := snap.Documents
		defer docs.Stop()
		for {
			doc, err := docs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return
			}
			p, err := docToProduct(doc)
			if err != nil {
				continue
			}
			products = append(products, p)
		}
		onChange(products)
	})
}

// ============================================================
// Mapping Helpers
// ============================================================

func docToProduct(doc *firestore.DocumentSnapshot) (productdom.Product, error) {
	var raw struct {
		Name              string    `firestore:"name"`
		CategoryName      string    `firestore:"categoryName"`
		Stock             int64     `firestore:"stock"`
		IsDivisible       bool      `firestore:"isDivisible"`
		FractionPerUnit   float64   `firestore:"fractionPerUnit"`
		FractionRemaining float64   `firestore:"fractionRemaining"`
		CreatedAt         time.Time `firestore:"createdAt"`
		UpdatedAt         time.Time `firestore:"updatedAt"`
	}
	if err := doc.DataTo(&raw); err != nil {
		return productdom.Product{}, err
	}

	return productdom.Product{
		ID:                doc.Ref.ID,
		Name:              strings.TrimSpace(raw.Name),
		CategoryName:      strings.TrimSpace(raw.CategoryName),
		Stock:             raw.Stock,
		IsDivisible:       raw.IsDivisible,
		FractionPerUnit:   raw.FractionPerUnit,
		FractionRemaining: raw.FractionRemaining,
		CreatedAt:         raw.CreatedAt,
		UpdatedAt:         raw.UpdatedAt,
	}, nil
}

func productToDoc(p productdom.Product) map[string]any {
	return map[string]any{
		"name":              p.Name,
		"categoryName":      p.CategoryName,
		"stock":             p.Stock,
		"isDivisible":       p.IsDivisible,
		"fractionPerUnit":   p.FractionPerUnit,
		"fractionRemaining": p.FractionRemaining,
		"createdAt":         firestore.ServerTimestamp,
		"updatedAt":         firestore.ServerTimestamp,
	}
}
