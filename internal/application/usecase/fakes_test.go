// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	categorydom "stockroom/internal/domain/category"
	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
)

// ------------------------------------------------------------
// in-memory RepositoryPort implementations for usecase tests
// ------------------------------------------------------------

type fakeProductRepo struct {
	mu        sync.Mutex
	seq       int
	products  map[string]productdom.Product
	listCalls int

	lowStockFn func([]productdom.Product)
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]productdom.Product{}}
}

func (r *fakeProductRepo) put(p productdom.Product) productdom.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		r.seq++
		p.ID = fmt.Sprintf("p%d", r.seq)
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	return r.put(p), nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) ListInStock(ctx context.Context, page, perPage int) ([]productdom.Product, int, error) {
	all, _ := r.List(ctx)
	inStock := make([]productdom.Product, 0, len(all))
	for _, p := range all {
		if p.Stock > 0 {
			inStock = append(inStock, p)
		}
	}
	sort.Slice(inStock, func(i, j int) bool { return inStock[i].Name < inStock[j].Name })

	total := len(inStock)
	from := (page - 1) * perPage
	if from >= total {
		return nil, total, nil
	}
	to := from + perPage
	if to > total {
		to = total
	}
	return inStock[from:to], total, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) WatchLowStock(_ context.Context, _, _ int, onChange func([]productdom.Product)) (func(), error) {
	r.mu.Lock()
	r.lowStockFn = onChange
	r.mu.Unlock()
	return func() {}, nil
}

// fakeLedgerRepo reuses the product transition rules so the fake stays honest
// about insufficient-stock and whole-unit failures.
type fakeLedgerRepo struct {
	mu         sync.Mutex
	seq        int
	products   *fakeProductRepo
	deductions map[string]ledgerdom.Deduction
	returns    []ledgerdom.Return

	deductionsFn func([]ledgerdom.Deduction)
}

func newFakeLedgerRepo(products *fakeProductRepo) *fakeLedgerRepo {
	return &fakeLedgerRepo{products: products, deductions: map[string]ledgerdom.Deduction{}}
}

func (r *fakeLedgerRepo) Deduct(ctx context.Context, productID string, amount float64) (productdom.Product, ledgerdom.Deduction, error) {
	p, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	updated, err := p.ApplyDeduction(amount)
	if err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	if _, err := r.products.Update(ctx, updated); err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	d := ledgerdom.Deduction{
		ID:           fmt.Sprintf("d%d", r.seq),
		ProductID:    p.ID,
		ProductName:  p.Name,
		CategoryName: p.CategoryName,
		Amount:       amount,
		Date:         time.Now(),
	}
	r.deductions[d.ID] = d
	return updated, d, nil
}

func (r *fakeLedgerRepo) Return(ctx context.Context, deductionID string) (productdom.Product, ledgerdom.Return, error) {
	r.mu.Lock()
	d, ok := r.deductions[deductionID]
	r.mu.Unlock()
	if !ok {
		return productdom.Product{}, ledgerdom.Return{}, ledgerdom.ErrDeductionNotFound
	}

	p, err := r.products.GetByID(ctx, d.ProductID)
	if err != nil {
		return productdom.Product{}, ledgerdom.Return{}, err
	}
	updated, err := p.ApplyReturn(d.Amount)
	if err != nil {
		return productdom.Product{}, ledgerdom.Return{}, err
	}
	if _, err := r.products.Update(ctx, updated); err != nil {
		return productdom.Product{}, ledgerdom.Return{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ret := ledgerdom.Return{
		ID:           fmt.Sprintf("r%d", r.seq),
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		CategoryName: d.CategoryName,
		Amount:       d.Amount,
		Date:         time.Now(),
	}
	r.returns = append(r.returns, ret)
	delete(r.deductions, deductionID)
	return updated, ret, nil
}

func (r *fakeLedgerRepo) GetDeduction(_ context.Context, id string) (ledgerdom.Deduction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deductions[id]
	if !ok {
		return ledgerdom.Deduction{}, ledgerdom.ErrDeductionNotFound
	}
	return d, nil
}

func (r *fakeLedgerRepo) ListLatestDeductions(_ context.Context, n int) ([]ledgerdom.Deduction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledgerdom.Deduction, 0, len(r.deductions))
	for _, d := range r.deductions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *fakeLedgerRepo) DeleteDeduction(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deductions[id]; !ok {
		return ledgerdom.ErrDeductionNotFound
	}
	delete(r.deductions, id)
	return nil
}

func (r *fakeLedgerRepo) ListReturns(_ context.Context, page, perPage int) ([]ledgerdom.Return, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.returns)
	from := (page - 1) * perPage
	if from >= total {
		return nil, total, nil
	}
	to := from + perPage
	if to > total {
		to = total
	}
	return r.returns[from:to], total, nil
}

func (r *fakeLedgerRepo) WatchLatestDeductions(_ context.Context, _ int, onChange func([]ledgerdom.Deduction)) (func(), error) {
	r.mu.Lock()
	r.deductionsFn = onChange
	r.mu.Unlock()
	return func() {}, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int
	categories map[string]categorydom.Category
	products   *fakeProductRepo
}

func newFakeCategoryRepo(products *fakeProductRepo) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]categorydom.Category{}, products: products}
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]categorydom.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]categorydom.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (categorydom.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return categorydom.Category{}, categorydom.ErrNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, name string) (categorydom.Category, error) {
	n, err := categorydom.NormalizeName(name)
	if err != nil {
		return categorydom.Category{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == n {
			return categorydom.Category{}, categorydom.ErrDuplicateName
		}
	}
	r.seq++
	c := categorydom.Category{ID: fmt.Sprintf("c%d", r.seq), Name: n}
	r.categories[c.ID] = c
	return c, nil
}

func (r *fakeCategoryRepo) EnsureUncategorized(ctx context.Context) (categorydom.Category, error) {
	r.mu.Lock()
	for _, c := range r.categories {
		if c.Name == categorydom.Uncategorized {
			r.mu.Unlock()
			return c, nil
		}
	}
	r.mu.Unlock()
	return r.Create(ctx, categorydom.Uncategorized)
}

func (r *fakeCategoryRepo) Rename(ctx context.Context, id, newName string) (int, error) {
	n, err := categorydom.NormalizeName(newName)
	if err != nil {
		return 0, err
	}

	c, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Name == categorydom.Uncategorized {
		return 0, categorydom.ErrReserved
	}
	if c.Name == n {
		return 0, nil
	}

	touched := 0
	r.products.mu.Lock()
	for pid, p := range r.products.products {
		if p.CategoryName == c.Name {
			p.CategoryName = n
			r.products.products[pid] = p
			touched++
		}
	}
	r.products.mu.Unlock()

	r.mu.Lock()
	c.Name = n
	r.categories[id] = c
	r.mu.Unlock()
	return touched, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id string) (int, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Name == categorydom.Uncategorized {
		return 0, categorydom.ErrReserved
	}
	if _, err := r.EnsureUncategorized(ctx); err != nil {
		return 0, err
	}

	reassigned := 0
	r.products.mu.Lock()
	for pid, p := range r.products.products {
		if p.CategoryName == c.Name {
			p.CategoryName = categorydom.Uncategorized
			r.products.products[pid] = p
			reassigned++
		}
	}
	r.products.mu.Unlock()

	r.mu.Lock()
	delete(r.categories, id)
	r.mu.Unlock()
	return reassigned, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls [][]productdom.Product
}

func (n *fakeNotifier) SendLowStockAlert(_ context.Context, products []productdom.Product) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]productdom.Product, len(products))
	copy(cp, products)
	n.calls = append(n.calls, cp)
	return nil
}
