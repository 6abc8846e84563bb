// internal/adapters/in/http/handlers/product_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	usecase "stockroom/internal/application/usecase"
	ledgerdom "stockroom/internal/domain/ledger"
	productdom "stockroom/internal/domain/product"
	"stockroom/internal/infra/cache"
)

// stubProductRepo serves a single fixed product.
type stubProductRepo struct {
	p productdom.Product
}

func (r *stubProductRepo) Create(_ context.Context, p productdom.Product) (productdom.Product, error) {
	p.ID = "created"
	return p, nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	if id != r.p.ID {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return r.p, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]productdom.Product, error) {
	return []productdom.Product{r.p}, nil
}

func (r *stubProductRepo) ListInStock(_ context.Context, _, _ int) ([]productdom.Product, int, error) {
	return []productdom.Product{r.p}, 1, nil
}

func (r *stubProductRepo) Update(_ context.Context, p productdom.Product) (productdom.Product, error) {
	r.p = p
	return p, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if id != r.p.ID {
		return productdom.ErrNotFound
	}
	return nil
}

func (r *stubProductRepo) WatchLowStock(_ context.Context, _, _ int, _ func([]productdom.Product)) (func(), error) {
	return func() {}, nil
}

// stubLedgerRepo applies the deduction arithmetic against the product repo.
type stubLedgerRepo struct {
	products *stubProductRepo
}

func (r *stubLedgerRepo) Deduct(ctx context.Context, productID string, amount float64) (productdom.Product, ledgerdom.Deduction, error) {
	p, err := r.products.GetByID(ctx, productID)
	if err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	updated, err := p.ApplyDeduction(amount)
	if err != nil {
		return productdom.Product{}, ledgerdom.Deduction{}, err
	}
	r.products.p = updated
	return updated, ledgerdom.Deduction{
		ID: "d1", ProductID: p.ID, ProductName: p.Name, CategoryName: p.CategoryName,
		Amount: amount, Date: time.Now(),
	}, nil
}

func (r *stubLedgerRepo) Return(_ context.Context, _ string) (productdom.Product, ledgerdom.Return, error) {
	return productdom.Product{}, ledgerdom.Return{}, ledgerdom.ErrDeductionNotFound
}

func (r *stubLedgerRepo) GetDeduction(_ context.Context, _ string) (ledgerdom.Deduction, error) {
	return ledgerdom.Deduction{}, ledgerdom.ErrDeductionNotFound
}

func (r *stubLedgerRepo) ListLatestDeductions(_ context.Context, _ int) ([]ledgerdom.Deduction, error) {
	return nil, nil
}

func (r *stubLedgerRepo) DeleteDeduction(_ context.Context, _ string) error {
	return ledgerdom.ErrDeductionNotFound
}

func (r *stubLedgerRepo) ListReturns(_ context.Context, _, _ int) ([]ledgerdom.Return, int, error) {
	return nil, 0, nil
}

func (r *stubLedgerRepo) WatchLatestDeductions(_ context.Context, _ int, _ func([]ledgerdom.Deduction)) (func(), error) {
	return func() {}, nil
}

func newTestProductHandler(p productdom.Product) (http.Handler, *stubProductRepo) {
	repo := &stubProductRepo{p: p}
	c := cache.NewProductCache(5 * time.Minute)
	return NewProductHandler(
		usecase.NewProductUsecase(repo, c),
		usecase.NewStockUsecase(&stubLedgerRepo{products: repo}, c),
	), repo
}

func TestProductHandlerDeduct(t *testing.T) {
	h, _ := newTestProductHandler(productdom.Product{
		ID: "p1", Name: "Rice", CategoryName: "Food",
		Stock: 2, IsDivisible: true, FractionPerUnit: 1000, FractionRemaining: 500,
	})

	req := httptest.NewRequest(http.MethodPost, "/products/p1/deduct", strings.NewReader(`{"amount":1.2}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Product struct {
			Stock             int64   `json:"stock"`
			FractionRemaining float64 `json:"fractionRemaining"`
		} `json:"product"`
		Deduction struct {
			Amount      float64 `json:"amount"`
			ProductName string  `json:"productName"`
		} `json:"deduction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Product.Stock != 1 || body.Product.FractionRemaining != 300 {
		t.Fatalf("product after deduct = %+v", body.Product)
	}
	if body.Deduction.Amount != 1.2 || body.Deduction.ProductName != "Rice" {
		t.Fatalf("deduction = %+v", body.Deduction)
	}
}

func TestProductHandlerDeductErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"insufficient stock is 409", "/products/p1/deduct", `{"amount":99}`, http.StatusConflict},
		{"zero amount is 400", "/products/p1/deduct", `{"amount":0}`, http.StatusBadRequest},
		{"broken json is 400", "/products/p1/deduct", `{`, http.StatusBadRequest},
		{"unknown product is 404", "/products/nope/deduct", `{"amount":1}`, http.StatusNotFound},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, _ := newTestProductHandler(productdom.Product{
				ID: "p1", Name: "Rice", Stock: 2, IsDivisible: true, FractionPerUnit: 1000,
			})

			req := httptest.NewRequest(http.MethodPost, c.target, strings.NewReader(c.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d (body = %s)", rec.Code, c.want, rec.Body.String())
			}
		})
	}
}

func TestProductHandlerDeleteConfirmation(t *testing.T) {
	h, _ := newTestProductHandler(productdom.Product{ID: "p1", Name: "Rice", Stock: 2})

	req := httptest.NewRequest(http.MethodDelete, "/products/p1", strings.NewReader(`{"confirmName":"rice"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatched name: status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/products/p1", strings.NewReader(`{"confirmName":"Rice"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("exact name: status = %d, want 200 (body = %s)", rec.Code, rec.Body.String())
	}
}

func TestProductHandlerListAndGet(t *testing.T) {
	h, _ := newTestProductHandler(productdom.Product{ID: "p1", Name: "Rice", Stock: 2})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0]["name"] != "Rice" {
		t.Fatalf("list = %+v", list)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing: status = %d, want 404", rec.Code)
	}
}
