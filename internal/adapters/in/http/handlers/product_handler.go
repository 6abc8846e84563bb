// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	usecase "stockroom/internal/application/usecase"
	productdom "stockroom/internal/domain/product"
)

// ProductHandler は /products 関連のエンドポイントを担当します。
type ProductHandler struct {
	uc      *usecase.ProductUsecase
	stockUC *usecase.StockUsecase
}

// NewProductHandler はHTTPハンドラを初期化します。
func NewProductHandler(uc *usecase.ProductUsecase, stockUC *usecase.StockUsecase) http.Handler {
	return &ProductHandler{uc: uc, stockUC: stockUC}
}

// ServeHTTP はHTTPルーティングの入口です。
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	log.Printf("[ProductHandler] method=%s path=%s query=%s", r.Method, r.URL.Path, r.URL.RawQuery)

	switch {

	// ------------------------------------------------------------
	// GET /products
	//   → 全商品一覧（TTL キャッシュ経由）
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && r.URL.Path == "/products":
		h.list(w, r)

	// ------------------------------------------------------------
	// POST /products
	//   body: { name, categoryName, stock, isDivisible,
	//           fractionPerUnit?, fractionRemaining? }
	// ------------------------------------------------------------
	case r.Method == http.MethodPost && r.URL.Path == "/products":
		h.create(w, r)

	// ------------------------------------------------------------
	// GET /products/in-stock?page=1&perPage=10
	//   → stock > 0 の商品を name 順・ページ付きで返す
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && r.URL.Path == "/products/in-stock":
		h.listInStock(w, r)

	// ------------------------------------------------------------
	// POST /products/{id}/deduct
	//   body: { "amount": 1.2 }
	//   → 在庫控除トランザクション（product 更新 + deduction 追記）
	// ------------------------------------------------------------
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/deduct") && strings.HasPrefix(r.URL.Path, "/products/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/products/"), "/deduct")
		h.deduct(w, r, strings.Trim(id, "/"))

	// ------------------------------------------------------------
	// GET /products/{id}
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		h.get(w, r, id)

	// ------------------------------------------------------------
	// PATCH /products/{id}
	// ------------------------------------------------------------
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		h.update(w, r, id)

	// ------------------------------------------------------------
	// DELETE /products/{id}
	//   body: { "confirmName": "..." }  ※ 商品名の再入力が必須
	// ------------------------------------------------------------
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/products/"):
		id := strings.TrimPrefix(r.URL.Path, "/products/")
		h.delete(w, r, id)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.uc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListJSON(products))
}

func (h *ProductHandler) listInStock(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 10)

	products, total, err := h.uc.ListInStock(r.Context(), page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": toProductListJSON(products),
		"total":    total,
		"page":     page,
		"perPage":  perPage,
	})
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(p))
}

type productBody struct {
	Name              string  `json:"name"`
	CategoryName      string  `json:"categoryName"`
	Stock             int64   `json:"stock"`
	IsDivisible       bool    `json:"isDivisible"`
	FractionPerUnit   float64 `json:"fractionPerUnit"`
	FractionRemaining float64 `json:"fractionRemaining"`
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := h.uc.Add(r.Context(),
		body.Name, body.CategoryName, body.Stock,
		body.IsDivisible, body.FractionPerUnit, body.FractionRemaining)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(created))
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var body productBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := h.uc.Update(r.Context(), productdom.Product{
		ID:                strings.TrimSpace(id),
		Name:              body.Name,
		CategoryName:      body.CategoryName,
		Stock:             body.Stock,
		IsDivisible:       body.IsDivisible,
		FractionPerUnit:   body.FractionPerUnit,
		FractionRemaining: body.FractionRemaining,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(updated))
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		ConfirmName string `json:"confirmName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.uc.Delete(r.Context(), id, body.ConfirmName); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ProductHandler) deduct(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	p, d, err := h.stockUC.Deduct(r.Context(), id, body.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":   toProductJSON(p),
		"deduction": toDeductionJSON(d),
	})
}
