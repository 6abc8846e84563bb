// internal/adapters/in/http/handlers/ledger_handler.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	usecase "stockroom/internal/application/usecase"
)

// LedgerHandler は /deductions と /returns を担当します。
type LedgerHandler struct {
	stockUC *usecase.StockUsecase
}

func NewLedgerHandler(stockUC *usecase.StockUsecase) http.Handler {
	return &LedgerHandler{stockUC: stockUC}
}

func (h *LedgerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	log.Printf("[LedgerHandler] method=%s path=%s query=%s", r.Method, r.URL.Path, r.URL.RawQuery)

	switch {

	// ------------------------------------------------------------
	// GET /deductions?limit=5
	//   → 最新の控除レコード（date 降順）
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && r.URL.Path == "/deductions":
		h.latestDeductions(w, r)

	// ------------------------------------------------------------
	// POST /deductions/{id}/return
	//   → 控除の取り消し：在庫復元 + return 追記 + 元レコード削除
	// ------------------------------------------------------------
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/return") && strings.HasPrefix(r.URL.Path, "/deductions/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/deductions/"), "/return")
		h.returnDeduction(w, r, strings.Trim(id, "/"))

	// ------------------------------------------------------------
	// DELETE /deductions/{id}
	//   → レコード削除のみ（在庫は戻さない）
	// ------------------------------------------------------------
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/deductions/"):
		id := strings.TrimPrefix(r.URL.Path, "/deductions/")
		h.deleteDeduction(w, r, id)

	// ------------------------------------------------------------
	// GET /returns?page=1&perPage=10
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && r.URL.Path == "/returns":
		h.listReturns(w, r)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *LedgerHandler) latestDeductions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5)

	list, err := h.stockUC.LatestDeductions(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]ledgerEntryJSON, 0, len(list))
	for _, d := range list {
		out = append(out, toDeductionJSON(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LedgerHandler) returnDeduction(w http.ResponseWriter, r *http.Request, id string) {
	p, ret, err := h.stockUC.Return(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product": toProductJSON(p),
		"return":  toReturnJSON(ret),
	})
}

func (h *LedgerHandler) deleteDeduction(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.stockUC.DeleteDeduction(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LedgerHandler) listReturns(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 10)

	list, total, err := h.stockUC.ListReturns(r.Context(), page, perPage)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]ledgerEntryJSON, 0, len(list))
	for _, ret := range list {
		out = append(out, toReturnJSON(ret))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returns": out,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}
