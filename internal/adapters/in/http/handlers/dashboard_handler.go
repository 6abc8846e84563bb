// internal/adapters/in/http/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	usecase "stockroom/internal/application/usecase"
)

// DashboardHandler はサブスクリプション由来の集計を返します。
// 集計はメモリ上に保持されているため、この GET は Firestore を読みません。
type DashboardHandler struct {
	uc *usecase.DashboardUsecase
}

func NewDashboardHandler(uc *usecase.DashboardUsecase) http.Handler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	alerts := h.uc.StockAlerts()
	ranking := h.uc.TopSelling()

	top := make([]map[string]any, 0, len(ranking))
	for _, e := range ranking {
		top = append(top, map[string]any{
			"productName":     e.ProductName,
			"totalDeductions": e.TotalDeductions,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stockAlerts": toProductListJSON(alerts),
		"topSelling":  top,
	})
}
