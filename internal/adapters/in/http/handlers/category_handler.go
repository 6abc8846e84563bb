// internal/adapters/in/http/handlers/category_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	usecase "stockroom/internal/application/usecase"
)

// CategoryHandler は /categories 関連のエンドポイントを担当します。
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) http.Handler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	log.Printf("[CategoryHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {

	// ------------------------------------------------------------
	// GET /categories
	//   → 全カテゴリ（Uncategorized は無ければ自動作成）
	// ------------------------------------------------------------
	case r.Method == http.MethodGet && r.URL.Path == "/categories":
		h.list(w, r)

	// ------------------------------------------------------------
	// POST /categories  body: { "name": "..." }
	//   → 重複名は 400
	// ------------------------------------------------------------
	case r.Method == http.MethodPost && r.URL.Path == "/categories":
		h.create(w, r)

	// ------------------------------------------------------------
	// PATCH /categories/{id}  body: { "name": "..." }
	//   → リネーム。参照している全 product の categoryName も更新
	// ------------------------------------------------------------
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/categories/"):
		id := strings.TrimPrefix(r.URL.Path, "/categories/")
		h.rename(w, r, id)

	// ------------------------------------------------------------
	// DELETE /categories/{id}
	//   → 削除。所属 product は Uncategorized へ付け替え
	// ------------------------------------------------------------
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/categories/"):
		id := strings.TrimPrefix(r.URL.Path, "/categories/")
		h.delete(w, r, id)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.uc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	created, err := h.uc.Add(r.Context(), body.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(created))
}

func (h *CategoryHandler) rename(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	touched, err := h.uc.Rename(r.Context(), id, body.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "renamed",
		"productsTouched": touched,
	})
}

func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	reassigned, err := h.uc.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "deleted",
		"productsReassigned": reassigned,
	})
}
