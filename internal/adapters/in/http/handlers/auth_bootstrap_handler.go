// internal/adapters/in/http/handlers/auth_bootstrap_handler.go
package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	authuc "stockroom/internal/application/usecase/auth"
	"stockroom/internal/adapters/in/http/middleware"
)

// AuthBootstrapHandler は初回サインアップ直後の「自分のアカウント作成」を
// 受け付けます。uid / email は検証済み ID トークン由来で、body には含めません。
type AuthBootstrapHandler struct {
	uc *authuc.BootstrapService
}

func NewAuthBootstrapHandler(uc *authuc.BootstrapService) http.Handler {
	return &AuthBootstrapHandler{uc: uc}
}

func (h *AuthBootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	uid, email, ok := middleware.CurrentUIDAndEmail(r)
	if !ok {
		writeErrorMsg(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	// body は任意（displayName のみ）。空 body も許容する。
	var profile *authuc.SignUpProfile
	var body authuc.SignUpProfile
	switch err := json.NewDecoder(r.Body).Decode(&body); err {
	case nil:
		profile = &body
	case io.EOF:
		// no body
	default:
		writeErrorMsg(w, http.StatusBadRequest, "invalid json")
		return
	}

	account, err := h.uc.Bootstrap(r.Context(), uid, email, profile)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	log.Printf("[AuthBootstrapHandler] bootstrapped uid=%q", account.UID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"uid":         account.UID,
		"email":       account.Email,
		"displayName": account.DisplayName,
	})
}
