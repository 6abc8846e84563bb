// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
// RouterDeps などからは *middleware.FirebaseAuthClient 型で受けられます。
type FirebaseAuthClient = fbauth.Client

// context key は string を使わず、衝突回避のため独自型を使用（SA1029 対策）
type ctxKey struct{ name string }

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// AuthMiddleware は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、uid/email を context に詰めて次のハンドラへ渡す。
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		email := ""
		if v, ok := token.Claims["email"].(string); ok {
			email = strings.TrimSpace(v)
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
		ctx = context.WithValue(ctx, ctxKeyEmail, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUIDAndEmail extracts the verified identity stashed by the
// middleware. ok is false when the request did not pass through it.
func CurrentUIDAndEmail(r *http.Request) (uid, email string, ok bool) {
	uid, okUID := r.Context().Value(ctxKeyUID).(string)
	email, _ = r.Context().Value(ctxKeyEmail).(string)
	if !okUID || uid == "" {
		return "", "", false
	}
	return uid, email, true
}
