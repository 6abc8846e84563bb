package httpin

import (
	"net/http"

	usecase "stockroom/internal/application/usecase"
	authuc "stockroom/internal/application/usecase/auth"

	// ハンドラ群
	"stockroom/internal/adapters/in/http/handlers"
	"stockroom/internal/adapters/in/http/middleware"
)

// RouterDeps collects all usecases (and other dependencies) injected from the DI container.
type RouterDeps struct {
	ProductUC   *usecase.ProductUsecase
	StockUC     *usecase.StockUsecase
	CategoryUC  *usecase.CategoryUsecase
	DashboardUC *usecase.DashboardUsecase
	BootstrapUC *authuc.BootstrapService

	// FirebaseAuth が nil の場合は認証ミドルウェアを外す（ローカル検証用）。
	FirebaseAuth *middleware.FirebaseAuthClient
}

// NewRouter sets up HTTP routing for all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on, no auth)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	guard := func(h http.Handler) http.Handler { return h }
	if deps.FirebaseAuth != nil {
		am := &middleware.AuthMiddleware{FirebaseAuth: deps.FirebaseAuth}
		guard = am.Handler
	}

	// 以降、Usecase が存在するものだけマウントする
	if deps.ProductUC != nil && deps.StockUC != nil {
		h := guard(handlers.NewProductHandler(deps.ProductUC, deps.StockUC))
		mux.Handle("/products", h)
		mux.Handle("/products/", h)
	}

	if deps.StockUC != nil {
		h := guard(handlers.NewLedgerHandler(deps.StockUC))
		mux.Handle("/deductions", h)
		mux.Handle("/deductions/", h)
		mux.Handle("/returns", h)
	}

	if deps.CategoryUC != nil {
		h := guard(handlers.NewCategoryHandler(deps.CategoryUC))
		mux.Handle("/categories", h)
		mux.Handle("/categories/", h)
	}

	if deps.DashboardUC != nil {
		mux.Handle("/dashboard", guard(handlers.NewDashboardHandler(deps.DashboardUC)))
	}

	if deps.BootstrapUC != nil {
		mux.Handle("/auth/bootstrap", guard(handlers.NewAuthBootstrapHandler(deps.BootstrapUC)))
	}

	return middleware.Recover(mux)
}
