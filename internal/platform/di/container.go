// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	// プラットフォーム系
	"stockroom/internal/infra/config"
	firestoreinfra "stockroom/internal/infra/firestore"

	// アウトバウンドアダプタ実装
	fsrepo "stockroom/internal/adapters/out/firestore"
	"stockroom/internal/adapters/out/mail"

	// アプリケーション層ユースケース
	usecase "stockroom/internal/application/usecase"
	authuc "stockroom/internal/application/usecase/auth"
	"stockroom/internal/infra/cache"

	// インバウンドアダプタ (HTTPルーター)
	httpin "stockroom/internal/adapters/in/http"
	"stockroom/internal/adapters/in/http/middleware"
)

// Container は main.go から使う依存オブジェクトの束。
// これを返す目的は main.go を極限まで薄くすること。
type Container struct {
	RouterDeps httpin.RouterDeps

	fs        *firestoreinfra.ClientWrapper
	dashboard *usecase.DashboardUsecase
	cleanupFn []func()
}

// Close は Cloud Run 終了時などに呼んで安全にリソースを閉じる。
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.dashboard != nil {
		c.dashboard.Stop()
	}
	for _, fn := range c.cleanupFn {
		fn()
	}
	if c.fs != nil {
		_ = c.fs.Close()
	}
}

// Build は DIコンテナを初期化して返す。
//   - 外部クライアント（Firestore / Firebase Auth / SendGrid）を組み立てる
//   - Repository実装とUsecaseとRouterDepsを全部つなぐ
func Build(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	// ------------------------------------------------------------
	// 1. 外部リソース初期化 (Firestore / Firebase Auth / SendGrid)
	// ------------------------------------------------------------

	fsClient, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("init firestore: %w", err)
	}

	var firebaseAuth *middleware.FirebaseAuthClient
	{
		opts := []option.ClientOption{}
		if cfg.FirestoreCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed, auth disabled: %v", err)
		} else if client, err := app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth init failed, auth disabled: %v", err)
		} else {
			firebaseAuth = client
		}
	}

	// SendGrid キーは環境変数優先、無ければ Secret Manager から引く。
	// どちらも無い場合は在庫アラートメールを無効化して続行する。
	sendGridKey := cfg.SendGridAPIKey
	if sendGridKey == "" && cfg.SendGridSecretName != "" {
		if key, err := fetchSecret(ctx, cfg.FirestoreProjectID, cfg.SendGridSecretName); err != nil {
			log.Printf("[di] WARN: sendgrid key lookup failed: %v", err)
		} else {
			sendGridKey = key
		}
	}

	var notifier usecase.AlertNotifierPort
	if sendGridKey != "" && cfg.AlertFromAddress != "" && cfg.AlertToAddress != "" {
		notifier = mail.NewStockAlertMailer(
			mail.NewSendGridClient(sendGridKey),
			cfg.AlertFromAddress,
			cfg.AlertToAddress,
		)
	} else {
		log.Printf("[di] stock alert mail disabled (missing key or addresses)")
	}

	// ------------------------------------------------------------
	// 2. Repository (outbound adapter) を初期化
	// ------------------------------------------------------------

	productRepo := fsrepo.NewProductRepositoryFS(fsClient.Client)
	ledgerRepo := fsrepo.NewLedgerRepositoryFS(fsClient.Client)
	categoryRepo := fsrepo.NewCategoryRepositoryFS(fsClient.Client)
	accountRepo := fsrepo.NewAccountRepositoryFS(fsClient.Client)

	// ------------------------------------------------------------
	// 3. Usecase を初期化
	// ------------------------------------------------------------

	productCache := cache.NewProductCache(cache.DefaultTTL)

	productUC := usecase.NewProductUsecase(productRepo, productCache)
	stockUC := usecase.NewStockUsecase(ledgerRepo, productCache)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productCache)
	bootstrapUC := authuc.NewBootstrapService(accountRepo)

	dashboardUC := usecase.NewDashboardUsecase(productRepo, ledgerRepo, notifier)
	if err := dashboardUC.Start(ctx); err != nil {
		_ = fsClient.Close()
		return nil, nil, fmt.Errorf("start dashboard subscriptions: %w", err)
	}

	// ------------------------------------------------------------
	// 4. Container を組み立てて返す
	// ------------------------------------------------------------

	container := &Container{
		RouterDeps: httpin.RouterDeps{
			ProductUC:    productUC,
			StockUC:      stockUC,
			CategoryUC:   categoryUC,
			DashboardUC:  dashboardUC,
			BootstrapUC:  bootstrapUC,
			FirebaseAuth: firebaseAuth,
		},
		fs:        fsClient,
		dashboard: dashboardUC,
	}

	cleanup := func() { container.Close() }
	return container, cleanup, nil
}

// fetchSecret は Secret Manager から最新バージョンのシークレット値を取得する。
func fetchSecret(ctx context.Context, projectID, secretName string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("secretmanager client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}
