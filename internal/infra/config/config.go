// internal/infra/config/config.go
package config

import "os"

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port                     string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth 用のプロジェクトID
	FirebaseProjectID string

	// 在庫アラートメール（未設定なら通知はスキップされる）
	SendGridAPIKey string
	// SENDGRID_API_KEY が空のとき Secret Manager から引くシークレット名
	SendGridSecretName string
	AlertFromAddress   string
	AlertToAddress     string

	// 許可するフロントのオリジン
	CORSOrigin string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "stockroom-app")

	return &Config{
		Port:                     getenvDefault("PORT", "8080"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		SendGridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		SendGridSecretName: getenvDefault("SENDGRID_SECRET_NAME", "sendgrid-api-key"),
		AlertFromAddress:   os.Getenv("ALERT_FROM_ADDRESS"),
		AlertToAddress:     os.Getenv("ALERT_TO_ADDRESS"),

		CORSOrigin: getenvDefault("CORS_ORIGIN", "*"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
