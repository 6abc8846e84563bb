// internal/adapters/out/mail/stock_alert_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	productdom "stockroom/internal/domain/product"
)

// StockAlertMailerPort はアプリケーション層（usecase）が利用する
// 「在庫アラートメール送信用アウトバウンドポート」のインターフェースです。
//
//   - products : 新たに在庫しきい値を下回った商品の一覧
type StockAlertMailerPort interface {
	SendLowStockAlert(ctx context.Context, products []productdom.Product) error
}

// EmailClient は実際のメール送信クライアント（SMTP / SendGrid / SES など）を
// 抽象化した下位レベルのインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// StockAlertMailer は StockAlertMailerPort の具象実装で、
// 内部で EmailClient を利用してメール送信を行います。
type StockAlertMailer struct {
	client      EmailClient
	fromAddress string
	toAddress   string
}

func NewStockAlertMailer(client EmailClient, fromAddress, toAddress string) *StockAlertMailer {
	return &StockAlertMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		toAddress:   strings.TrimSpace(toAddress),
	}
}

func (m *StockAlertMailer) SendLowStockAlert(ctx context.Context, products []productdom.Product) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("stock alert mailer is not configured")
	}
	if len(products) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("The following products are running low on stock:\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "  - %s: %d remaining\n", p.Name, p.Stock)
	}
	b.WriteString("\nRestock them from the dashboard.\n")

	subject := fmt.Sprintf("Stock alert: %d product(s) below threshold", len(products))
	return m.client.Send(ctx, m.fromAddress, m.toAddress, subject, b.String())
}
