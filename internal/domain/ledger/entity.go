// internal/domain/ledger/entity.go
package ledger

import (
	"errors"
	"time"
)

var (
	ErrDeductionNotFound = errors.New("deduction not found")
	ErrInvalidProductID  = errors.New("invalid productId")
)

// Deduction は在庫を減らした 1 イベント（販売・消費）のレコードです。
// productName / categoryName は控除時点のスナップショットを非正規化して持ちます。
// Date はストア側のタイムスタンプで、挿入順に単調です。
type Deduction struct {
	ID           string
	ProductID    string
	ProductName  string
	CategoryName string
	Amount       float64
	Date         time.Time
}

// Return は Deduction を打ち消して在庫を戻したレコードです。
// 元の Deduction は Return の作成と同時に消費（削除）されます。
type Return struct {
	ID           string
	ProductID    string
	ProductName  string
	CategoryName string
	Amount       float64
	Date         time.Time
}
