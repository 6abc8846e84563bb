// internal/domain/category/entity.go
package category

import (
	"errors"
	"strings"
)

// Uncategorized は常に存在するフォールバックカテゴリ名。
// カテゴリ削除時の付け替え先であり、無ければ自動作成されます。
const Uncategorized = "Uncategorized"

var (
	ErrNotFound      = errors.New("category not found")
	ErrInvalidName   = errors.New("category name is required")
	ErrDuplicateName = errors.New("category already exists")
	ErrReserved      = errors.New("the Uncategorized category cannot be renamed or deleted")
)

// Category は categories コレクションの 1 ドキュメントを表します。
// 商品との関連は id ではなく name で張られている点に注意
// （rename/delete は参照している全 product への fan-out 更新を伴う）。
type Category struct {
	ID   string
	Name string
}

// NormalizeName trims the name and validates it is non-empty.
func NormalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", ErrInvalidName
	}
	return n, nil
}
