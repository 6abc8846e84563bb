// internal/domain/account/entity.go
package account

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrInvalidUID   = errors.New("invalid firebase uid")
	ErrInvalidEmail = errors.New("invalid email")
)

// Account は Firebase Auth のユーザーに対応するアプリ側ドキュメントです。
// 認証自体（email/password, トークン検証）は Firebase Auth に委譲し、
// ここでは表示名などアプリ固有の属性だけを持ちます。
type Account struct {
	UID         string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

func New(uid, email, displayName string, now time.Time) (Account, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return Account{}, ErrInvalidUID
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return Account{}, ErrInvalidEmail
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Account{
		UID:         uid,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   now,
	}, nil
}
