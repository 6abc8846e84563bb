// internal/adapters/out/firestore/account_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	accountdom "stockroom/internal/domain/account"
)

// Firestore-based implementation of the Account repository.
// docId = firebase uid.
type AccountRepositoryFS struct {
	Client *firestore.Client
}

func NewAccountRepositoryFS(client *firestore.Client) *AccountRepositoryFS {
	return &AccountRepositoryFS{Client: client}
}

func (r *AccountRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("accounts")
}

func (r *AccountRepositoryFS) GetByUID(ctx context.Context, uid string) (accountdom.Account, error) {
	if r == nil || r.Client == nil {
		return accountdom.Account{}, errors.New("firestore client is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return accountdom.Account{}, accountdom.ErrNotFound
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return accountdom.Account{}, accountdom.ErrNotFound
		}
		return accountdom.Account{}, err
	}

	var raw struct {
		Email       string    `firestore:"email"`
		DisplayName string    `firestore:"displayName"`
		CreatedAt   time.Time `firestore:"createdAt"`
	}
	if err := snap.DataTo(&raw); err != nil {
		return accountdom.Account{}, err
	}

	return accountdom.Account{
		UID:         snap.Ref.ID,
		Email:       strings.TrimSpace(raw.Email),
		DisplayName: strings.TrimSpace(raw.DisplayName),
		CreatedAt:   raw.CreatedAt,
	}, nil
}

func (r *AccountRepositoryFS) Save(ctx context.Context, a accountdom.Account) (accountdom.Account, error) {
	if r == nil || r.Client == nil {
		return accountdom.Account{}, errors.New("firestore client is nil")
	}

	uid := strings.TrimSpace(a.UID)
	if uid == "" {
		return accountdom.Account{}, accountdom.ErrInvalidUID
	}

	_, err := r.col().Doc(uid).Set(ctx, map[string]any{
		"email":       a.Email,
		"displayName": a.DisplayName,
		"createdAt":   firestore.ServerTimestamp,
	})
	if err != nil {
		return accountdom.Account{}, err
	}

	a.UID = uid
	return a, nil
}
