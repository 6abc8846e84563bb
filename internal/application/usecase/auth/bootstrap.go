// internal/application/usecase/auth/bootstrap.go
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	accountdom "stockroom/internal/domain/account"
)

// SignUpProfile is the request body of the bootstrap endpoint.
type SignUpProfile struct {
	DisplayName string `json:"displayName"`
}

// BootstrapService provisions the caller's account document after the first
// Firebase email/password sign-up. The uid/email come from the verified ID
// token, never from the request body.
type BootstrapService struct {
	accounts accountdom.RepositoryPort
}

func NewBootstrapService(accounts accountdom.RepositoryPort) *BootstrapService {
	return &BootstrapService{accounts: accounts}
}

// Bootstrap is idempotent: an existing account is returned unchanged.
func (s *BootstrapService) Bootstrap(ctx context.Context, uid, email string, profile *SignUpProfile) (accountdom.Account, error) {
	if s == nil || s.accounts == nil {
		return accountdom.Account{}, errors.New("bootstrap service/repo is nil")
	}

	if existing, err := s.accounts.GetByUID(ctx, uid); err == nil {
		return existing, nil
	} else if !errors.Is(err, accountdom.ErrNotFound) {
		return accountdom.Account{}, err
	}

	displayName := ""
	if profile != nil {
		displayName = profile.DisplayName
	}

	a, err := accountdom.New(uid, email, displayName, time.Now().UTC())
	if err != nil {
		return accountdom.Account{}, err
	}

	saved, err := s.accounts.Save(ctx, a)
	if err != nil {
		return accountdom.Account{}, err
	}

	log.Printf("[auth_uc] account bootstrapped uid=%q", saved.UID)
	return saved, nil
}
