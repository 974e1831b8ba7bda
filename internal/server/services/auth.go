// Package services contains server-side business logic. This file implements
// AuthService: account registration, login, refresh-token rotation, logout,
// and access-token verification for the authorization gate.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/healthlog/internal/common"
	"github.com/dmitrijs2005/healthlog/internal/server/models"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/healthlog/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/healthlog/internal/server/tokens"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is what register and login hand back to the transport layer.
type AuthResult struct {
	Account *models.Account `json:"account"`
	Tokens  *TokenPair      `json:"tokens"`
}

// AuthService orchestrates the account directory, the refresh-token registry,
// and the token codec. Stores are injected so tests can run against isolated
// in-memory instances.
type AuthService struct {
	accounts      accounts.Repository
	refreshTokens refreshtokens.Registry
	codec         *tokens.Codec
}

func NewAuthService(a accounts.Repository, r refreshtokens.Registry, c *tokens.Codec) *AuthService {
	return &AuthService{accounts: a, refreshTokens: r, codec: c}
}

// Register creates an account with the given email, hashes the password, and
// issues the first token pair. Returns common.ErrEmailExists when the email
// is taken in any casing.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hash error: %w", err)
	}

	account := &models.Account{
		ID:        common.NewID("acc"),
		Email:     email,
		Name:      name,
		Settings:  models.DefaultAccountSettings(),
		CreatedAt: time.Now().UTC(),
	}
	cred := &models.Credential{AccountID: account.ID, PasswordHash: hash}

	account, err = s.accounts.Create(ctx, account, cred)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Tokens: pair}, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// email and wrong password both come back as common.ErrInvalidCredentials so
// callers cannot probe which one failed. Existing sessions stay live.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.accounts.CredentialByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: account, Tokens: pair}, nil
}

// Refresh exchanges a live refresh token for a new pair, rotating the
// registry row atomically. A token that does not verify as kind=refresh, is
// absent from the registry, or belongs to a vanished account yields
// common.ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accountID, kind, err := s.codec.Verify(refreshToken)
	if err != nil || kind != tokens.KindRefresh {
		return nil, common.ErrInvalidToken
	}

	if _, err := s.refreshTokens.OwnerOf(ctx, refreshToken); err != nil {
		return nil, common.ErrInvalidToken
	}

	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, common.ErrInvalidToken
	}

	access, refresh, err := s.codec.IssuePair(accountID)
	if err != nil {
		return nil, fmt.Errorf("token issue error: %w", err)
	}

	// Rotate decides the race: if a concurrent refresh consumed the token
	// first, this caller loses and the pair above is discarded.
	if err := s.refreshTokens.Rotate(ctx, refreshToken, refresh, accountID); err != nil {
		return nil, common.ErrInvalidToken
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the refresh token. It never fails: revoking an invalid or
// already-revoked token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	_ = s.refreshTokens.Revoke(ctx, refreshToken)
}

// GetAccountByID resolves "who is calling" for the authorization gate.
func (s *AuthService) GetAccountByID(ctx context.Context, accountID string) (*models.Account, error) {
	return s.accounts.FindByID(ctx, accountID)
}

// VerifyAccess checks a bearer token and returns the calling account id.
// Refresh tokens are rejected here; they are not a request credential.
func (s *AuthService) VerifyAccess(token string) (string, error) {
	accountID, kind, err := s.codec.Verify(token)
	if err != nil || kind != tokens.KindAccess {
		return "", common.ErrInvalidToken
	}
	return accountID, nil
}

func (s *AuthService) issueSession(ctx context.Context, accountID string) (*TokenPair, error) {
	access, refresh, err := s.codec.IssuePair(accountID)
	if err != nil {
		return nil, fmt.Errorf("token issue error: %w", err)
	}

	if err := s.refreshTokens.Register(ctx, refresh, accountID); err != nil {
		return nil, fmt.Errorf("refresh token register error: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
