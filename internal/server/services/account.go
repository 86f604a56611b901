// Package services contains server-side business logic. AccountService is the
// credential and session-token lifecycle engine: registration, login, logout,
// access-token refresh, password reset and account management.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is returned by Login: the account view plus a fresh token pair.
type LoginResult struct {
	Account *models.AccountView `json:"account"`
	Tokens  TokenPair           `json:"tokens"`
}

// AccountUpdate is a partial update request. A non-nil Password is plaintext
// and gets re-hashed before storage.
type AccountUpdate struct {
	Username   *string
	Email      *string
	Role       *string
	Status     *string
	IsVerified *bool
	Password   *string
}

// Pagination describes the position of a listing page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// AccountPage is one page of the account listing.
type AccountPage struct {
	Data       []*models.AccountView `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AccountService orchestrates the credential/token lifecycle. It owns no
// token state: the accounts store holds the single live refresh-token slot
// per account, and the issuer's tokens are self-contained.
type AccountService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher *auth.Hasher
	issuer *auth.Issuer
}

func NewAccountService(db *sql.DB, repos repomanager.RepositoryManager, hasher *auth.Hasher, issuer *auth.Issuer) *AccountService {
	return &AccountService{db: db, repos: repos, hasher: hasher, issuer: issuer}
}

// normalize lowercases and trims identity fields. Format validation happens
// upstream in transport.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates the credential record and its linked profile as one
// all-or-nothing unit. A username or email collision yields
// common.ErrDuplicateAccount and leaves both stores untouched.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.AccountView, error) {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Username:     normalize(username),
		Email:        normalize(email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repos.Accounts(tx).Create(ctx, account)
		if err != nil {
			return err
		}
		account = created
		return s.repos.Profiles(tx).Create(ctx, &models.Profile{AccountID: created.ID})
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, common.ErrorInternal
	}

	return account.View(), nil
}

// Login verifies credentials and mints a token pair. An unknown email and a
// wrong password produce the identical error, so callers cannot enumerate
// accounts. The new refresh token overwrites any prior slot value: one live
// session per account.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.FindByEmail(ctx, normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.CheckPassword(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.issuer.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshToken, err := s.issuer.IssueRefreshToken(account.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.SetRefreshToken(ctx, account.ID, &refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Account: account.View(),
		Tokens:  TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

// Logout clears the refresh-token slot. Logging out an account that holds no
// session is not an error.
func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	err := s.repos.Accounts(s.db).SetRefreshToken(ctx, accountID, nil)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// RefreshAccessToken exchanges a live refresh token for a new access token.
// The presented token must be cryptographically valid AND equal to the stored
// slot value; a rotated-out token fails the equality check with
// common.ErrTokenMismatch. The refresh token itself is not rotated here — it
// stays valid until its own expiry, a new login, or a logout.
func (s *AccountService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.issuer.Verify(refreshToken, auth.UseRefresh)
	if err != nil {
		return "", err
	}

	account, err := s.repos.Accounts(s.db).FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", common.ErrorInternal
	}

	if account.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*account.RefreshToken), []byte(refreshToken)) != 1 {
		return "", common.ErrTokenMismatch
	}

	accessToken, err := s.issuer.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return "", common.ErrorInternal
	}
	return accessToken, nil
}

// ResetPassword re-hashes the password and revokes the current session in one
// transaction, forcing re-authentication.
func (s *AccountService) ResetPassword(ctx context.Context, email, newPassword string) error {
	account, err := s.repos.Accounts(s.db).FindByEmail(ctx, normalize(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return common.ErrorInternal
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)
		if _, err := repo.Update(ctx, account.ID, &models.AccountPatch{PasswordHash: &hash}); err != nil {
			return err
		}
		return repo.SetRefreshToken(ctx, account.ID, nil)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Update applies a partial field update. An empty update set fails with
// common.ErrNoFieldsProvided; an unknown id with common.ErrAccountNotFound.
func (s *AccountService) Update(ctx context.Context, id string, upd *AccountUpdate) (*models.AccountView, error) {
	patch := &models.AccountPatch{
		Role:       upd.Role,
		Status:     upd.Status,
		IsVerified: upd.IsVerified,
	}
	if upd.Username != nil {
		username := normalize(*upd.Username)
		patch.Username = &username
	}
	if upd.Email != nil {
		email := normalize(*upd.Email)
		patch.Email = &email
	}
	if upd.Password != nil {
		hash, err := s.hasher.HashPassword(*upd.Password)
		if err != nil {
			return nil, common.ErrorInternal
		}
		patch.PasswordHash = &hash
	}
	if patch.IsEmpty() {
		return nil, common.ErrNoFieldsProvided
	}

	account, err := s.repos.Accounts(s.db).Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrAccountNotFound
		case errors.Is(err, common.ErrDuplicateAccount):
			return nil, common.ErrDuplicateAccount
		default:
			return nil, common.ErrorInternal
		}
	}
	return account.View(), nil
}

// Delete removes the credential record; the linked profile goes with it in
// the same atomic unit (FK cascade).
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Accounts(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// Get returns a single account view by id.
func (s *AccountService) Get(ctx context.Context, id string) (*models.AccountView, error) {
	account, err := s.repos.Accounts(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, common.ErrorInternal
	}
	return account.View(), nil
}

// List returns one page of account views, newest first.
func (s *AccountService) List(ctx context.Context, page, limit int) (*AccountPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	repo := s.repos.Accounts(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	accounts, err := repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, common.ErrorInternal
	}

	views := make([]*models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &AccountPage{
		Data: views,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
