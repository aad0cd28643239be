package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/spotify-mcp/internal/models"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// TokenRepository implements [models.Repository] for [models.Token] persistence, keyed by provider.
type TokenRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Token] = (*TokenRepository)(nil)

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save inserts the token or replaces the one stored for the same provider.
func (r *TokenRepository) Save(token *models.Token) error {
	return r.save(context.Background(), token)
}

// Get retrieves the token stored for provider.
func (r *TokenRepository) Get(provider string) (*models.Token, error) {
	return r.get(context.Background(), provider)
}

// Delete removes the token stored for provider.
func (r *TokenRepository) Delete(provider string) error {
	return r.delete(context.Background(), provider)
}

func (r *TokenRepository) save(ctx context.Context, token *models.Token) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if token.ID() == "" {
		token.SetID(shared.GenerateID())
	}
	token.Touch()

	query := `
		INSERT INTO tokens (id, provider, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			scope = excluded.scope,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
		RETURNING id
	`

	var expiry sql.NullTime
	if !token.Expiry.IsZero() {
		expiry = sql.NullTime{Time: token.Expiry.UTC(), Valid: true}
	}

	var id string
	err := r.db.QueryRowContext(ctx, query,
		token.ID(), token.Provider, token.AccessToken, token.RefreshToken, token.TokenType, token.Scope,
		expiry, token.CreatedAt(), token.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	token.SetID(id)
	return nil
}

func (r *TokenRepository) get(ctx context.Context, provider string) (*models.Token, error) {
	query := `
		SELECT id, provider, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at
		FROM tokens
		WHERE provider = ?
	`

	var (
		token     models.Token
		id        string
		expiry    sql.NullTime
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, provider).Scan(
		&id, &token.Provider, &token.AccessToken, &token.RefreshToken, &token.TokenType, &token.Scope,
		&expiry, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTokenNotFound, provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	token.SetID(id)
	token.SetCreatedAt(createdAt)
	token.SetUpdatedAt(updatedAt)
	if expiry.Valid {
		token.Expiry = expiry.Time
	}
	return &token, nil
}

func (r *TokenRepository) delete(ctx context.Context, provider string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tokens WHERE provider = ?", provider)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTokenNotFound, provider)
	}
	return nil
}

// TokenStore adapts a [TokenRepository] to the OAuth client's token persistence for one provider.
type TokenStore struct {
	repo     *TokenRepository
	provider string
}

// NewTokenStore creates a [TokenStore] that reads and writes provider's row.
func NewTokenStore(repo *TokenRepository, provider string) *TokenStore {
	return &TokenStore{repo: repo, provider: provider}
}

// Load returns the stored token or an error wrapping [shared.ErrTokenNotFound].
func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, error) {
	t, err := s.repo.get(ctx, s.provider)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}, nil
}

// Save persists tok, replacing any previous token for the provider.
func (s *TokenStore) Save(ctx context.Context, tok *oauth2.Token) error {
	t := models.NewToken(s.provider)
	t.AccessToken = tok.AccessToken
	t.RefreshToken = tok.RefreshToken
	t.TokenType = tok.TokenType
	if t.TokenType == "" {
		t.TokenType = "Bearer"
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		t.Scope = scope
	}
	t.Expiry = tok.Expiry
	return s.repo.save(ctx, t)
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.repo.delete(ctx, s.provider); err != nil && !errors.Is(err, shared.ErrTokenNotFound) {
		return err
	}
	return nil
}
