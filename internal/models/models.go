// package models defines raw Spotify Web API payloads and the persisted token model
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines keyed data access for a model type.
type Repository[T Model] interface {
	Save(model T) error             // Save inserts or replaces the model
	Get(key string) (T, error)      // Get retrieves a model by its natural key
	Delete(key string) error        // Delete removes a model by its natural key
}

// Token is an OAuth token persisted per provider.
type Token struct {
	id           string
	Provider     string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	Expiry       time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewToken creates a [Token] for provider stamped with the current time.
func NewToken(provider string) *Token {
	now := time.Now().UTC()
	return &Token{Provider: provider, createdAt: now, updatedAt: now}
}

func (t *Token) ID() string           { return t.id }
func (t *Token) CreatedAt() time.Time { return t.createdAt }
func (t *Token) UpdatedAt() time.Time { return t.updatedAt }

func (t *Token) SetID(id string)               { t.id = id }
func (t *Token) SetCreatedAt(created time.Time) { t.createdAt = created }
func (t *Token) SetUpdatedAt(updated time.Time) { t.updatedAt = updated }

// Touch bumps the update timestamp.
func (t *Token) Touch() { t.updatedAt = time.Now().UTC() }

// Validate requires a provider and an access token.
func (t *Token) Validate() error {
	if t.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if t.AccessToken == "" {
		return fmt.Errorf("access token is required")
	}
	return nil
}
