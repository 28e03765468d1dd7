package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/agencydesk/internal/domain/session"
)

// ErrInvalidAPIKey indicates the presented key is unknown.
var ErrInvalidAPIKey = errors.New("invalid api key")

// APIKeyStore resolves bearer tokens to principals. Only the SHA-256 of a
// key is stored.
type APIKeyStore struct {
	db *DB
}

// NewAPIKeyStore creates a new APIKeyStore
func NewAPIKeyStore(db *DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

// Create registers token for a user of a tenant
func (s *APIKeyStore) Create(ctx context.Context, token string, p session.Principal, description string) error {
	if token == "" || p.TenantID == "" || p.UserID == "" || !p.Role.Valid() {
		return fmt.Errorf("invalid api key: token, tenant, user and a known role are required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (key_hash, tenant_id, user_id, role, created_at, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, HashToken(token), p.TenantID, p.UserID, p.Role, time.Now().UTC(), description)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// ResolvePrincipal returns the principal a token belongs to and records
// its use
func (s *APIKeyStore) ResolvePrincipal(ctx context.Context, token string) (session.Principal, error) {
	hash := HashToken(token)
	var p session.Principal
	err := s.db.QueryRowContext(ctx,
		`SELECT tenant_id, user_id, role FROM api_keys WHERE key_hash = ?`, hash,
	).Scan(&p.TenantID, &p.UserID, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Principal{}, ErrInvalidAPIKey
	}
	if err != nil {
		return session.Principal{}, fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return session.Principal{}, fmt.Errorf("failed to record api key use: %w", err)
	}
	return p, nil
}

// HashToken returns the stored form of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
