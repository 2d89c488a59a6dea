// package repositories provides the persistence layer for client-side state.
//
// The only durable state the client owns is the authenticated session, stored
// as three named entries (access_token, refresh_token, identity) that are
// always written and cleared together in a single transaction.
package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/convx/internal/models"
	"golang.org/x/oauth2"
)

const (
	entryAccessToken  = "access_token"
	entryRefreshToken = "refresh_token"
	entryIdentity     = "identity"
)

// SessionRepository persists the current [models.Session] in SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save writes all three session entries atomically, replacing any prior session.
func (r *SessionRepository) Save(sess models.Session) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	identity, err := json.Marshal(sess.Identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO session_entries (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	entries := map[string]string{
		entryAccessToken:  sess.Token.AccessToken,
		entryRefreshToken: sess.Token.RefreshToken,
		entryIdentity:     string(identity),
	}
	for name, value := range entries {
		if _, err := tx.Exec(query, name, value); err != nil {
			return fmt.Errorf("failed to write session entry %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// Load rehydrates the persisted session. The second return value is false when
// no session is stored. A session whose identity entry cannot be decoded is
// treated as absent and wiped rather than surfaced as a partial session.
func (r *SessionRepository) Load() (models.Session, bool, error) {
	rows, err := r.db.Query("SELECT name, value FROM session_entries")
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to query session entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return models.Session{}, false, fmt.Errorf("failed to scan session entry: %w", err)
		}
		entries[name] = value
	}
	if err := rows.Err(); err != nil {
		return models.Session{}, false, fmt.Errorf("row iteration error: %w", err)
	}

	access := entries[entryAccessToken]
	if access == "" {
		return models.Session{}, false, nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(entries[entryIdentity]), &identity); err != nil || identity.Email == "" {
		// Never rehydrate a token without an identity.
		if clearErr := r.Clear(); clearErr != nil {
			return models.Session{}, false, fmt.Errorf("failed to clear corrupt session: %w", clearErr)
		}
		return models.Session{}, false, nil
	}

	sess := models.Session{
		Token: oauth2.Token{
			AccessToken:  access,
			RefreshToken: entries[entryRefreshToken],
			TokenType:    "Bearer",
		},
		Identity: identity,
	}

	return sess, true, nil
}

// Clear deletes every session entry atomically.
func (r *SessionRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_entries"); err != nil {
		return fmt.Errorf("failed to clear session entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session clear: %w", err)
	}

	return nil
}
