package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/pbx/internal/auth"
	"github.com/desertthunder/pbx/internal/models"
	"github.com/desertthunder/pbx/internal/shared"
)

// SessionRepository persists [models.Session] rows.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save upserts the session for a user, keyed by user id.
func (r *SessionRepository) Save(session *models.Session) error {
	if session.UserID == "" {
		return fmt.Errorf("%w: session user id", shared.ErrMissingArgument)
	}

	now := time.Now()
	if session.ID == "" {
		session.ID = shared.GenerateID()
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	query := `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, session.ID, session.UserID, session.AccessToken,
		session.RefreshToken, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by user id.
func (r *SessionRepository) Get(userID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, created_at, updated_at
		FROM sessions
		WHERE user_id = ?
	`
	return r.scanOne(r.db.QueryRow(query, userID))
}

// Latest retrieves the most recently updated session.
func (r *SessionRepository) Latest() (*models.Session, error) {
	query := `
		SELECT id, user_id, access_token, refresh_token, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(query))
}

func (r *SessionRepository) scanOne(row *sql.Row) (*models.Session, error) {
	var session models.Session

	err := row.Scan(&session.ID, &session.UserID, &session.AccessToken,
		&session.RefreshToken, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &session, nil
}

// Delete removes the session for a user.
func (r *SessionRepository) Delete(userID string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return shared.ErrSessionNotFound
	}

	return nil
}

// Credential converts a session into the in-memory credential shape.
func Credential(session *models.Session) auth.Credential {
	return auth.Credential{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.UserID,
	}
}

// SaveCredential persists the current credential as a session row.
func (r *SessionRepository) SaveCredential(cred auth.Credential) error {
	return r.Save(&models.Session{
		UserID:       cred.UserID,
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	})
}
