package notify

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type postgresPresenceStore struct {
	db *sqlx.DB
}

// NewPostgresPresenceStore records presence changes on users.last_online
// so recency scoring keeps working after the connection drops.
func NewPostgresPresenceStore(db *sqlx.DB) PresenceStore {
	return &postgresPresenceStore{db: db}
}

func (s *postgresPresenceStore) SetOnline(ctx context.Context, userID int64, online bool) error {
	query := `UPDATE users SET is_online = $2, last_online = NOW() WHERE id = $1`
	_, err := s.db.ExecContext(ctx, query, userID, online)
	return err
}
