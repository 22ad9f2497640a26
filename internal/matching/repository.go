package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the persistence surface the engine depends on. Edge writes
// report whether they changed anything so callers can keep event
// emission exactly-once.
type Store interface {
	// Users
	UserExists(ctx context.Context, userID int64) (bool, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	HasMainPhoto(ctx context.Context, userID int64) (bool, error)

	// Like edges (directed)
	HasLike(ctx context.Context, likerID, likedID int64) (bool, error)
	AddLike(ctx context.Context, likerID, likedID int64) (created bool, err error)
	RemoveLike(ctx context.Context, likerID, likedID int64) (removed bool, err error)
	CountLikesReceived(ctx context.Context, userID int64) (int64, error)

	// Block edges (directed, checked both ways)
	IsBlockedEitherWay(ctx context.Context, userA, userB int64) (bool, error)
	AddBlock(ctx context.Context, blockerID, blockedID int64) (created bool, err error)
	RemoveBlock(ctx context.Context, blockerID, blockedID int64) (removed bool, err error)
	BlockedIDs(ctx context.Context, userID int64) (map[int64]bool, error)

	// Browse
	FindCandidates(ctx context.Context, viewerID int64, limit int) ([]*User, error)
}

type postgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
	if err := s.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	query := `
		SELECT u.id, u.username, u.gender, u.sexual_preference, u.birth_date,
		       u.latitude, u.longitude, u.fame_rating, u.last_online,
		       COALESCE(array_agg(t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags
		FROM users u
		LEFT JOIN user_tags ut ON ut.user_id = u.id
		LEFT JOIN tags t ON t.id = ut.tag_id
		WHERE u.id = $1
		GROUP BY u.id
	`
	var gender, pref string
	var tags pq.StringArray
	err := s.db.QueryRowxContext(ctx, query, userID).Scan(
		&u.ID, &u.Username, &gender, &pref, &u.BirthDate,
		&u.Latitude, &u.Longitude, &u.FameRating, &u.LastOnline, &tags,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	u.Gender = NormalizeGender(gender)
	u.SexualPreference = NormalizePreference(pref)
	u.Tags = []string(tags)
	return &u, nil
}

func (s *postgresStore) HasMainPhoto(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM photos WHERE user_id = $1 AND position = 0)`
	if err := s.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) HasLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)`
	if err := s.db.GetContext(ctx, &exists, query, likerID, likedID); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) AddLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	query := `
		INSERT INTO likes (liker_id, liked_id)
		VALUES ($1, $2)
		ON CONFLICT (liker_id, liked_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, likerID, likedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *postgresStore) RemoveLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	query := `DELETE FROM likes WHERE liker_id = $1 AND liked_id = $2`
	res, err := s.db.ExecContext(ctx, query, likerID, likedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *postgresStore) CountLikesReceived(ctx context.Context, userID int64) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM likes WHERE liked_id = $1`
	if err := s.db.GetContext(ctx, &n, query, userID); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *postgresStore) IsBlockedEitherWay(ctx context.Context, userA, userB int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	if err := s.db.GetContext(ctx, &exists, query, userA, userB); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *postgresStore) AddBlock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, blockerID, blockedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *postgresStore) RemoveBlock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	res, err := s.db.ExecContext(ctx, query, blockerID, blockedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BlockedIDs returns every user blocking or blocked by userID as a set,
// so browse filtering costs one round trip instead of one per candidate.
func (s *postgresStore) BlockedIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	query := `
		SELECT blocked_id FROM blocks WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM blocks WHERE blocked_id = $1
	`
	rows, err := s.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// FindCandidates loads browse candidates with tags aggregated per user.
// Blocks, compatibility and client filters are applied in memory by the
// ranker; the query only excludes the viewer themselves.
func (s *postgresStore) FindCandidates(ctx context.Context, viewerID int64, limit int) ([]*User, error) {
	if limit <= 0 {
		limit = 200
	}
	query := `
		SELECT u.id, u.username, u.gender, u.sexual_preference, u.birth_date,
		       u.latitude, u.longitude, u.fame_rating, u.last_online,
		       COALESCE(array_agg(t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS tags
		FROM users u
		LEFT JOIN user_tags ut ON ut.user_id = u.id
		LEFT JOIN tags t ON t.id = ut.tag_id
		WHERE u.id != $1
		GROUP BY u.id
		ORDER BY u.last_online DESC
		LIMIT $2
	`
	rows, err := s.db.QueryxContext(ctx, query, viewerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		var gender, pref string
		var tags pq.StringArray
		if err := rows.Scan(
			&u.ID, &u.Username, &gender, &pref, &u.BirthDate,
			&u.Latitude, &u.Longitude, &u.FameRating, &u.LastOnline, &tags,
		); err != nil {
			return nil, err
		}
		u.Gender = NormalizeGender(gender)
		u.SexualPreference = NormalizePreference(pref)
		u.Tags = []string(tags)
		users = append(users, &u)
	}
	return users, rows.Err()
}
