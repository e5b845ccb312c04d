package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apermo/friends/api"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Postgres provides the reaction store in PostgreSQL.
type Postgres struct {
	bun *bun.DB
}

// Connect connects to the database and pings the DB to ensure the
// connection is working.
func Connect(ctx context.Context, connStr string) (*Postgres, error) {
	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())
	return &Postgres{
		bun: db,
	}, nil
}

// ListReactions returns the reaction slugs a user attached to a post.
func (pg *Postgres) ListReactions(ctx context.Context, postID, userID int64) ([]string, error) {
	var rows []reaction
	err := pg.bun.NewSelect().
		Model(&rows).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("slug").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Slug
	}
	return out, nil
}

// AddReaction attaches a reaction slug to a post for a user. Adding an
// already present reaction is a no-op; the composite primary key makes the
// insert atomic, so there is no read-modify-write window.
func (pg *Postgres) AddReaction(ctx context.Context, postID, userID int64, slug string) error {
	r := &reaction{
		PostID: postID,
		UserID: userID,
		Slug:   slug,
	}
	_, err := pg.bun.NewInsert().
		Model(r).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// RemoveReaction detaches a reaction slug from a post for a user. Removing
// an absent reaction is a no-op.
func (pg *Postgres) RemoveReaction(ctx context.Context, postID, userID int64, slug string) error {
	_, err := pg.bun.NewDelete().
		Model((*reaction)(nil)).
		Where("post_id = ? AND user_id = ? AND slug = ?", postID, userID, slug).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// ListReactingUsers returns every user with at least one reaction on the
// post, including display names.
func (pg *Postgres) ListReactingUsers(ctx context.Context, postID int64) ([]api.User, error) {
	var users []user
	err := pg.bun.NewSelect().
		Model(&users).
		Where("id IN (SELECT DISTINCT user_id FROM reactions WHERE post_id = ?)", postID).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	out := make([]api.User, len(users))
	for i, u := range users {
		out[i] = u.APIUser()
	}
	return out, nil
}

// GetUser looks up a single user by id.
func (pg *Postgres) GetUser(ctx context.Context, userID int64) (api.User, error) {
	u := &user{}
	err := pg.bun.NewSelect().
		Model(u).
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		return api.User{}, fmt.Errorf("scan: %w", err)
	}
	return u.APIUser(), nil
}
