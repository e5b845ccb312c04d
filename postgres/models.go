package postgres

import (
	"github.com/apermo/friends/api"
)

// A reaction represents one user's reaction to a post in the database.
// The composite key gives set semantics: a user either attached a slug to
// a post or did not.
type reaction struct {
	PostID int64  `bun:",pk,notnull"`
	UserID int64  `bun:",pk,notnull"`
	Slug   string `bun:",pk,notnull"`
}

// A user represents a local account in the database.
type user struct {
	ID          int64  `bun:",pk,autoincrement"`
	DisplayName string `bun:",notnull"`
}

func (u user) APIUser() api.User {
	return api.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
	}
}
