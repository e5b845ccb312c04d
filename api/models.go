package api

import "regexp"

// A User identifies a local account that can react to posts.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

// A Reaction is the aggregated, display-ready record for one emoji on one
// post. It is assembled on read and never persisted.
type Reaction struct {
	Slug        string `json:"slug"`
	Emoji       string `json:"emoji"` // empty when the slug has no glyph in the available set
	Count       int    `json:"count"`
	Usernames   string `json:"usernames"`
	UserReacted bool   `json:"user_reacted"`
}

// A RemoteReaction is the per-slug reaction state reported by a remote
// feed for one post. UserReacted is reconciliation input only; the
// persisted form never carries it.
type RemoteReaction struct {
	Count       int    `json:"count"`
	Usernames   string `json:"usernames"`
	UserReacted bool   `json:"user_reacted,omitempty"`
}

// slugRe matches valid reaction slugs. Anything else is dropped before it
// can reach storage.
var slugRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

func validSlug(slug string) bool {
	return slugRe.MatchString(slug)
}
