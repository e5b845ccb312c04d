package api

import (
	"context"
	"sort"
	"strings"
)

// aggregateReactions merges the three reaction sources for a post into the
// display-ready list: the viewer's own reactions, reactions by other local
// users, and the cached remote reactions. A remote entry matching a
// locally present slug is folded into that slug's tally and consumed; the
// rest pass through untouched with UserReacted false. The result is sorted
// by slug ascending.
//
// The read path never fails: a collaborator error degrades to an empty
// contribution from that source, worst case zero reactions.
func (a *API) aggregateReactions(ctx context.Context, postID int64, viewer User) []Reaction {
	users, err := a.DB.ListReactingUsers(ctx, postID)
	if err != nil {
		a.Logger.Error("Could not list reacting users", "post_id", postID, "error", err.Error())
		users = nil
	}

	slugs := make(map[string]struct{})
	viewerSlugs := make(map[string]bool)
	othersBySlug := make(map[string][]string)

	for _, u := range users {
		userSlugs, err := a.DB.ListReactions(ctx, postID, u.ID)
		if err != nil {
			a.Logger.Error("Could not list reactions", "post_id", postID, "user_id", u.ID, "error", err.Error())
			continue
		}
		for _, slug := range userSlugs {
			slug = strings.ToLower(slug)
			if !validSlug(slug) {
				continue
			}
			slugs[slug] = struct{}{}
			if u.ID == viewer.ID {
				viewerSlugs[slug] = true
				continue
			}
			othersBySlug[slug] = append(othersBySlug[slug], u.DisplayName)
		}
	}

	remote, err := a.Cache.ListRemoteReactions(ctx, postID)
	if err != nil {
		a.Logger.Error("Could not load remote reactions", "post_id", postID, "error", err.Error())
		remote = nil
	}

	out := make([]Reaction, 0, len(slugs)+len(remote))
	for slug := range slugs {
		names := append([]string(nil), othersBySlug[slug]...)
		count := len(names)

		rr, hasRemote := remote[slug]
		if hasRemote {
			delete(remote, slug)
		}

		// The primary identity's local membership mirrors the remote
		// snapshot, so when the remote tally is folded in for that viewer
		// the local record must not be counted a second time.
		if viewerSlugs[slug] && !(hasRemote && viewer.ID == a.PrimaryUserID) {
			count++
			names = append(names, viewer.DisplayName)
		}
		if hasRemote {
			count += rr.Count
			names = append(names, rr.Usernames)
		}
		names = dropEmpty(names)
		if len(names) == 0 {
			// A slug with no attributable reactors is not shown, even if a
			// stale count survived.
			continue
		}
		out = append(out, Reaction{
			Slug:        slug,
			Emoji:       a.glyph(slug),
			Count:       count,
			Usernames:   strings.Join(names, ", "),
			UserReacted: viewerSlugs[slug],
		})
	}

	// Whatever remains in the remote map belongs to reactors the viewer is
	// not one of: had the primary identity reacted, reconciliation would
	// have recorded it locally and the slug would have been consumed above.
	for slug, rr := range remote {
		if rr.Usernames == "" {
			continue
		}
		out = append(out, Reaction{
			Slug:      slug,
			Emoji:     a.glyph(slug),
			Count:     rr.Count,
			Usernames: rr.Usernames,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// glyph resolves a slug's display character, empty when unresolvable.
func (a *API) glyph(slug string) string {
	char, ok := a.Emoji.Glyph(slug)
	if !ok {
		return ""
	}
	return char
}

func dropEmpty(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
