package api

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// updateRemoteReactions reconciles a fresh remote snapshot for a post. The
// remote feed is authoritative for the primary identity: its local
// reaction records are flipped to match the snapshot's user_reacted flags,
// and the cached remote reaction map is replaced wholesale with the
// validated snapshot, user_reacted stripped and zero counts pruned.
//
// Snapshot entries with an invalid slug, a negative count or no usernames
// are dropped before reconciliation. Validation never shields an existing
// record: a slug remote stops reporting, or reports invalidly, loses its
// primary-identity record.
func (a *API) updateRemoteReactions(ctx context.Context, postID, primaryUserID int64, snapshot map[string]RemoteReaction) (map[string]RemoteReaction, error) {
	existing, err := a.DB.ListReactions(ctx, postID, primaryUserID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	current := make(map[string]bool, len(existing))
	for _, slug := range existing {
		current[strings.ToLower(slug)] = true
	}

	out := make(map[string]RemoteReaction, len(snapshot))
	seen := make(map[string]bool, len(snapshot))
	for slug, rr := range snapshot {
		slug = strings.ToLower(slug)
		if !validSlug(slug) || rr.Count < 0 || rr.Usernames == "" {
			continue
		}
		seen[slug] = true

		switch {
		case rr.UserReacted && !current[slug]:
			// Reacted on the remote site, not yet recorded here.
			if err := a.DB.AddReaction(ctx, postID, primaryUserID, slug); err != nil {
				return nil, fmt.Errorf("add reaction: %w", err)
			}
		case !rr.UserReacted && current[slug]:
			// Our reaction was removed on the remote site.
			if err := a.DB.RemoveReaction(ctx, postID, primaryUserID, slug); err != nil {
				return nil, fmt.Errorf("remove reaction: %w", err)
			}
		}

		if rr.Count == 0 {
			continue
		}
		out[slug] = RemoteReaction{
			Count:     rr.Count,
			Usernames: rr.Usernames,
		}
	}

	// Anything remote stopped reporting is gone.
	for slug := range current {
		if seen[slug] {
			continue
		}
		if err := a.DB.RemoveReaction(ctx, postID, primaryUserID, slug); err != nil {
			return nil, fmt.Errorf("remove reaction: %w", err)
		}
	}

	if err := a.Cache.SaveRemoteReactions(ctx, postID, out); err != nil {
		return nil, fmt.Errorf("save remote reactions: %w", err)
	}
	return out, nil
}

// updateFriendReactions makes the friend's stored reactions for a post
// exactly match the reported slugs: missing ones are added, stale ones
// removed, unchanged ones left untouched. Invalid slugs and duplicates in
// the input are ignored. Returns the validated set that was applied,
// sorted. The remote reaction cache is not involved.
func (a *API) updateFriendReactions(ctx context.Context, postID, friendUserID int64, slugs []string) ([]string, error) {
	existing, err := a.DB.ListReactions(ctx, postID, friendUserID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	stale := make(map[string]bool, len(existing))
	for _, slug := range existing {
		stale[strings.ToLower(slug)] = true
	}

	applied := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		slug = strings.ToLower(slug)
		if !validSlug(slug) || seen[slug] {
			continue
		}
		seen[slug] = true
		applied = append(applied, slug)

		if stale[slug] {
			delete(stale, slug)
			continue
		}
		if err := a.DB.AddReaction(ctx, postID, friendUserID, slug); err != nil {
			return nil, fmt.Errorf("add reaction: %w", err)
		}
	}

	for slug := range stale {
		if err := a.DB.RemoveReaction(ctx, postID, friendUserID, slug); err != nil {
			return nil, fmt.Errorf("remove reaction: %w", err)
		}
	}

	sort.Strings(applied)
	return applied, nil
}
