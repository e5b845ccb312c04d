package redis

import (
	"github.com/apermo/friends/api"
)

// A remoteReaction is the durable form of a remote reaction entry, stored
// as the JSON value of one hash field. It deliberately has no user_reacted
// field: that flag is reconciliation input and is re-derived from the
// primary identity's store membership on read.
type remoteReaction struct {
	Count     int    `json:"count"`
	Usernames string `json:"usernames"`
}

func (r remoteReaction) APIRemoteReaction() api.RemoteReaction {
	return api.RemoteReaction{
		Count:     r.Count,
		Usernames: r.Usernames,
	}
}
