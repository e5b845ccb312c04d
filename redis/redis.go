package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apermo/friends/api"
	"github.com/redis/go-redis/v9"
)

// Redis provides the remote reaction cache in Redis.
type Redis struct {
	cli *redis.Client
}

// Connect connects to the Redis server and pings the server to ensure the
// connection is working.
func Connect(ctx context.Context, addr string) (*Redis, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{
		cli: cli,
	}, nil
}

const remoteReactionPrefix = "remote-reactions"

func remoteReactionKey(postID int64) string {
	return fmt.Sprintf("%s:%d", remoteReactionPrefix, postID)
}

// ListRemoteReactions returns the cached remote reaction map for a post,
// keyed by slug. A post without cached reactions yields an empty map.
// Fields that fail to decode are skipped.
func (r *Redis) ListRemoteReactions(ctx context.Context, postID int64) (map[string]api.RemoteReaction, error) {
	vals, err := r.cli.HGetAll(ctx, remoteReactionKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall: %w", err)
	}

	out := make(map[string]api.RemoteReaction, len(vals))
	for slug, raw := range vals {
		var rr remoteReaction
		if err := json.Unmarshal([]byte(raw), &rr); err != nil {
			continue
		}
		out[slug] = rr.APIRemoteReaction()
	}
	return out, nil
}

// SaveRemoteReactions replaces the cached remote reaction map for a post
// wholesale. The transient UserReacted flag never reaches Redis: the
// stored row type has no such field.
func (r *Redis) SaveRemoteReactions(ctx context.Context, postID int64, reactions map[string]api.RemoteReaction) error {
	key := remoteReactionKey(postID)

	fields := make(map[string]string, len(reactions))
	for slug, rr := range reactions {
		b, err := json.Marshal(remoteReaction{
			Count:     rr.Count,
			Usernames: rr.Usernames,
		})
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		fields[slug] = string(b)
	}

	err := r.cli.Watch(ctx, func(tx *redis.Tx) error {
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			if len(fields) > 0 {
				pipe.HSet(ctx, key, fields)
			}
			return nil
		})
		return err
	}, key)
	if err != nil {
		return fmt.Errorf("redis save remote reactions: %w", err)
	}
	return nil
}
