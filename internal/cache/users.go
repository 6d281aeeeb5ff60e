// Package cache puts a Redis read-through layer in front of user lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"flowsync/internal/models"
	"flowsync/internal/service"
	"flowsync/pkg/logger"
	"flowsync/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Users wraps a UserStore. GetByID is served from Redis when possible;
// Update and Delete drop the cached entry and bump the user's generation
// so an in-flight fill that read the old row cannot write it back.
// Redis failures fall back to the store.
type Users struct {
	service.UserStore

	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewUsers(store service.UserStore, client *redis.Client, ttl time.Duration) *Users {
	return &Users{UserStore: store, client: client, ttl: ttl}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func genKey(id int64) string {
	return fmt.Sprintf("user:%d:gen", id)
}

// fillScript sets KEYS[1] only while KEYS[2] still holds the generation
// read before the store lookup. A missing generation counts as "0".
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func (u *Users) GetByID(ctx context.Context, id int64) (models.User, error) {
	key := userKey(id)

	data, err := u.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var user models.User
		if jsonErr := json.Unmarshal(data, &user); jsonErr == nil {
			metrics.CacheHits.Inc()
			return user, nil
		}
		logger.ErrorLogger.Warn("Corrupt user cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		logger.ErrorLogger.Error("Redis get failed", zap.String("key", key), zap.Error(err))
	}
	metrics.CacheMisses.Inc()

	v, err, _ := u.group.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		gen, genErr := u.generation(ctx, id)
		user, err := u.UserStore.GetByID(ctx, id)
		if err != nil {
			return models.User{}, err
		}
		if genErr == nil {
			u.fill(ctx, id, gen, user)
		}
		return user, nil
	})
	if err != nil {
		return models.User{}, err
	}
	return v.(models.User), nil
}

func (u *Users) Update(ctx context.Context, id int64, patch models.Patch) (models.User, error) {
	user, err := u.UserStore.Update(ctx, id, patch)
	u.invalidate(ctx, id)
	return user, err
}

func (u *Users) Delete(ctx context.Context, id int64) error {
	err := u.UserStore.Delete(ctx, id)
	u.invalidate(ctx, id)
	return err
}

func (u *Users) generation(ctx context.Context, id int64) (string, error) {
	gen, err := u.client.Get(ctx, genKey(id)).Result()
	switch {
	case err == nil:
		return gen, nil
	case errors.Is(err, redis.Nil):
		return "0", nil
	default:
		logger.ErrorLogger.Error("Redis get failed", zap.String("key", genKey(id)), zap.Error(err))
		return "", err
	}
}

func (u *Users) fill(ctx context.Context, id int64, gen string, user models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	keys := []string{userKey(id), genKey(id)}
	stored, err := fillScript.Run(ctx, u.client, keys, gen, data, u.ttl.Milliseconds()).Int()
	if err != nil {
		logger.ErrorLogger.Error("Redis set failed", zap.String("key", keys[0]), zap.Error(err))
		return
	}
	if stored == 0 {
		logger.SystemLogger.Info("Skipped stale user cache fill", zap.Int64("user_id", id))
	}
}

// invalidate bumps the generation before dropping the entry, and forgets
// the in-flight lookup so later readers go back to the store.
func (u *Users) invalidate(ctx context.Context, id int64) {
	u.group.Forget(strconv.FormatInt(id, 10))
	if err := u.client.Incr(ctx, genKey(id)).Err(); err != nil {
		logger.ErrorLogger.Error("Redis incr failed", zap.Int64("user_id", id), zap.Error(err))
	}
	if err := u.client.Del(ctx, userKey(id)).Err(); err != nil {
		logger.ErrorLogger.Error("Redis delete failed", zap.Int64("user_id", id), zap.Error(err))
	}
}
