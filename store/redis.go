package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rushteam/cfrec/core"
	"github.com/rushteam/cfrec/pkg/log"
)

// RedisRatingStore 把 RatingStore / ItemCatalog 以快照形式保存到 Redis，
// 便于多次实验复用同一次切分结果。它只保存输入数据，不保存任何计算结果。
//
// Key 布局：
//
//	{KeyPrefix}:users          LIST  用户 ID（写入顺序）
//	{KeyPrefix}:user:{userID}  LIST  JSON {"item":..,"attrs":[..]}（写入顺序）
//	{KeyPrefix}:catalog        HASH  itemID -> JSON attrs
type RedisRatingStore struct {
	client    redis.UniversalClient
	KeyPrefix string
}

// NewRedisRatingStore 连接 Redis 并检查连通性。
func NewRedisRatingStore(addr string, db int, keyPrefix string) (*RedisRatingStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Annotatef(err, "ping redis %s", addr)
	}
	return NewRedisRatingStoreWithClient(client, keyPrefix), nil
}

// NewRedisRatingStoreWithClient 使用已有的客户端。
func NewRedisRatingStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisRatingStore {
	if keyPrefix == "" {
		keyPrefix = "cfrec"
	}
	return &RedisRatingStore{client: client, KeyPrefix: keyPrefix}
}

func (r *RedisRatingStore) Name() string { return "redis" }

func (r *RedisRatingStore) usersKey() string {
	return r.KeyPrefix + ":users"
}

func (r *RedisRatingStore) userKey(user core.UserID) string {
	return r.KeyPrefix + ":user:" + strconv.FormatInt(user, 10)
}

func (r *RedisRatingStore) catalogKey() string {
	return r.KeyPrefix + ":catalog"
}

type ratingEntry struct {
	Item  core.ItemID          `json:"item"`
	Attrs core.AttributeVector `json:"attrs"`
}

// Save 覆盖写入一个评分存储快照（以及可选的物品目录）。
func (r *RedisRatingStore) Save(ctx context.Context, s *RatingStore, catalog *ItemCatalog) error {
	if err := r.clear(ctx); err != nil {
		return errors.Trace(err)
	}
	pipe := r.client.TxPipeline()
	for _, user := range s.Users() {
		pipe.RPush(ctx, r.usersKey(), strconv.FormatInt(user, 10))
		var entries []any
		var encodeErr error
		s.User(user).ForEach(func(item core.ItemID, v core.AttributeVector) {
			if encodeErr != nil {
				return
			}
			data, err := json.Marshal(ratingEntry{Item: item, Attrs: v})
			if err != nil {
				encodeErr = err
				return
			}
			entries = append(entries, data)
		})
		if encodeErr != nil {
			return errors.Annotatef(encodeErr, "encode ratings of user %d", user)
		}
		if len(entries) > 0 {
			pipe.RPush(ctx, r.userKey(user), entries...)
		}
	}
	for _, item := range catalog.Items() {
		attrs, _ := catalog.Get(item)
		data, err := json.Marshal(attrs)
		if err != nil {
			return errors.Annotatef(err, "encode catalog item %d", item)
		}
		pipe.HSet(ctx, r.catalogKey(), strconv.FormatInt(item, 10), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Annotate(err, "save rating snapshot")
	}
	log.Logger().Info("saved rating snapshot",
		zap.String("prefix", r.KeyPrefix),
		zap.Int("users", s.Len()),
		zap.Int("ratings", s.NumRatings()),
		zap.Int("catalog", catalog.Len()))
	return nil
}

// clear 删除上一次快照的所有 key。
func (r *RedisRatingStore) clear(ctx context.Context) error {
	users, err := r.client.LRange(ctx, r.usersKey(), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys := []string{r.usersKey(), r.catalogKey()}
	for _, u := range users {
		keys = append(keys, r.KeyPrefix+":user:"+u)
	}
	return r.client.Del(ctx, keys...).Err()
}

// Load 读取快照。快照不存在时返回 core.ErrStoreNotFound。
func (r *RedisRatingStore) Load(ctx context.Context) (*RatingStore, *ItemCatalog, error) {
	n, err := r.client.Exists(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if n == 0 {
		return nil, nil, core.ErrStoreNotFound
	}

	users, err := r.client.LRange(ctx, r.usersKey(), 0, -1).Result()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	s := NewRatingStore()
	for _, raw := range users {
		user, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, nil, errors.Annotatef(err, "parse user id %q", raw)
		}
		ratings := s.EnsureUser(user)
		entries, err := r.client.LRange(ctx, r.userKey(user), 0, -1).Result()
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		for _, e := range entries {
			var entry ratingEntry
			if err := json.Unmarshal([]byte(e), &entry); err != nil {
				return nil, nil, errors.Annotatef(err, "decode ratings of user %d", user)
			}
			ratings.Set(entry.Item, entry.Attrs)
		}
	}

	catalog := NewItemCatalog()
	fields, err := r.client.HGetAll(ctx, r.catalogKey()).Result()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	for k, v := range fields {
		item, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, nil, errors.Annotatef(err, "parse item id %q", k)
		}
		var attrs []float64
		if err := json.Unmarshal([]byte(v), &attrs); err != nil {
			return nil, nil, errors.Annotatef(err, "decode catalog item %d", item)
		}
		catalog.Set(item, attrs)
	}
	log.Logger().Info("loaded rating snapshot",
		zap.String("prefix", r.KeyPrefix),
		zap.Int("users", s.Len()),
		zap.Int("ratings", s.NumRatings()))
	return s, catalog, nil
}

func (r *RedisRatingStore) Close() error {
	return r.client.Close()
}
