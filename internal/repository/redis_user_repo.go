package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/hitoshi/storefront/internal/model"
)

// redisUsersKey はユーザー名をフィールドとしてアカウントを格納するハッシュのキー。
const redisUsersKey = "storefront:users"

// RedisUserRepo はRedisのハッシュにアカウントを保持するユーザーリポジトリ。
type RedisUserRepo struct {
	client *redis.Client
	key    string
}

// NewRedisUserRepo はRedisUserRepoを生成する。
func NewRedisUserRepo(client *redis.Client) *RedisUserRepo {
	return &RedisUserRepo{client: client, key: redisUsersKey}
}

// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
func (r *RedisUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	raw, err := r.client.HGet(ctx, r.key, username).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}

// InsertIfAbsent はHSETNXでユーザー名が未登録の場合のみユーザーを作成する。
func (r *RedisUserRepo) InsertIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("failed to encode user: %w", err)
	}

	created, err := r.client.HSetNX(ctx, r.key, user.Username, raw).Result()
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}
	return created, nil
}

// compile-time interface check
var _ UserRepository = (*RedisUserRepo)(nil)
