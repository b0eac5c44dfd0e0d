package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/storefront/internal/model"
)

// MemoryUserRepo はプロセス内メモリにアカウントを保持するユーザーリポジトリ。
// 再起動でデータは失われる。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User)}
}

// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// InsertIfAbsent はユーザー名が未登録の場合のみユーザーを作成する。
// 確認と挿入は同一ロック内で行う。
func (r *MemoryUserRepo) InsertIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return false, nil
	}
	r.users[user.Username] = *user
	return true, nil
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
