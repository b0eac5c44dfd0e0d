// Package auth はユーザー名とパスワードによるアカウント登録と認証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// maxPasswordBytes はbcryptがハッシュ化できるパスワードの最大バイト数。
const maxPasswordBytes = 72

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// BcryptCost はパスワードハッシュのコスト。0の場合はbcrypt.DefaultCost。
	BcryptCost int
}

// Service はアカウントに関するビジネスロジックを提供する。
type Service struct {
	userRepo  repository.UserRepository
	cost      int
	dummyHash []byte
}

// NewService はServiceを生成する。
// 未登録ユーザーのログイン時にも同じ計算量で比較するため、ダミーのハッシュを事前に作る。
func NewService(userRepo repository.UserRepository, config ServiceConfig) (*Service, error) {
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		userRepo:  userRepo,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// Signup はアカウントを作成する。
// ユーザー名が既に存在する場合はmodel.ErrUsernameTakenを返し、既存アカウントは変更しない。
// 作成後もログイン状態にはしない。
func (s *Service) Signup(ctx context.Context, username, password string) error {
	if username == "" {
		return model.ErrUsernameRequired
	}
	if len(password) > maxPasswordBytes {
		return model.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	created, err := s.userRepo.InsertIfAbsent(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		slog.Info("signup rejected: username taken", slog.String("username", username))
		return model.ErrUsernameTaken
	}

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)
	return nil
}

// Login はユーザー名とパスワードを検証し、一致したアカウントを返す。
// 未登録ユーザーとパスワード誤りはどちらもmodel.ErrInvalidCredentialsを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		// 応答時間で未登録を判別されないよう比較は必ず行う
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		slog.Warn("login failed", slog.String("username", username))
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Error("stored password hash is unusable",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		slog.Warn("login failed", slog.String("username", username))
		return nil, model.ErrInvalidCredentials
	}

	slog.Info("user logged in", slog.String("username", username))
	return user, nil
}
