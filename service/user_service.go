package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"user-management-api/logger"
	"user-management-api/model"
	"user-management-api/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// UserServiceOptions carries the tunables of UserService.
type UserServiceOptions struct {
	CacheTTL         time.Duration
	MaxLoginAttempts int
}

// UserService handles user-related business logic.
type UserService struct {
	repo  repository.IUserRepository
	auth  *AuthService
	cache ICacheClient
	opts  UserServiceOptions
	now   func() time.Time
	newID func() string
}

// NewUserService creates a new UserService. cache may be nil, in which case
// lookups always go to the repository.
func NewUserService(repo repository.IUserRepository, auth *AuthService, cache ICacheClient, opts UserServiceOptions) *UserService {
	if opts.MaxLoginAttempts <= 0 {
		opts.MaxLoginAttempts = 3
	}
	return &UserService{
		repo:  repo,
		auth:  auth,
		cache: cache,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Register creates a self-registered account. The first account ever
// created becomes an administrator; the repository decides that atomically
// with the insert.
func (s *UserService) Register(ctx context.Context, req model.UserCreate) (*model.UserResponse, error) {
	return s.createUser(ctx, req, s.repo.CreateSelfRegistered)
}

// Create is the administrative counterpart of Register. It never grants
// more than AUTHENTICATED.
func (s *UserService) Create(ctx context.Context, req model.UserCreate) (*model.UserResponse, error) {
	return s.createUser(ctx, req, s.repo.Create)
}

func (s *UserService) createUser(ctx context.Context, req model.UserCreate, insert func(context.Context, *model.User) error) (*model.UserResponse, error) {
	if err := s.ensureAvailable(ctx, req.Email, req.Nickname); err != nil {
		return nil, err
	}

	hashed, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:                 s.newID(),
		Nickname:           req.Nickname,
		Email:              req.Email,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		ProfilePictureURL:  req.ProfilePictureURL,
		LinkedInProfileURL: req.LinkedInProfileURL,
		GitHubProfileURL:   req.GitHubProfileURL,
		Role:               model.RoleAuthenticated,
		HashedPassword:     hashed,
	}
	if err := insert(ctx, user); err != nil {
		return nil, mapRepositoryError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User created")

	resp := user.ToResponse()
	return &resp, nil
}

func (s *UserService) ensureAvailable(ctx context.Context, email, nickname string) error {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return ErrEmailAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup email: %w", err)
	}

	if _, err := s.repo.GetByNickname(ctx, nickname); err == nil {
		return ErrNicknameAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lookup nickname: %w", err)
	}
	return nil
}

// Get returns a user by id using a cache-aside strategy.
func (s *UserService) Get(ctx context.Context, id string) (*model.UserResponse, error) {
	key := userCacheKey(id)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var resp model.UserResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	resp := user.ToResponse()

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, key, data, s.opts.CacheTTL)
		}
	}
	return &resp, nil
}

// List returns one page of users. limit is clamped to [1, MaxPageSize].
func (s *UserService) List(ctx context.Context, skip, limit int) (*model.UserListResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	users, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	items := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}
	return &model.UserListResponse{
		Items: items,
		Total: total,
		Page:  skip/limit + 1,
		Size:  len(items),
	}, nil
}

// Update applies the supplied fields and drops the cached copy.
func (s *UserService) Update(ctx context.Context, id string, req model.UserUpdate) (*model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	req.Apply(user)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, mapRepositoryError(err)
	}
	s.invalidate(ctx, id)

	logger.Log.WithField("user_id", id).Info("User updated")
	resp := user.ToResponse()
	return &resp, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, id)

	logger.Log.WithField("user_id", id).Info("User deleted")
	return nil
}

// Login checks credentials and issues an access token. Wrong passwords are
// counted and lock the account at the configured threshold.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.auth.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	log := logger.Log.WithField("user_id", user.ID)
	if user.IsLocked {
		log.Warn("Login attempt on locked account")
		return nil, ErrAccountLocked
	}

	if !s.auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		attempts, locked, err := s.repo.RecordLoginFailure(ctx, user.ID, s.opts.MaxLoginAttempts)
		if err != nil {
			return nil, fmt.Errorf("record login failure: %w", err)
		}
		log.WithField("failed_attempts", attempts).Warn("Login failed")
		if locked {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.RecordLoginSuccess(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("record login success: %w", err)
	}
	s.invalidate(ctx, user.ID)

	token, err := s.auth.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	log.Info("User logged in")
	return &model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Del(ctx, userCacheKey(id))
	}
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrDuplicateNickname):
		return ErrNicknameAlreadyExists
	}
	return err
}
