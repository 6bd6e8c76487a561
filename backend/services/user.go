package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"akatsuki/backend/models"
	"akatsuki/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, email, nickname, password string) (*UserView, error)
	// Login returns a signed token for valid credentials.
	Login(ctx context.Context, email, password string) (string, *UserView, error)
	Me(ctx context.Context, userID uint) (*UserView, error)
	GetProfile(ctx context.Context, userID uint) (*ProfileView, error)
	// Active reports whether the user exists and is not disabled.
	Active(ctx context.Context, userID uint) (bool, error)
}

type userService struct {
	Deps
	courses CourseService
}

func NewUserService(d Deps, courses CourseService) UserService {
	return &userService{Deps: d, courses: courses}
}

func (s *userService) Register(ctx context.Context, email, nickname, password string) (*UserView, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	taken, err := s.Store.Users.ExistsByEmailOrNickname(ctx, nil, email, nickname)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email or nickname already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.Store.Users.Create(ctx, nil, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email or nickname already registered", ErrConflict)
		}
		return nil, err
	}

	s.Log.Infow("user registered", "user_id", u.ID)
	return userView(u), nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *UserView, error) {
	u, err := s.Store.Users.GetByEmail(ctx, nil, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || !u.IsActive {
		return "", nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrUnauthorized
	}

	token, err := utils.GenerateJWTToken(u.ID, s.Cfg)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, userView(u), nil
}

func (s *userService) Me(ctx context.Context, userID uint) (*UserView, error) {
	u, err := s.Store.Users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return userView(u), nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	me, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.courses.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{UserView: *me, Enrollments: enrollments}, nil
}

func (s *userService) Active(ctx context.Context, userID uint) (bool, error) {
	u, err := s.Store.Users.GetByID(ctx, nil, userID)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsActive, nil
}
