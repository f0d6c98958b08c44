package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fuellog-api/models"
	"fuellog-api/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertByOpenID(ctx context.Context, openID, nickname string, avatar *string) (*models.User, bool, error)
	UpdateProfile(ctx context.Context, id string, name, avatar *string) (*models.User, error)
}

type AuthResult struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	IsNewUser bool        `json:"is_new_user"`
}

type AuthService struct {
	users  UserStore
	tokens *TokenService
	wechat *WeChatService
	mailer *EmailService
}

func NewAuthService(users UserStore, tokens *TokenService, wechat *WeChatService, mailer *EmailService) *AuthService {
	return &AuthService{users: users, tokens: tokens, wechat: wechat, mailer: mailer}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    &email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	go func(email, name string) {
		if err := s.mailer.SendWelcomeEmail(email, name); err != nil {
			log.WithError(err).WithField("email", email).Warn("Failed to send welcome email")
		}
	}(email, user.DisplayName())

	return s.issue(user, true)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user, false)
}

// WeChatLogin exchanges a mini-program login code for a token, creating the
// account on first use.
func (s *AuthService) WeChatLogin(ctx context.Context, code, nickname string, avatar *string) (*AuthResult, error) {
	session, err := s.wechat.Code2Session(ctx, code)
	if err != nil {
		return nil, err
	}

	user, created, err := s.users.UpsertByOpenID(ctx, session.OpenID, strings.TrimSpace(nickname), avatar)
	if err != nil {
		return nil, err
	}
	if created {
		log.WithField("user_id", user.ID).Info("Created user from WeChat login")
	}
	return s.issue(user, created)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, name, avatar *string) (*models.User, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	return s.users.UpdateProfile(ctx, userID, name, avatar)
}

func (s *AuthService) issue(user *models.User, isNew bool) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: *user, IsNewUser: isNew}, nil
}
