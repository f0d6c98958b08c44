package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fuellog-api/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) FindByOpenID(ctx context.Context, openID string) (*models.User, error) {
	return r.findOne(ctx, "open_id = ?", openID)
}

// UpdateProfile changes the name and/or avatar of a user. Nil fields are
// left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name, avatar *string) (*models.User, error) {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user profile: %w", err)
		}
	}
	return r.FindByID(ctx, id)
}

// UpsertByOpenID returns the user bound to openID, creating it on first
// login. Two first logins can race on the unique openid index; the loser
// re-reads the row the winner created. created reports whether this call
// inserted the row.
func (r *UserRepository) UpsertByOpenID(ctx context.Context, openID, nickname string, avatar *string) (user *models.User, created bool, err error) {
	existing, err := r.FindByOpenID(ctx, openID)
	switch {
	case err == nil:
		return r.refreshProfile(ctx, existing, nickname, avatar)
	case !errors.Is(err, ErrUserNotFound):
		return nil, false, err
	}

	fresh := &models.User{
		ID:     uuid.New().String(),
		Name:   nickname,
		OpenID: &openID,
		Avatar: avatar,
	}
	createErr := r.db.WithContext(ctx).Create(fresh).Error
	if createErr == nil {
		return fresh, true, nil
	}

	existing, err = r.FindByOpenID(ctx, openID)
	if err != nil {
		return nil, false, fmt.Errorf("create user for openid: %w", createErr)
	}
	return r.refreshProfile(ctx, existing, nickname, avatar)
}

func (r *UserRepository) refreshProfile(ctx context.Context, user *models.User, nickname string, avatar *string) (*models.User, bool, error) {
	updates := map[string]interface{}{}
	if nickname != "" && nickname != user.Name {
		updates["name"] = nickname
	}
	if avatar != nil && (user.Avatar == nil || *user.Avatar != *avatar) {
		updates["avatar"] = *avatar
	}
	if len(updates) == 0 {
		return user, false, nil
	}

	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, false, fmt.Errorf("refresh user profile: %w", err)
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if avatar != nil {
		user.Avatar = avatar
	}
	return user, false, nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
