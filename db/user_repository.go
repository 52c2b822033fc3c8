package db

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	errs "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	IsUsernameExist(ctx context.Context, username string) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (u *userRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := u.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("could not create user: %v", err)
	}
	return user, nil
}

// IsUsernameExist returns an error when the username is already taken.
func (u *userRepo) IsUsernameExist(ctx context.Context, username string) error {
	var count int64
	err := u.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm.count error")
	}
	if count > 0 {
		return fmt.Errorf("username already in use")
	}
	return nil
}

func (u *userRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := u.DB.WithContext(ctx).Where("username = ?", username).First(user).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	return user, nil
}

// FindUserByID loads an active user.
func (u *userRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	user := &models.User{}
	if err := u.DB.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	if !user.IsActive {
		return nil, errs.InActiveUserError
	}
	return user, nil
}

// GetUserByID loads a user whether or not the account is active.
func (u *userRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user := &models.User{}
	if err := u.DB.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not find user")
	}
	return user, nil
}

func (u *userRepo) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := u.DB.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "loading users")
	}
	return users, nil
}

func (u *userRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return u.DB.WithContext(ctx).Save(user).Error
}

func (u *userRepo) DeleteUser(ctx context.Context, id uint) error {
	result := u.DB.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting user")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
