package models

import (
	"errors"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User is a dashboard account
type User struct {
	Model
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Cedula         string     `json:"cedula"`
	Department     string     `json:"department"`
	Role           Role       `json:"role" gorm:"type:varchar(20);not null"`
	Region         string     `json:"region"`
	Province       string     `json:"province"`
	IsActive       bool       `json:"isActive" gorm:"default:true"`
	Avatar         string     `json:"avatar,omitempty"`
	HashedPassword string     `json:"-"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required,min=3" conform:"trim,lower"`
	Name       string `json:"name" binding:"required,min=2" conform:"trim"`
	Email      string `json:"email" binding:"omitempty,email" conform:"trim,lower"`
	Phone      string `json:"phone" conform:"trim"`
	Cedula     string `json:"cedula" conform:"trim"`
	Department string `json:"department" conform:"trim"`
	Role       Role   `json:"role" binding:"required,oneof=tecnico supervisor admin"`
	Region     string `json:"region" conform:"trim"`
	Province   string `json:"province" conform:"trim"`
	Password   string `json:"password" binding:"required"`
}

// UpdateUserRequest is the body of PUT /users/:id. Empty fields are left
// unchanged.
type UpdateUserRequest struct {
	Name       string `json:"name" conform:"trim"`
	Email      string `json:"email" binding:"omitempty,email" conform:"trim,lower"`
	Phone      string `json:"phone" conform:"trim"`
	Department string `json:"department" conform:"trim"`
	Role       Role   `json:"role" binding:"omitempty,oneof=tecnico supervisor admin"`
	Region     string `json:"region" conform:"trim"`
	Province   string `json:"province" conform:"trim"`
	Password   string `json:"password"`
	IsActive   *bool  `json:"isActive"`
}

type UserResponse struct {
	ID                 uint       `json:"id"`
	Username           string     `json:"username"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Role               Role       `json:"role"`
	RoleBadge          string     `json:"roleBadge"`
	Region             string     `json:"region"`
	Department         string     `json:"department"`
	IsActive           bool       `json:"isActive"`
	LastSeen           *time.Time `json:"lastSeen,omitempty"`
	ReportsCount       int        `json:"reportsCount"`
	PendingReportCount int        `json:"pendingReportsCount"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" conform:"trim,lower"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string     `json:"access_token"`
	Limits      RoleLimits `json:"limits"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		RoleBadge:  u.Role.Badge(),
		Region:     u.Region,
		Department: u.Department,
		IsActive:   u.IsActive,
		LastSeen:   u.LastSeen,
	}
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(15, errors.New("password cant be more than 15 characters")))
	return passwordValidator.Validate(password)
}

// Conform trims and normalizes the tagged string fields of a request.
func Conform(data interface{}) error {
	return conform.Strings(data)
}

// SetPassword validates and hashes password into the user
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashed)
	return nil
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
