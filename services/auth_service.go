package services

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/mopcdash/config"
	"github.com/techagentng/mopcdash/db"
	apiError "github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/services/jwt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles logins and the user administration screen.
type AuthService interface {
	LoginUser(ctx context.Context, loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetAllUsers(ctx context.Context, actor *models.User) ([]models.UserResponse, error)
	CreateUser(ctx context.Context, actor *models.User, req *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actor *models.User, id uint, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, id uint) error
}

type authService struct {
	Config      *config.Config
	userRepo    db.UserRepository
	reportRepo  db.ReportRepository
	pendingRepo db.PendingReportRepository
	log         *zap.Logger
}

// NewAuthService instantiate an authService
func NewAuthService(userRepo db.UserRepository, reportRepo db.ReportRepository, pendingRepo db.PendingReportRepository, conf *config.Config, log *zap.Logger) AuthService {
	return &authService{
		Config:      conf,
		userRepo:    userRepo,
		reportRepo:  reportRepo,
		pendingRepo: pendingRepo,
		log:         log,
	}
}

func (a *authService) LoginUser(ctx context.Context, loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.userRepo.FindUserByUsername(ctx, loginRequest.Username)
	if err != nil {
		return nil, apiError.ErrInvalidPassword
	}
	if !foundUser.IsActive {
		return nil, apiError.New("user is inactive", http.StatusUnauthorized)
	}
	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.ErrInvalidPassword
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, foundUser.Username, string(foundUser.Role), a.Config.JWTSecret)
	if err != nil {
		a.log.Error("error generating token", zap.Error(err))
		return nil, apiError.ErrInternalServerError
	}

	now := time.Now().UTC()
	foundUser.LastSeen = &now
	if err := a.userRepo.UpdateUser(ctx, foundUser); err != nil {
		a.log.Warn("could not record last login", zap.String("username", foundUser.Username), zap.Error(err))
	}

	return &models.LoginResponse{
		UserResponse: foundUser.Response(),
		AccessToken:  accessToken,
		Limits:       models.RoleConfigs[foundUser.Role].Limits,
	}, nil
}

// GetAllUsers lists users with how many reports and drafts each one has.
func (a *authService) GetAllUsers(ctx context.Context, actor *models.User) ([]models.UserResponse, error) {
	if !models.HasPermission(actor.Role, models.CanViewAllUsers) {
		return nil, apiError.ErrForbidden
	}
	users, err := a.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	pending, err := a.pendingRepo.CountPendingByUser(ctx)
	if err != nil {
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	reports, err := a.reportRepo.GetAllReports(ctx)
	if err != nil {
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	perUser := make(map[string]int)
	for _, r := range reports {
		perUser[r.CreatedBy]++
	}

	out := make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp := users[i].Response()
		resp.ReportsCount = perUser[users[i].Username]
		resp.PendingReportCount = pending[users[i].Username]
		out = append(out, resp)
	}
	return out, nil
}

func (a *authService) CreateUser(ctx context.Context, actor *models.User, req *models.CreateUserRequest) (*models.User, error) {
	if !models.CanPerformAction(actor.Role, models.CanCreateUsers, models.ActionContext{TargetRole: req.Role}) {
		return nil, apiError.ErrForbidden
	}
	if err := a.userRepo.IsUsernameExist(ctx, req.Username); err != nil {
		return nil, apiError.New(err.Error(), http.StatusConflict)
	}

	user := &models.User{
		Username:   req.Username,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Cedula:     req.Cedula,
		Department: req.Department,
		Role:       req.Role,
		Region:     req.Region,
		Province:   req.Province,
		IsActive:   true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	created, err := a.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	return created, nil
}

// UpdateUser applies the non-empty fields of req. Supervisors only manage
// technicians and cannot promote them.
func (a *authService) UpdateUser(ctx context.Context, actor *models.User, id uint, req *models.UpdateUserRequest) (*models.User, error) {
	if !models.HasPermission(actor.Role, models.CanEditUsers) {
		return nil, apiError.ErrForbidden
	}
	user, err := a.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleSupervisor && user.ID != actor.ID {
		if user.Role != models.RoleTecnico || (req.Role != "" && req.Role != models.RoleTecnico) {
			return nil, apiError.ErrForbidden
		}
	}

	user.Name = coalesce(req.Name, user.Name)
	user.Email = coalesce(req.Email, user.Email)
	user.Phone = coalesce(req.Phone, user.Phone)
	user.Department = coalesce(req.Department, user.Department)
	user.Region = coalesce(req.Region, user.Region)
	user.Province = coalesce(req.Province, user.Province)
	if req.Role != "" && actor.Role == models.RoleAdmin {
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, apiError.New(err.Error(), http.StatusBadRequest)
		}
	}

	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	return user, nil
}

func (a *authService) DeleteUser(ctx context.Context, actor *models.User, id uint) error {
	if !models.HasPermission(actor.Role, models.CanDeleteUsers) {
		return apiError.ErrForbidden
	}
	if actor.ID == id {
		return apiError.New("you cannot delete your own account", http.StatusBadRequest)
	}
	if err := a.userRepo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.ErrNotFound
		}
		return apiError.New(err.Error(), http.StatusInternalServerError)
	}
	return nil
}

func (a *authService) findUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := a.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, apiError.New(err.Error(), http.StatusInternalServerError)
	}
	return user, nil
}
