package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/server/response"
)

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}
		userResponse, err := s.AuthService.LoginUser(c.Request.Context(), &loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		profile := gin.H{
			"user":        user.Response(),
			"permissions": models.RoleConfigs[user.Role].Permissions,
			"limits":      models.RoleConfigs[user.Role].Limits,
		}
		response.JSON(c, "user profile retrieved successfully", http.StatusOK, profile, nil)
	}
}

func (s *Server) handleGetRoles() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := make([]models.RoleConfig, 0, len(models.RoleConfigs))
		for _, r := range []models.Role{models.RoleTecnico, models.RoleSupervisor, models.RoleAdmin} {
			roles = append(roles, models.RoleConfigs[r])
		}
		response.JSON(c, "roles retrieved successfully", http.StatusOK, roles, nil)
	}
}

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		users, err := s.AuthService.GetAllUsers(c.Request.Context(), user)
		if err != nil {
			response.JSON(c, "error fetching users", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "successfully fetched all users", http.StatusOK, users, nil)
	}
}

func (s *Server) handleCreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req models.CreateUserRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		created, err := s.AuthService.CreateUser(c.Request.Context(), user, &req)
		if err != nil {
			response.JSON(c, "unable to create user", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "user created successfully", http.StatusCreated, created.Response(), nil)
	}
}

func (s *Server) handleUpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		id, err := uintParam(c, "id")
		if err != nil {
			writeError(c, err)
			return
		}
		var req models.UpdateUserRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		updated, err := s.AuthService.UpdateUser(c.Request.Context(), user, id, &req)
		if err != nil {
			response.JSON(c, "unable to update user", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "user updated successfully", http.StatusOK, updated.Response(), nil)
	}
}

func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		id, err := uintParam(c, "id")
		if err != nil {
			writeError(c, err)
			return
		}
		if err := s.AuthService.DeleteUser(c.Request.Context(), user, id); err != nil {
			response.JSON(c, "failed to delete user", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "user deleted successfully", http.StatusOK, nil, nil)
	}
}
