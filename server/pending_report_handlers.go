package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/server/response"
)

func (s *Server) handleGetPendingReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		pending, err := s.PendingReportService.GetPendingReports(c.Request.Context(), user)
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "pending reports retrieved successfully", http.StatusOK, pending, nil)
	}
}

func (s *Server) handleGetPendingCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		count, err := s.PendingReportService.GetPendingCount(c.Request.Context(), user)
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "pending count retrieved successfully", http.StatusOK, gin.H{"count": count}, nil)
	}
}

func (s *Server) handleSavePendingReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req models.SavePendingReportRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		saved, err := s.PendingReportService.SavePendingReport(c.Request.Context(), user, &req)
		if err != nil {
			response.JSON(c, "unable to save draft", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "draft saved successfully", http.StatusOK, saved, nil)
	}
}

func (s *Server) handleDeletePendingReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := s.PendingReportService.DeletePendingReport(c.Request.Context(), user, c.Param("id")); err != nil {
			response.JSON(c, "failed to delete draft", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "draft deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleContinuePendingReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		report, err := s.PendingReportService.ContinuePendingReport(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			response.JSON(c, "unable to submit draft", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "draft submitted successfully", http.StatusCreated, report, nil)
	}
}
