package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/mopcdash/errors"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/server/response"
)

func (s *Server) handleGetReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		reports, err := s.ReportService.GetReports(c.Request.Context(), user, reportFilter(c))
		if err != nil {
			response.JSON(c, "error fetching reports", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		report, err := s.ReportService.GetReportByID(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "report retrieved successfully", http.StatusOK, report, nil)
	}
}

func (s *Server) handleCreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var report models.Report
		if err := decode(c, &report); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		saved, err := s.ReportService.SaveReport(c.Request.Context(), user, &report)
		if err != nil {
			response.JSON(c, "unable to save report", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "report saved successfully", http.StatusCreated, saved, nil)
	}
}

func (s *Server) handleDeleteReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := s.ReportService.DeleteReport(c.Request.Context(), user, c.Param("id")); err != nil {
			response.JSON(c, "failed to delete report", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "report deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUploadReportImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		form, err := c.MultipartForm()
		if err != nil {
			response.JSON(c, "unable to parse multipart form", http.StatusBadRequest, nil, errors.New(err.Error(), http.StatusBadRequest))
			return
		}
		files := form.File["images"]
		if len(files) == 0 {
			response.JSON(c, "no images uploaded", http.StatusBadRequest, nil, errors.ErrBadRequest)
			return
		}
		report, err := s.MediaService.UploadReportImages(c.Request.Context(), user, c.Param("id"), files)
		if err != nil {
			response.JSON(c, "unable to upload images", errors.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "images uploaded successfully", http.StatusOK, report, nil)
	}
}

func (s *Server) handleGetStatistics() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		stats, err := s.ReportService.GetStatistics(c.Request.Context(), user)
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "statistics retrieved successfully", http.StatusOK, stats, nil)
	}
}
