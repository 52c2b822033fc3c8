package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/techagentng/mopcdash/models"
	"github.com/techagentng/mopcdash/server/response"
	"go.uber.org/zap"
)

const (
	defaultRefreshInterval = 30 * time.Second
	writeWait              = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// dashboardUpdate is pushed to websocket clients on connect and on every
// refresh tick.
type dashboardUpdate struct {
	Type       string             `json:"type"`
	Regions    *models.LevelView  `json:"regions"`
	Statistics *models.Statistics `json:"statistics"`
	Timestamp  time.Time          `json:"timestamp"`
}

func (s *Server) handleGetRegions() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		view, err := s.DashboardService.Regions(c.Request.Context(), user, displayMode(c))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "regions retrieved successfully", http.StatusOK, view, nil)
	}
}

func (s *Server) handleGetProvinces() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		view, err := s.DashboardService.Provinces(c.Request.Context(), user, c.Param("region"), displayMode(c))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "provinces retrieved successfully", http.StatusOK, view, nil)
	}
}

func (s *Server) handleGetDistricts() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		view, err := s.DashboardService.Districts(c.Request.Context(), user, c.Param("region"), c.Param("province"), displayMode(c))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "districts retrieved successfully", http.StatusOK, view, nil)
	}
}

func (s *Server) handleGetDistrict() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		view, err := s.DashboardService.District(c.Request.Context(), user,
			c.Param("region"), c.Param("province"), c.Param("district"), displayMode(c))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "district retrieved successfully", http.StatusOK, view, nil)
	}
}

func (s *Server) handleGetMarkers() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		markers, err := s.DashboardService.Markers(c.Request.Context(), user, reportFilter(c))
		if err != nil {
			writeError(c, err)
			return
		}
		response.JSON(c, "markers retrieved successfully", http.StatusOK, markers, nil)
	}
}

// handleDashboardSocket pushes the region view immediately and then on every
// refresh interval until the client goes away.
func (s *Server) handleDashboardSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := getUserFromContext(c)
		if err != nil {
			writeError(c, err)
			return
		}
		mode := displayMode(c)

		u := upgrader
		u.CheckOrigin = s.checkOrigin
		conn, err := u.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			s.Log.Warn("websocket upgrade failed", zap.String("username", user.Username), zap.Error(err))
			return
		}
		defer conn.Close()

		// the client only sends control frames; reading is how a close is noticed
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		interval := s.Config.RefreshInterval
		if interval <= 0 {
			interval = defaultRefreshInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		ctx := c.Request.Context()
		for {
			if err := s.pushDashboard(c, conn, user, mode); err != nil {
				s.Log.Debug("dashboard socket closed", zap.String("username", user.Username), zap.Error(err))
				return
			}
			select {
			case <-closed:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

func (s *Server) pushDashboard(c *gin.Context, conn *websocket.Conn, user *models.User, mode models.DisplayMode) error {
	ctx := c.Request.Context()
	regions, err := s.DashboardService.Regions(ctx, user, mode)
	if err != nil {
		s.Log.Error("building region view", zap.Error(err))
		return err
	}
	stats, err := s.ReportService.GetStatistics(ctx, user)
	if err != nil {
		s.Log.Error("building statistics", zap.Error(err))
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(dashboardUpdate{
		Type:       "dashboard",
		Regions:    regions,
		Statistics: stats,
		Timestamp:  time.Now().UTC(),
	})
}

// checkOrigin accepts the origins the API allows for CORS, or any origin when
// none are configured.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	allowed := s.allowedOrigins()
	if origin == "" || len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == origin {
			return true
		}
	}
	return false
}
