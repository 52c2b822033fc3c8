package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" || gin.Mode() == gin.TestMode {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := s.allowedOrigins(); len(origins) > 0 {
		conf.AllowOrigins = origins
	} else {
		conf.AllowAllOrigins = true
	}
	return conf
}

func (s *Server) allowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.Config.AccessControlAllowOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.Config.LoginRateLimit,
	})

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/login", limitRateForLogin(store), s.handleLogin())
	apirouter.GET("/roles", s.handleGetRoles())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/me", s.handleShowProfile())

	authorized.GET("/reports", s.handleGetReports())
	authorized.POST("/reports", s.handleCreateReport())
	authorized.GET("/reports/:id", s.handleGetReport())
	authorized.DELETE("/reports/:id", s.handleDeleteReport())
	authorized.POST("/reports/:id/images", s.handleUploadReportImages())

	authorized.GET("/dashboard/regions", s.handleGetRegions())
	authorized.GET("/dashboard/regions/:region", s.handleGetProvinces())
	authorized.GET("/dashboard/regions/:region/provinces/:province", s.handleGetDistricts())
	authorized.GET("/dashboard/regions/:region/provinces/:province/districts/:district", s.handleGetDistrict())
	authorized.GET("/statistics", s.handleGetStatistics())
	authorized.GET("/map/markers", s.handleGetMarkers())
	authorized.GET("/ws/dashboard", s.handleDashboardSocket())

	authorized.GET("/pending-reports", s.handleGetPendingReports())
	authorized.GET("/pending-reports/count", s.handleGetPendingCount())
	authorized.POST("/pending-reports", s.handleSavePendingReport())
	authorized.DELETE("/pending-reports/:id", s.handleDeletePendingReport())
	authorized.POST("/pending-reports/:id/continue", s.handleContinuePendingReport())

	authorized.GET("/users", s.handleGetAllUsers())
	authorized.POST("/users", s.handleCreateUser())
	authorized.PUT("/users/:id", s.handleUpdateUser())
	authorized.DELETE("/users/:id", s.handleDeleteUser())
}
