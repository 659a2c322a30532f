package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/api/websocket"
	"github.com/KevinKickass/OpenMDIB/internal/auth"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/interfaces"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router      *gin.Engine
	lm          interfaces.LifecycleManager
	logger      *zap.Logger
	server      *http.Server
	wsHub       *websocket.Hub
	authService *auth.AuthService
}

func NewServer(cfg *config.Config, lm interfaces.LifecycleManager, logger *zap.Logger, wsHub *websocket.Hub, authService *auth.AuthService) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:      gin.New(),
		lm:          lm,
		logger:      logger,
		wsHub:       wsHub,
		authService: authService,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware())

	// Public routes (no auth required)
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		// ==================== AUTH ====================
		v1.POST("/auth/login", s.login)
		v1.GET("/auth/me", s.authService.AuthMiddleware(), s.getCurrentUser)

		// ==================== MDIB ====================
		m := v1.Group("/mdib")
		m.Use(s.authService.AuthMiddleware())
		{
			// Read operations: viewer+
			m.GET("", auth.RequirePermission(auth.PermRead), s.getMdib)
			m.GET("/descriptors", auth.RequirePermission(auth.PermRead), s.listDescriptors)
			m.GET("/descriptors/:handle", auth.RequirePermission(auth.PermRead), s.getDescriptor)
			m.GET("/descriptors/:handle/children", auth.RequirePermission(auth.PermRead), s.getChildren)
			m.GET("/states", auth.RequirePermission(auth.PermRead), s.listStates)
			m.GET("/states/:handle", auth.RequirePermission(auth.PermRead), s.getState)
			m.GET("/archive/descriptors", auth.RequirePermission(auth.PermRead), s.getArchivedDescriptors)
			m.GET("/archive/states", auth.RequirePermission(auth.PermRead), s.getArchivedStates)

			// Write operations: operator+
			m.PATCH("/states/:handle", auth.RequirePermission(auth.PermWrite), s.patchState)
		}

		// ==================== PROFILE ====================
		v1.GET("/profile", s.authService.AuthMiddleware(), auth.RequirePermission(auth.PermRead), s.getProfile)
		v1.GET("/profiles", s.authService.AuthMiddleware(), auth.RequirePermission(auth.PermRead), s.listProfiles)

		// ==================== SYSTEM ====================
		system := v1.Group("/system")
		system.Use(s.authService.AuthMiddleware())
		{
			system.GET("/status", auth.RequirePermission(auth.PermRead), s.getSystemStatus)
			system.GET("/metrics", auth.RequirePermission(auth.PermRead), s.getMetrics)
			system.POST("/shutdown", auth.RequirePermission(auth.PermAdmin), s.shutdown)
		}

		// ==================== WEBSOCKET (PUBLIC - Auth via first message) ====================
		ws := v1.Group("/ws")
		{
			ws.GET("/live", s.wsLiveConnection)
			ws.GET("/status", s.authService.AuthMiddleware(), auth.RequirePermission(auth.PermRead), s.wsStatus)
		}
	}
}

// WebSocket handlers
func (s *Server) wsLiveConnection(c *gin.Context) {
	websocket.ServeWs(s.wsHub, c.Writer, c.Request)
}

func (s *Server) wsStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": s.wsHub.GetClientCount(),
	})
}

// Health check (public)
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
