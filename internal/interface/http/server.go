package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	appauth "fnb-insights/internal/application/auth"
	"fnb-insights/internal/application/dataset"
	"fnb-insights/internal/application/insights"
	authDomain "fnb-insights/internal/domain/auth"
	"fnb-insights/internal/infra/memory"
	authinfra "fnb-insights/internal/infrastructure/auth"
	"fnb-insights/internal/infrastructure/config"
	"fnb-insights/internal/infrastructure/persistence/postgres"
)

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeUnauthorized       = "AUTH_UNAUTHORIZED"
	errCodeForbidden          = "AUTH_FORBIDDEN"
	errCodeNotFound           = "NOT_FOUND"
	errCodeInternal           = "INTERNAL_ERROR"
)

// DatasetStore is what both the memory store and the Postgres repo provide.
type DatasetStore interface {
	dataset.Repository
	ListDatasets(ctx context.Context) ([]dataset.Dataset, error)
}

// Server wires the HTTP routes and their dependencies.
type Server struct {
	engine      *gin.Engine
	store       *memory.Store
	datasets    DatasetStore
	loginUC     *appauth.LoginUseCase
	uploadUC    *dataset.UploadUseCase
	insightsUC  *insights.UseCase
	tokenSvc    *authinfra.JWTIssuer
	db          *sql.DB
	log         *logrus.Logger
	maxUploadMB int
}

// NewServer builds the API server. Without a database it runs entirely on
// the in-memory store.
func NewServer(cfg config.Config, pool *sql.DB, log *logrus.Logger) *Server {
	store := memory.NewStore()

	var datasets DatasetStore
	var users appauth.UserRepository
	if pool != nil {
		repo := postgres.NewRepo(pool)
		datasets = repo
		users = repo
	} else {
		store.SeedUsers(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		datasets = store
		users = store
	}

	tokenSvc := authinfra.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	s := &Server{
		engine:      gin.New(),
		store:       store,
		datasets:    datasets,
		loginUC:     appauth.NewLoginUseCase(users, authinfra.BcryptHasher{}, tokenSvc),
		uploadUC:    dataset.NewUploadUseCase(datasets, log),
		insightsUC:  insights.NewUseCase(log),
		tokenSvc:    tokenSvc,
		db:          pool,
		log:         log,
		maxUploadMB: cfg.Upload.MaxSizeMB,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(corsMiddleware())
	s.registerRoutes()
	return s
}

// Handler exposes the router for the HTTP server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store exposes the memory store so tests can seed data.
func (s *Server) Store() *memory.Store {
	return s.store
}

func (s *Server) registerRoutes() {
	s.engine.GET("/api/ping", s.handlePing)
	s.engine.GET("/api/health", s.handleHealth)
	s.engine.POST("/api/auth/login", s.handleLogin)

	api := s.engine.Group("/api", s.requireAuth())
	api.GET("/datasets", s.handleListDatasets)
	api.POST("/datasets", s.requireUploader(), s.handleUploadDataset)
	api.GET("/datasets/:id/branches", s.handleBranches)
	api.GET("/datasets/:id/summary", s.handleSummary)
	api.GET("/datasets/:id/trends", s.handleTrends)
	api.GET("/datasets/:id/operations", s.handleOperations)
}

func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := parseBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized", "error_code": errCodeUnauthorized})
			c.Abort()
			return
		}

		claims, err := s.tokenSvc.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token", "error_code": errCodeUnauthorized})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// requireUploader runs after requireAuth and gates dataset writes.
func (s *Server) requireUploader() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := authDomain.User{Role: authDomain.Role(c.GetString("role"))}
		if !u.CanUpload() {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden", "error_code": errCodeForbidden})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.log.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    path,
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func parseBearer(h string) string {
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
