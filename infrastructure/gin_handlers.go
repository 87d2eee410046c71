// infrastructure/gin_handlers.go
package infrastructure

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/vitovidale/ai-video-backend/domain"
	"github.com/vitovidale/ai-video-backend/usecase"
	"go.uber.org/zap"
)

const rootMessage = "AI Video Backend Running"

// BrokerStatus is implemented by notifiers backed by a message broker.
type BrokerStatus interface {
	Connected() bool
}

type VideoHandlers struct {
	GeneratePreviewUC *usecase.GeneratePreviewUseCase
	StartVideoUC      *usecase.StartVideoUseCase
	ListVideosUC      *usecase.ListVideosUseCase
	DiagnoseUC        *usecase.DiagnoseUseCase

	Store  domain.DocumentStore
	Broker BrokerStatus
	Logger *zap.Logger
}

func NewVideoHandlers(
	generateUC *usecase.GeneratePreviewUseCase,
	startUC *usecase.StartVideoUseCase,
	listUC *usecase.ListVideosUseCase,
	diagnoseUC *usecase.DiagnoseUseCase,
	store domain.DocumentStore,
	logger *zap.Logger,
) *VideoHandlers {
	return &VideoHandlers{
		GeneratePreviewUC: generateUC,
		StartVideoUC:      startUC,
		ListVideosUC:      listUC,
		DiagnoseUC:        diagnoseUC,
		Store:             store,
		Logger:            logger,
	}
}

type generatePreviewRequest struct {
	Prompt string `json:"prompt"`
}

type startVideoRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

// RegisterRoutes mounts the public API on router.
func (h *VideoHandlers) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.RootHandler)
	router.GET("/test", h.DiagnoseHandler)
	router.GET("/health", h.HealthCheckHandler)

	api := router.Group("/api")
	{
		api.POST("/generate-preview", h.GeneratePreviewHandler)
		api.POST("/start-video", h.StartVideoHandler)
		api.GET("/videos", h.ListVideosHandler)
	}
}

func (h *VideoHandlers) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": rootMessage})
}

func (h *VideoHandlers) GeneratePreviewHandler(c *gin.Context) {
	var req generatePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Debug("generate preview with invalid body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	output, err := h.GeneratePreviewUC.Execute(c.Request.Context(), usecase.GeneratePreviewInput{Prompt: req.Prompt})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, output)
}

func (h *VideoHandlers) StartVideoHandler(c *gin.Context) {
	var req startVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "video_id is required"})
			return
		}
		h.Logger.Debug("start video with invalid body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	video, err := h.StartVideoUC.Execute(c.Request.Context(), usecase.StartVideoInput{VideoID: req.VideoID})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandlers) ListVideosHandler(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	videos, err := h.ListVideosUC.Execute(c.Request.Context(), usecase.ListVideosInput{Limit: limit})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandlers) DiagnoseHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.DiagnoseUC.Execute(c.Request.Context()))
}

// HealthCheckHandler reports DOWN when the store, or a configured broker,
// is not usable.
func (h *VideoHandlers) HealthCheckHandler(c *gin.Context) {
	dbStatus := "connected"
	if h.Store == nil {
		dbStatus = "not configured"
	} else if diag := h.Store.Diagnose(c.Request.Context()); !diag.Available {
		dbStatus = "disconnected"
		if diag.Err != nil {
			dbStatus = "error: " + diag.Err.Error()
		}
	}

	body := gin.H{"database": dbStatus}
	healthy := dbStatus == "connected"

	if h.Broker != nil {
		brokerStatus := "connected"
		if !h.Broker.Connected() {
			brokerStatus = "disconnected"
			healthy = false
		}
		body["rabbitmq"] = brokerStatus
	}

	if !healthy {
		body["status"] = "DOWN"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "UP"
	c.JSON(http.StatusOK, body)
}

func (h *VideoHandlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"detail": domain.Message(err, "Invalid request")})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": domain.Message(err, "Not found")})
	case errors.Is(err, domain.ErrStoreUnavailable):
		h.Logger.Error("database not available", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database not available"})
	default:
		h.Logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
