package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
)

// Pinger verifica a conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde o health check
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	logger  ports.Logger
}

// NewHealthHandler cria um novo HealthHandler
func NewHealthHandler(db Pinger, logger ports.Logger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second, logger: logger}
}

// HealthResponse é o corpo de GET /health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		middleware.GetLogger(c, h.logger).Error("database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unavailable"})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
