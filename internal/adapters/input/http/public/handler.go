// Package public exposes the product-composite HTTP API.
package public

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"product-composite/internal/adapters/input/http/httperr"
	"product-composite/internal/domain/composite"
	"product-composite/pkg/api"
	"product-composite/pkg/logattr"

	"github.com/gin-gonic/gin"
)

// CompositeService is the slice of the aggregator the handler needs.
type CompositeService interface {
	GetProduct(ctx context.Context, productID int) (api.ProductAggregate, error)
	CreateProduct(ctx context.Context, body api.ProductAggregate) error
	DeleteProduct(ctx context.Context, productID int) error
}

type HealthReporter interface {
	Check(ctx context.Context) composite.Health
}

type Handler struct {
	service CompositeService
	health  HealthReporter
	logger  *slog.Logger
}

func NewHandler(service CompositeService, health HealthReporter, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		health:  health,
		logger:  logger,
	}
}

// NewRouter wires the composite API routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/product-composite/:productId", h.GetProduct)
	router.POST("/product-composite", h.CreateProduct)
	router.DELETE("/product-composite/:productId", h.DeleteProduct)
	router.GET("/actuator/health", h.Health)
	return router
}

func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	aggregate, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, aggregate)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var body api.ProductAggregate
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.WriteBadRequest(c, "malformed request body: "+err.Error())
		return
	}
	if err := h.service.CreateProduct(c.Request.Context(), body); err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	// events handed to the broker; downstream persistence is asynchronous
	c.Status(http.StatusAccepted)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *Handler) Health(c *gin.Context) {
	health := h.health.Check(c.Request.Context())

	overall := composite.StatusUp
	if health.Product == composite.StatusDown ||
		health.Recommendation == composite.StatusDown ||
		health.Review == composite.StatusDown {
		overall = composite.StatusDown
	}
	h.logger.Debug("composite health checked", logattr.Status(statusCode(overall)))
	c.JSON(statusCode(overall), gin.H{
		"status": overall,
		"components": gin.H{
			"product":        gin.H{"status": health.Product},
			"recommendation": gin.H{"status": health.Recommendation},
			"review":         gin.H{"status": health.Review},
		},
	})
}

func statusCode(status composite.Status) int {
	if status == composite.StatusUp {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func productIDParam(c *gin.Context) (int, bool) {
	raw := c.Param("productId")
	productID, err := strconv.Atoi(raw)
	if err != nil {
		httperr.WriteBadRequest(c, "productId must be an integer, got: "+raw)
		return 0, false
	}
	return productID, true
}
