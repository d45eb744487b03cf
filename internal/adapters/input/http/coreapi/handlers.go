// Package coreapi exposes the read-only HTTP APIs of the three core
// services. Writes never arrive over HTTP; they flow in as events.
package coreapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"product-composite/internal/adapters/input/http/httperr"
	"product-composite/internal/domain/product"
	"product-composite/internal/domain/recommendation"
	"product-composite/internal/domain/review"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service *product.Service
	logger  *slog.Logger
}

func NewProductHandler(service *product.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

func NewProductRouter(h *ProductHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/product/:productId", h.GetProduct)
	router.GET("/actuator/health", Health)
	return router
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	raw := c.Param("productId")
	productID, err := strconv.Atoi(raw)
	if err != nil {
		httperr.WriteBadRequest(c, "productId must be an integer, got: "+raw)
		return
	}
	prod, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prod)
}

type RecommendationHandler struct {
	service *recommendation.Service
	logger  *slog.Logger
}

func NewRecommendationHandler(service *recommendation.Service, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: service, logger: logger}
}

func NewRecommendationRouter(h *RecommendationHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/recommendation", h.GetRecommendations)
	router.GET("/actuator/health", Health)
	return router
}

func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	productID, ok := productIDQuery(c)
	if !ok {
		return
	}
	recommendations, err := h.service.GetRecommendations(c.Request.Context(), productID)
	if err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, recommendations)
}

type ReviewHandler struct {
	service *review.Service
	logger  *slog.Logger
}

func NewReviewHandler(service *review.Service, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, logger: logger}
}

func NewReviewRouter(h *ReviewHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/review", h.GetReviews)
	router.GET("/actuator/health", Health)
	return router
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	productID, ok := productIDQuery(c)
	if !ok {
		return
	}
	reviews, err := h.service.GetReviews(c.Request.Context(), productID)
	if err != nil {
		httperr.WriteError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Health answers for the service process itself. Storage liveness is not
// probed here; the composite health aggregator only needs to know the
// instance answers.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func productIDQuery(c *gin.Context) (int, bool) {
	raw := c.Query("productId")
	if raw == "" {
		httperr.WriteBadRequest(c, "required query parameter productId is missing")
		return 0, false
	}
	productID, err := strconv.Atoi(raw)
	if err != nil {
		httperr.WriteBadRequest(c, "productId must be an integer, got: "+raw)
		return 0, false
	}
	return productID, true
}
