package handlers

import (
	"context"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/gin-gonic/gin"
)

type FarmerRegistry interface {
	CreateFarmer(ctx context.Context, caller *models.Identity, req models.CreateFarmerRequest) (*models.Farmer, error)
	ListFarmers(ctx context.Context, caller *models.Identity) ([]*models.Farmer, error)
}

type FarmerHandler struct {
	farmers FarmerRegistry
}

func NewFarmerHandler(farmers FarmerRegistry) *FarmerHandler {
	return &FarmerHandler{farmers: farmers}
}

func (h *FarmerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/farmer/create", h.CreateFarmer)
	r.GET("/agent/farmers", h.ListFarmers)
}

func (h *FarmerHandler) CreateFarmer(c *gin.Context) {
	var req models.CreateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	farmer, err := h.farmers.CreateFarmer(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "farmerId": farmer.ID})
}

func (h *FarmerHandler) ListFarmers(c *gin.Context) {
	farmers, err := h.farmers.ListFarmers(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if farmers == nil {
		farmers = []*models.Farmer{}
	}

	c.JSON(http.StatusOK, gin.H{"farmers": farmers})
}
