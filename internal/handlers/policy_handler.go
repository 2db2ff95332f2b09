package handlers

import (
	"context"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"

	"github.com/gin-gonic/gin"
)

type PolicyBook interface {
	CreatePolicy(ctx context.Context, caller *models.Identity, req models.CreatePolicyRequest) (*models.Policy, error)
	Renewals(ctx context.Context, caller *models.Identity) ([]models.PolicyWithFarmer, error)
	Stats(ctx context.Context, caller *models.Identity) (*models.AgentStats, error)
	FarmerPolicies(ctx context.Context, caller *models.Identity, farmerID string) ([]*models.Policy, error)
}

type PolicyHandler struct {
	policies PolicyBook
}

func NewPolicyHandler(policies PolicyBook) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

func (h *PolicyHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/policy/create", h.CreatePolicy)
	r.GET("/agent/renewals", h.Renewals)
	r.GET("/agent/stats", h.Stats)
	r.GET("/farmer/:farmerId/policies", h.FarmerPolicies)
}

func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	var req models.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	policy, err := h.policies.CreatePolicy(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "policyId": policy.ID, "policy": policy})
}

func (h *PolicyHandler) Renewals(c *gin.Context) {
	renewals, err := h.policies.Renewals(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"renewals": renewals})
}

func (h *PolicyHandler) Stats(c *gin.Context) {
	stats, err := h.policies.Stats(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *PolicyHandler) FarmerPolicies(c *gin.Context) {
	policies, err := h.policies.FarmerPolicies(c.Request.Context(), identityFrom(c), c.Param("farmerId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"policies": policies})
}
