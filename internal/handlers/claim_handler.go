package handlers

import (
	"context"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/models"
	"github.com/Ghawri/Cattle-insurance-agent/internal/services"

	"github.com/gin-gonic/gin"
)

type ClaimWorkflow interface {
	CreateClaim(ctx context.Context, caller *models.Identity, req models.CreateClaimRequest) (*models.Claim, error)
	GetClaim(ctx context.Context, caller *models.Identity, claimID string) (*models.Claim, error)
	ListPolicyClaims(ctx context.Context, caller *models.Identity, policyID string) ([]*models.Claim, error)
	IssueUploadGrant(ctx context.Context, caller *models.Identity, req models.GenerateLinkRequest) (*models.UploadGrant, string, error)
	ResolveUploadGrant(ctx context.Context, token string) (*models.UploadGrant, error)
	SubmitFile(ctx context.Context, upload services.FileUpload) (*models.UploadedFile, error)
	VerifyClaim(ctx context.Context, caller *models.Identity, claimID string) (*models.VerificationResult, error)
}

type ClaimHandler struct {
	claims ClaimWorkflow
}

func NewClaimHandler(claims ClaimWorkflow) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

func (h *ClaimHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/claim/create", h.CreateClaim)
	r.POST("/claim/generate-link", h.GenerateLink)
	r.POST("/claim/verify", h.VerifyClaim)
	r.GET("/claim/:claimId", h.GetClaim)
	r.GET("/policy/:policyId/claims", h.ListPolicyClaims)
}

func (h *ClaimHandler) CreateClaim(c *gin.Context) {
	var req models.CreateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	claim, err := h.claims.CreateClaim(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "claimId": claim.ID, "claim": claim})
}

func (h *ClaimHandler) GetClaim(c *gin.Context) {
	claim, err := h.claims.GetClaim(c.Request.Context(), identityFrom(c), c.Param("claimId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim": claim})
}

func (h *ClaimHandler) ListPolicyClaims(c *gin.Context) {
	claims, err := h.claims.ListPolicyClaims(c.Request.Context(), identityFrom(c), c.Param("policyId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

func (h *ClaimHandler) GenerateLink(c *gin.Context) {
	var req models.GenerateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	grant, uploadURL, err := h.claims.IssueUploadGrant(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "uploadToken": grant.Token, "uploadUrl": uploadURL})
}

func (h *ClaimHandler) VerifyClaim(c *gin.Context) {
	var req models.VerifyClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request format")
		return
	}

	result, err := h.claims.VerifyClaim(c.Request.Context(), identityFrom(c), req.ClaimID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "verification": result})
}
