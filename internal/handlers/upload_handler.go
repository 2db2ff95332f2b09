package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Ghawri/Cattle-insurance-agent/internal/apperr"
	"github.com/Ghawri/Cattle-insurance-agent/internal/services"
	"github.com/Ghawri/Cattle-insurance-agent/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UploadHandler serves the farmer portal. Its routes are anonymous; the upload
// token is the only credential.
type UploadHandler struct {
	claims         ClaimWorkflow
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewUploadHandler(claims ClaimWorkflow, maxUploadBytes int64, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		claims:         claims,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With().Str("component", "upload_handler").Logger(),
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup, limit gin.HandlerFunc) {
	r.GET("/upload/verify/:token", h.VerifyToken)
	if limit != nil {
		r.POST("/upload/file", limit, h.UploadFile)
	} else {
		r.POST("/upload/file", h.UploadFile)
	}
}

func (h *UploadHandler) VerifyToken(c *gin.Context) {
	grant, err := h.claims.ResolveUploadGrant(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, utils.CreateErrorResponse("NOT_FOUND", "Invalid or expired link"))
		case errors.Is(err, apperr.ErrExpired):
			c.AbortWithStatusJSON(http.StatusBadRequest, utils.CreateErrorResponse("EXPIRED", "Link has expired"))
		default:
			writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "claimId": grant.ClaimID})
}

func (h *UploadHandler) UploadFile(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				utils.CreateErrorResponse("PAYLOAD_TOO_LARGE", fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes)))
			return
		}
		header = nil
	}
	token := c.PostForm("token")
	if header == nil || token == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, utils.CreateErrorResponse("VALIDATION_ERROR", "Missing file or token"))
		return
	}

	f, err := header.Open()
	if err != nil {
		writeError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	file, err := h.claims.SubmitFile(c.Request.Context(), services.FileUpload{
		Token:       token,
		FileType:    c.PostForm("fileType"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("file", header.Filename).Msg("evidence upload failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "fileName": file.FileName, "signedUrl": file.SignedURL})
}
