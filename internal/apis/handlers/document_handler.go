package handlers

import (
	"docuchat-ai/internal/apis/dtos"
	"docuchat-ai/internal/services"
	"docuchat-ai/internal/utils"
	"docuchat-ai/pkg/blobstore"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	processingService services.DocumentProcessingService
}

func NewDocumentHandler(processingService services.DocumentProcessingService) *DocumentHandler {
	return &DocumentHandler{
		processingService: processingService,
	}
}

// @Summary Upload a document
// @Description Upload a document and run the processing pipeline
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Param sessionId formData string true "Session ID"

func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.DocumentUploadResponse{
			Status:  "error",
			Message: "No file provided",
		})
		return
	}

	sessionID := c.PostForm("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dtos.DocumentUploadResponse{
			Status:  "error",
			Message: "No session ID provided",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dtos.DocumentUploadResponse{
			Status:  "error",
			Message: "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	input := blobstore.UploadInput{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	}

	result := h.processingService.ProcessDocument(c.Request.Context(), input, sessionID)
	if !result.Success {
		message := "Failed to process document"
		if result.Error != nil {
			message = *result.Error
		}
		c.JSON(http.StatusInternalServerError, dtos.DocumentUploadResponse{
			Status:  "error",
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, dtos.DocumentUploadResponse{
		Status:  "success",
		Message: "Document uploaded and processed successfully",
		Data: &dtos.DocumentUploadData{
			DocumentID:   result.DocumentID,
			DocumentName: result.DocumentName,
			Summary:      result.Summary,
			Topics:       result.Topics,
		},
	})
}

// @Summary Get document summary
// @Description Get the stored summary for a session's document
// @Accept json
// @Produce json
// @Param sessionId query string true "Session ID"

func (h *DocumentHandler) GetSummary(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   utils.ToStringPtr("sessionId is required"),
		})
		return
	}

	summary, err := h.processingService.GetDocumentSummary(c.Request.Context(), sessionID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusInternalServerError, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	if summary == "" {
		c.JSON(http.StatusNotFound, dtos.Response{
			Success: false,
			Error:   utils.ToStringPtr("no summary found for session"),
		})
		return
	}

	c.JSON(http.StatusOK, dtos.Response{
		Success: true,
		Data:    dtos.DocumentSummaryResponse{Summary: summary},
	})
}
