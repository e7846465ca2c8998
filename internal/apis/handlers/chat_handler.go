package handlers

import (
	"docuchat-ai/internal/apis/dtos"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/models"
	"docuchat-ai/internal/services"
	"docuchat-ai/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// @Summary Create a new chat session
// @Description Create a new chat session for a document
// @Accept json
// @Produce json
// @Param createSessionRequest body dtos.CreateSessionRequest true "Create session request"
// @Success 200 {object} dtos.Response

func (h *ChatHandler) Create(c *gin.Context) {
	var req dtos.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	response, statusCode, err := h.chatService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Get sessions
// @Description Restore one session by id, or list sessions (optionally by user)
// @Accept json
// @Produce json
// @Param sessionId query string false "Session ID"
// @Param userId query string false "User ID"

func (h *ChatHandler) GetSessions(c *gin.Context) {
	if sessionID := c.Query("sessionId"); sessionID != "" {
		response, statusCode, err := h.chatService.RestoreSession(c.Request.Context(), sessionID)
		if err != nil {
			errorMsg := err.Error()
			c.JSON(int(statusCode), dtos.Response{
				Success: false,
				Error:   &errorMsg,
			})
			return
		}

		// Unknown ids are not an error: the response carries success=false so
		// the client can start a fresh session.
		c.JSON(int(statusCode), response)
		return
	}

	var userID *string
	if id := c.Query("userId"); id != "" {
		userID = &id
	}

	response, statusCode, err := h.chatService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Delete a session
// @Description Delete a chat session by its ID
// @Accept json
// @Produce json
// @Param id path string true "Session ID"

func (h *ChatHandler) Delete(c *gin.Context) {
	sessionID := c.Param("id")

	deleted, statusCode, err := h.chatService.DeleteSession(c.Request.Context(), sessionID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, dtos.Response{
			Success: false,
			Error:   utils.ToStringPtr("session not found"),
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Session deleted successfully",
	})
}

// @Summary Initialize a session
// @Description Create the session for a document and seed the welcome message
// @Accept json
// @Produce json
// @Param id path string true "Session ID"

func (h *ChatHandler) Initialize(c *gin.Context) {
	sessionID := c.Param("id")

	var req dtos.InitializeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	response, statusCode, err := h.chatService.InitializeSession(c.Request.Context(), sessionID, req.DocumentName)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Save a message
// @Description Append a message to a session's transcript
// @Accept json
// @Produce json
// @Param id path string true "Session ID"

func (h *ChatHandler) SaveMessage(c *gin.Context) {
	sessionID := c.Param("id")

	var req dtos.SaveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	message := models.Message{
		ID:        req.ID,
		Content:   req.Content,
		IsUser:    req.IsUser,
		Citations: req.Citations,
	}

	response, statusCode, err := h.chatService.SaveMessage(c.Request.Context(), sessionID, message)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Generate a response
// @Description Generate a grounded assistant response for a session
// @Accept json
// @Produce json
// @Param id path string true "Session ID"

func (h *ChatHandler) Respond(c *gin.Context) {
	sessionID := c.Param("id")

	var req dtos.GenerateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	result := h.chatService.GenerateContextualResponse(c.Request.Context(), sessionID, req.UserMessage, req.ConversationHistory)

	// Non-OK outcomes still render as a successful HTTP exchange with the
	// fallback reply; the client always has something to show.
	if result.Status != services.ResponseStatusOK {
		c.JSON(http.StatusOK, dtos.GenerateResponseResponse{
			Success:   true,
			Response:  constants.FallbackResponse,
			Citations: []string{},
			Sources:   []models.DocumentSearchResult{},
		})
		return
	}

	c.JSON(http.StatusOK, dtos.GenerateResponseResponse{
		Success:   true,
		Response:  result.Response,
		Citations: result.Citations,
		Sources:   result.Sources,
	})
}
