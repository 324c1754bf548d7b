package handlers

import (
	"errors"
	"log"
	"net/http"

	"finopschat/db"
	"finopschat/models"
	"finopschat/service"
	"finopschat/validation"

	"github.com/gin-gonic/gin"
)

// PostMessageHandler continues an existing conversation
// @Summary      Send a message
// @Description  Append a user message to the conversation and return the assistant's answer. Drill-down requests ("show as chart", "show as table") are rendered from the previous answer's data without re-querying.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Conversation ID"
// @Param        request  body      models.PostMessageRequest  true  "Message content"
// @Success      200      {object}  map[string]interface{}     "User message and assistant message"
// @Failure      400      {object}  map[string]string          "Invalid request"
// @Failure      404      {object}  map[string]string          "Conversation not found"
// @Failure      500      {object}  map[string]string          "Internal server error"
// @Router       /api/conversations/{id}/messages [post]
func (h *Handlers) PostMessageHandler(c *gin.Context) {
	convID := c.Param("id")
	uid := userID(c)

	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	conversation, err := h.db.GetConversation(uid, convID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		log.Printf("Error loading conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	if !validation.IsValidPrompt(req.Content) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The request appears to be invalid or gibberish. Please provide a meaningful message."})
		return
	}

	userMessage, err := h.db.AppendMessage(convID, "user", req.Content, false, false, nil)
	if err != nil {
		log.Printf("Error storing user message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	var aiResponse *models.AIResponse
	if isDrillDown, _ := service.DetectDrillDown(req.Content); isDrillDown {
		payload, err := h.db.LatestRetainedPayload(convID)
		if err != nil {
			log.Printf("Error loading retained payload: %v", err)
		}
		if payload != nil {
			aiResponse, err = service.AnswerDrillDown(req.Content, payload)
			if err != nil {
				log.Printf("Drill-down failed: %v", err)
				aiResponse = nil
			}
		}
		if aiResponse == nil {
			// No prior data in this conversation, fall through to the
			// canned catalogue keyed on the conversation's category
			aiResponse = service.FallbackResponse(req.Content, conversation.Category)
		}
	} else {
		aiResponse = h.responder.Respond(c.Request.Context(), req.Content, conversation.Category)
	}

	aiMessage, err := h.db.AppendMessage(convID, "assistant",
		aiResponse.Content, aiResponse.HasTable, aiResponse.HasChart, aiResponse.Data)
	if err != nil {
		log.Printf("Error storing assistant message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	// Bump conversation activity
	if err := h.db.SaveConversation(conversation); err != nil {
		log.Printf("Error updating conversation timestamp: %v", err)
	}

	log.Printf("[AUDIT] Query logged: user %s asked %.100q", uid, req.Content)

	c.JSON(http.StatusOK, gin.H{
		"userMessage": userMessage,
		"aiMessage":   aiMessage,
	})
}

// MessageFeedbackHandler records feedback on an assistant message
// @Summary      Rate a message
// @Description  Set or clear thumbs up/down feedback on a message. Feedback must be "up", "down" or null.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Message ID"
// @Param        request  body      models.FeedbackRequest  true  "Feedback value"
// @Success      200      {object}  models.ChatMessage
// @Failure      400      {object}  map[string]string  "Invalid feedback value"
// @Failure      403      {object}  map[string]string  "Not the message owner"
// @Failure      404      {object}  map[string]string  "Message not found"
// @Router       /api/messages/{id}/feedback [patch]
func (h *Handlers) MessageFeedbackHandler(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Feedback != nil && *req.Feedback != "up" && *req.Feedback != "down" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback must be \"up\", \"down\" or null"})
		return
	}

	msgID := c.Param("id")
	message, err := h.db.GetMessage(msgID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		log.Printf("Error loading message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load message"})
		return
	}

	// Ownership check via the parent conversation
	uid := userID(c)
	if _, err := h.db.GetConversation(uid, message.ConversationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only provide feedback on your own messages"})
			return
		}
		log.Printf("Error loading conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify ownership"})
		return
	}

	updated, err := h.db.UpdateMessageFeedback(msgID, req.Feedback)
	if err != nil {
		log.Printf("Error updating feedback: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feedback"})
		return
	}

	feedback := "cleared"
	if req.Feedback != nil {
		feedback = *req.Feedback
	}
	log.Printf("[AUDIT] Message feedback: user %s gave %s feedback on message %s", uid, feedback, msgID)

	c.JSON(http.StatusOK, updated)
}
