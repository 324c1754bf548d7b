package handlers

import (
	"log"
	"net/http"

	"finopschat/models"
	"finopschat/service"
	"finopschat/validation"

	"github.com/gin-gonic/gin"
)

// ChatHandler starts a new conversation from a natural language question
// @Summary      Ask a financial question
// @Description  Creates a new conversation, answers the question with a SQL-backed analysis and returns the conversation with both messages
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Chat request with message"
// @Header       200      {string}  X-User-ID           "Optional user ID, defaults to admin"
// @Success      200      {object}  map[string]interface{}  "Conversation, user message and assistant message"
// @Failure      400      {object}  map[string]string   "Invalid request"
// @Failure      500      {object}  map[string]string   "Internal server error"
// @Router       /api/chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if !validation.IsValidPrompt(req.Message) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The request appears to be invalid or gibberish. Please provide a meaningful message."})
		return
	}

	uid := userID(c)
	title := service.ConversationTitle(req.Message)
	category := service.CategorizeConversation(req.Message)

	conversation, err := h.db.CreateConversation(uid, title, category)
	if err != nil {
		log.Printf("Error creating conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	userMessage, err := h.db.AppendMessage(conversation.ID, "user", req.Message, false, false, nil)
	if err != nil {
		log.Printf("Error storing user message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	aiResponse := h.responder.Respond(c.Request.Context(), req.Message, category)

	aiMessage, err := h.db.AppendMessage(conversation.ID, "assistant",
		aiResponse.Content, aiResponse.HasTable, aiResponse.HasChart, aiResponse.Data)
	if err != nil {
		log.Printf("Error storing assistant message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store message"})
		return
	}

	log.Printf("[AUDIT] New conversation: user %s started %q", uid, title)
	log.Printf("[AUDIT] Query logged: %.100q", req.Message)

	c.JSON(http.StatusOK, gin.H{
		"conversation": conversation,
		"userMessage":  userMessage,
		"aiMessage":    aiMessage,
	})
}
