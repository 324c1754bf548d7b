package handlers

import (
	"errors"
	"log"
	"net/http"

	"finopschat/db"

	"github.com/gin-gonic/gin"
)

// ListConversationsHandler lists the user's conversations
// @Summary      List conversations
// @Description  Get all conversations for the current user, most recently updated first
// @Tags         Conversations
// @Produce      json
// @Success      200  {array}   models.Conversation
// @Failure      500  {object}  map[string]string  "Failed to load conversations"
// @Router       /api/conversations [get]
func (h *Handlers) ListConversationsHandler(c *gin.Context) {
	conversations, err := h.db.ListConversations(userID(c))
	if err != nil {
		log.Printf("Error listing conversations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations"})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// UpdateConversationHandler renames or bookmarks a conversation
// @Summary      Update conversation
// @Description  Update a conversation's title or bookmark flag
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Conversation ID"
// @Param        request  body      object  true  "Fields to update"  example({"title": "Renamed", "isBookmarked": true})
// @Success      200      {object}  models.Conversation
// @Failure      400      {object}  map[string]string  "Invalid request"
// @Failure      404      {object}  map[string]string  "Conversation not found"
// @Router       /api/conversations/{id} [patch]
func (h *Handlers) UpdateConversationHandler(c *gin.Context) {
	var req struct {
		Title        *string `json:"title"`
		IsBookmarked *bool   `json:"isBookmarked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	conversation, err := h.db.GetConversation(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		log.Printf("Error loading conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	if req.Title != nil {
		conversation.Title = *req.Title
	}
	if req.IsBookmarked != nil {
		conversation.IsBookmarked = *req.IsBookmarked
	}

	if err := h.db.SaveConversation(conversation); err != nil {
		log.Printf("Error saving conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update conversation"})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

// DeleteConversationHandler deletes a conversation and its messages
// @Summary      Delete conversation
// @Description  Delete a conversation and all of its messages
// @Tags         Conversations
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  map[string]string  "Conversation deleted"
// @Failure      404  {object}  map[string]string  "Conversation not found"
// @Router       /api/conversations/{id} [delete]
func (h *Handlers) DeleteConversationHandler(c *gin.Context) {
	err := h.db.DeleteConversation(userID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		log.Printf("Error deleting conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}

// GetMessagesHandler returns a conversation's messages
// @Summary      List messages
// @Description  Get all messages of a conversation in chronological order
// @Tags         Messages
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {array}   models.ChatMessage
// @Failure      404  {object}  map[string]string  "Conversation not found"
// @Router       /api/conversations/{id}/messages [get]
func (h *Handlers) GetMessagesHandler(c *gin.Context) {
	convID := c.Param("id")

	if _, err := h.db.GetConversation(userID(c), convID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		log.Printf("Error loading conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	messages, err := h.db.GetMessages(convID)
	if err != nil {
		log.Printf("Error loading messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
