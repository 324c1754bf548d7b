package handlers

import (
	"net/http"

	"finopschat/db"
	"finopschat/service"

	"github.com/gin-gonic/gin"
)

// @title           Financial Operations Chat API
// @version         1.0
// @description     Financial Operations Chat API - Ask natural language questions about fund operations, get SQL-backed answers with tables and charts
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	db        *db.DB
	responder *service.Responder
	store     *service.Store
}

func New(db *db.DB, responder *service.Responder, store *service.Store) *Handlers {
	return &Handlers{
		db:        db,
		responder: responder,
		store:     store,
	}
}

// userID resolves the acting user from the X-User-ID header.
func userID(c *gin.Context) string {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		id = "admin"
	}
	return id
}

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of all services (conversation store, analytical database)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":   "healthy",
		"db":       "connected",
		"postgres": "not_configured",
	}

	if h.store != nil && h.store.IsConnected() {
		status["postgres"] = "connected"
	}

	c.JSON(http.StatusOK, status)
}
