package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/liveauction/auction-backend/internal/service"
)

// SeedHandler обрабатывает запросы для генерации фейковых данных.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedRequest представляет запрос на генерацию данных.
type SeedRequest struct {
	NumUsers int `json:"num_users" form:"num_users"`
	NumItems int `json:"num_items" form:"num_items"`
}

// SeedResponse представляет ответ на запрос генерации данных.
type SeedResponse struct {
	Message  string `json:"message"`
	NumUsers int    `json:"num_users"`
	NumItems int    `json:"num_items"`
}

// Seed генерирует фейковые данные.
// POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	var req SeedRequest

	// Парсим параметры из query или body
	if c.Request.Method == "GET" {
		numUsersStr := c.DefaultQuery("num_users", "50")
		numItemsStr := c.DefaultQuery("num_items", "100")

		var err error
		req.NumUsers, err = strconv.Atoi(numUsersStr)
		if err != nil || req.NumUsers < 1 {
			req.NumUsers = 50
		}

		req.NumItems, err = strconv.Atoi(numItemsStr)
		if err != nil || req.NumItems < 1 {
			req.NumItems = 100
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if req.NumUsers < 1 {
			req.NumUsers = 50
		}
		if req.NumItems < 1 {
			req.NumItems = 100
		}
	}

	if req.NumUsers > 1000 {
		req.NumUsers = 1000
	}
	if req.NumItems > 5000 {
		req.NumItems = 5000
	}

	if err := h.seedService.SeedData(c.Request.Context(), req.NumUsers, req.NumItems); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate seed data",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SeedResponse{
		Message:  "Seed data generated successfully",
		NumUsers: req.NumUsers,
		NumItems: req.NumItems,
	})
}
