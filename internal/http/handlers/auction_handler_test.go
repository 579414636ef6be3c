package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuctionHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuctionHandler{auctions: nil}
	r.POST("/auctions", handler.Create)

	req, _ := http.NewRequest("POST", "/auctions", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuctionHandler_Update_InvalidAuctionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", "auctioneer")
		c.Next()
	})
	handler := &AuctionHandler{auctions: nil}
	r.PUT("/auctions/:id", handler.Update)

	req, _ := http.NewRequest("PUT", "/auctions/invalid-uuid", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuctionHandler_Cancel_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuctionHandler{auctions: nil}
	r.POST("/auctions/:id/cancel", handler.Cancel)

	auctionID := uuid.New()
	req, _ := http.NewRequest("POST", "/auctions/"+auctionID.String()+"/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuctionHandler_Get_InvalidAuctionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &AuctionHandler{auctions: nil}
	r.GET("/auctions/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/auctions/invalid-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
