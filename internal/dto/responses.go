package dto

import (
	"github.com/liveauction/auction-backend/internal/models"
)

// ClaimWithItemResponse represents a claim with short info about its item
type ClaimWithItemResponse struct {
	*models.Claim
	Item *ItemShortInfo `json:"item,omitempty"`
}

// ItemShortInfo represents basic item information
type ItemShortInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	StartingPrice float64 `json:"starting_price"`
	Status        string  `json:"status"`
}

// NewItemShortInfo builds short info from an item
func NewItemShortInfo(item *models.Item) *ItemShortInfo {
	return &ItemShortInfo{
		ID:            item.ID.String(),
		Name:          item.Name,
		Category:      item.Category,
		StartingPrice: item.StartingPrice,
		Status:        item.Status,
	}
}

// PaginatedItemsResponse represents paginated catalog list
type PaginatedItemsResponse struct {
	Data       []models.Item `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
