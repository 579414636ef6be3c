package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateItemRequest represents the request to create an item.
// Zero reserve price means the item has no reserve.
type CreateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Category      string  `json:"category"`
	Condition     string  `json:"condition"`
	StartingPrice float64 `json:"starting_price" binding:"required"`
	ReservePrice  float64 `json:"reserve_price"`
	BidIncrement  float64 `json:"bid_increment" binding:"required"`
}

// UpdateItemRequest represents the request to update an item
type UpdateItemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Category      string  `json:"category"`
	Condition     string  `json:"condition"`
	StartingPrice float64 `json:"starting_price" binding:"required"`
	ReservePrice  float64 `json:"reserve_price"`
	BidIncrement  float64 `json:"bid_increment" binding:"required"`
}

// ReviewItemRequest represents the moderation decision on an item
type ReviewItemRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

// SetItemPhotosRequest represents the request to replace item photos
type SetItemPhotosRequest struct {
	MediaIDs []string `json:"media_ids"`
}

// CreateClaimRequest represents an auctioneer's claim on an item
type CreateClaimRequest struct {
	ItemID  string `json:"item_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ReviewClaimRequest represents the seller's decision on a claim
type ReviewClaimRequest struct {
	Approve bool   `json:"approve"`
	Message string `json:"message"`
}

// CreateAuctionRequest represents the request to schedule an auction
type CreateAuctionRequest struct {
	ClaimID       string  `json:"claim_id" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	StartingPrice float64 `json:"starting_price" binding:"required"`
	ReservePrice  float64 `json:"reserve_price"`
	BidIncrement  float64 `json:"bid_increment" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       string  `json:"end_time" binding:"required"`
}

// UpdateAuctionRequest represents the request to reschedule an auction
type UpdateAuctionRequest struct {
	Title     string `json:"title" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// UpdateRoleRequest represents the request to update user role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ParseItemID converts string item ID to uuid.UUID
func (r *CreateClaimRequest) ParseItemID() (uuid.UUID, error) {
	return uuid.Parse(r.ItemID)
}

// ParseClaimID converts string claim ID to uuid.UUID
func (r *CreateAuctionRequest) ParseClaimID() (uuid.UUID, error) {
	return uuid.Parse(r.ClaimID)
}

// ParseTimes converts string timestamps to time.Time
func (r *CreateAuctionRequest) ParseTimes() (time.Time, time.Time, error) {
	return parseTimeRange(r.StartTime, r.EndTime)
}

// ParseTimes converts string timestamps to time.Time
func (r *UpdateAuctionRequest) ParseTimes() (time.Time, time.Time, error) {
	return parseTimeRange(r.StartTime, r.EndTime)
}

// ParseMediaIDs converts string UUIDs to uuid.UUID slice
func (r *SetItemPhotosRequest) ParseMediaIDs() ([]uuid.UUID, error) {
	return parseUUIDSlice(r.MediaIDs)
}

// parseTimeRange parses a pair of RFC3339 timestamps
func parseTimeRange(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startTime, endTime, nil
}

// parseUUIDSlice is a helper to convert string slice to UUID slice
func parseUUIDSlice(strs []string) ([]uuid.UUID, error) {
	if strs == nil {
		return nil, nil
	}

	var uuids []uuid.UUID
	for _, str := range strs {
		if str == "" {
			continue
		}
		parsed, err := uuid.Parse(str)
		if err != nil {
			return nil, err
		}
		uuids = append(uuids, parsed)
	}
	return uuids, nil
}
