package models

import (
	"time"

	"github.com/google/uuid"
)

// Auction описывает торги по одобренной заявке аукциониста.
// На одну заявку может существовать не более одного аукциона,
// это закреплено уникальным ограничением на claim_id.
type Auction struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ClaimID       uuid.UUID `db:"claim_id" json:"claim_id"`
	ItemID        uuid.UUID `db:"item_id" json:"item_id"`
	AuctioneerID  uuid.UUID `db:"auctioneer_id" json:"auctioneer_id"`
	Title         string    `db:"title" json:"title"`
	StartingPrice float64   `db:"starting_price" json:"starting_price"`
	ReservePrice  float64   `db:"reserve_price" json:"reserve_price"`
	BidIncrement  float64   `db:"bid_increment" json:"bid_increment"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	Status        string    `db:"status" json:"status"`
	// Поля победителя заполняет внешний движок ставок, этот сервис их не пишет.
	WinnerID   *uuid.UUID `db:"winner_id" json:"winner_id,omitempty"`
	WinningBid *float64   `db:"winning_bid" json:"winning_bid,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
