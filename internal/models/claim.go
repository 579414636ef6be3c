package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim представляет заявку аукциониста на проведение торгов по лоту.
// Для одного лота может быть одобрена только одна заявка.
type Claim struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ItemID        uuid.UUID  `db:"item_id" json:"item_id"`
	AuctioneerID  uuid.UUID  `db:"auctioneer_id" json:"auctioneer_id"`
	Message       string     `db:"message" json:"message"`
	Status        string     `db:"status" json:"status"`
	SellerMessage *string    `db:"seller_message" json:"seller_message,omitempty"`
	ReviewedAt    *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
