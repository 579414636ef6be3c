package models

import (
	"time"

	"github.com/google/uuid"
)

// Item описывает лот, выставляемый продавцом на модерацию и далее на торги.
type Item struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	SellerID      uuid.UUID   `db:"seller_id" json:"seller_id"`
	Name          string      `db:"name" json:"name"`
	Description   string      `db:"description" json:"description"`
	Category      string      `db:"category" json:"category"`
	Condition     string      `db:"condition" json:"condition"`
	StartingPrice float64     `db:"starting_price" json:"starting_price"`
	ReservePrice  float64     `db:"reserve_price" json:"reserve_price"`
	BidIncrement  float64     `db:"bid_increment" json:"bid_increment"`
	Status        string      `db:"status" json:"status"`
	ReviewComment *string     `db:"review_comment" json:"review_comment,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
	Photos        []ItemPhoto `json:"photos,omitempty"`
}

// ItemPhoto описывает фотографию, прикреплённую к лоту.
type ItemPhoto struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ItemID    uuid.UUID  `db:"item_id" json:"item_id"`
	MediaID   uuid.UUID  `db:"media_id" json:"media_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Media     *MediaFile `json:"media,omitempty"`
}
