package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// AuctionEvent — сообщение о запуске аукциона для внешнего движка ставок.
type AuctionEvent struct {
	AuctionID     uuid.UUID `json:"auctionId"`
	ItemID        uuid.UUID `json:"itemId"`
	AuctioneerID  uuid.UUID `json:"auctioneerId"`
	StartingPrice float64   `json:"startingPrice"`
	ReservePrice  float64   `json:"reservePrice"`
	BidIncrement  float64   `json:"bidIncrement"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

// Publisher отправляет доменные события во внешний брокер.
type Publisher interface {
	PublishAuctionStarted(event *AuctionEvent) error
}

// NATSPublisher публикует события в NATS. Доставка at-most-once: брокер не
// хранит сообщения, ошибка публикации никогда не откатывает доменную операцию.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher подключается к NATS и возвращает готовый издатель.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("events: nats connect %w", err)
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishAuctionStarted отправляет событие о старте аукциона.
func (p *NATSPublisher) PublishAuctionStarted(event *AuctionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal auction event %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("events: publish auction event %w", err)
	}

	return nil
}

// Close закрывает подключение к брокеру.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}
