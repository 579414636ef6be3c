package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/repository/common"
)

// Ошибки репозитория аукционов.
var (
	ErrAuctionNotFound       = errors.New("auction not found")
	ErrAuctionForClaimExists = errors.New("auction for claim already exists")
)

// AuctionRepository отвечает за работу с таблицей auctions.
type AuctionRepository struct {
	db *sqlx.DB
}

// NewAuctionRepository создаёт экземпляр репозитория.
func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

// Create сохраняет новый аукцион. Уникальное ограничение на claim_id не даёт
// завести второй аукцион по одной заявке.
func (r *AuctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	query := `
		INSERT INTO auctions (claim_id, item_id, auctioneer_id, title, starting_price, reserve_price, bid_increment, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		auction.ClaimID,
		auction.ItemID,
		auction.AuctioneerID,
		auction.Title,
		auction.StartingPrice,
		auction.ReservePrice,
		auction.BidIncrement,
		auction.StartTime,
		auction.EndTime,
		auction.Status,
	).Scan(&auction.ID, &auction.CreatedAt, &auction.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAuctionForClaimExists
		}
		return fmt.Errorf("auction repository: create %w", err)
	}

	return nil
}

// GetByID возвращает аукцион по идентификатору.
func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return common.GetByID[models.Auction](ctx, r.db, "auctions", id, ErrAuctionNotFound)
}

// GetByClaimID возвращает аукцион, созданный по заявке.
func (r *AuctionRepository) GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Auction, error) {
	return common.GetByField[models.Auction](ctx, r.db, "auctions", "claim_id", claimID, ErrAuctionNotFound)
}

// Update обновляет название и расписание аукциона.
func (r *AuctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	query := `
		UPDATE auctions
		SET title = $1, start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		auction.Title,
		auction.StartTime,
		auction.EndTime,
		auction.ID,
	).Scan(&auction.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAuctionNotFound
		}
		return fmt.Errorf("auction repository: update %w", err)
	}

	return nil
}

// AdvanceStatus атомарно переводит аукцион из статуса from в статус to.
// Возвращает false, если строка уже не в статусе from: перевод выполнил
// кто-то другой, и повторять эффекты перехода не нужно.
func (r *AuctionRepository) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	query := `
		UPDATE auctions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("auction repository: advance status %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("auction repository: advance status rows affected %w", err)
	}

	return rowsAffected > 0, nil
}

// CancelAndReleaseClaim отменяет аукцион и удаляет заявку, по которой он был
// создан, одной транзакцией. Лот при этом снова открыт для новых заявок.
func (r *AuctionRepository) CancelAndReleaseClaim(ctx context.Context, auctionID, claimID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("auction repository: cancel begin tx %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE auctions SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		models.AuctionStatusCancelled, auctionID, models.AuctionStatusScheduled,
	)
	if err != nil {
		return fmt.Errorf("auction repository: cancel update %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("auction repository: cancel rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrAuctionNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, claimID); err != nil {
		return fmt.Errorf("auction repository: cancel delete claim %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("auction repository: cancel commit %w", err)
	}

	return nil
}

// ListDueToStart возвращает запланированные аукционы, чьё время начала уже наступило.
func (r *AuctionRepository) ListDueToStart(ctx context.Context) ([]models.Auction, error) {
	query := `
		SELECT id, claim_id, item_id, auctioneer_id, title, starting_price, reserve_price, bid_increment, start_time, end_time, status, winner_id, winning_bid, created_at, updated_at
		FROM auctions
		WHERE status = 'scheduled' AND start_time <= NOW()
		ORDER BY start_time ASC
	`

	var auctions []models.Auction
	if err := r.db.SelectContext(ctx, &auctions, query); err != nil {
		return nil, fmt.Errorf("auction repository: list due to start %w", err)
	}

	return auctions, nil
}

// ListDueToEnd возвращает идущие аукционы, чьё время окончания уже наступило.
func (r *AuctionRepository) ListDueToEnd(ctx context.Context) ([]models.Auction, error) {
	query := `
		SELECT id, claim_id, item_id, auctioneer_id, title, starting_price, reserve_price, bid_increment, start_time, end_time, status, winner_id, winning_bid, created_at, updated_at
		FROM auctions
		WHERE status = 'ongoing' AND end_time <= NOW()
		ORDER BY end_time ASC
	`

	var auctions []models.Auction
	if err := r.db.SelectContext(ctx, &auctions, query); err != nil {
		return nil, fmt.Errorf("auction repository: list due to end %w", err)
	}

	return auctions, nil
}

// ListByAuctioneer возвращает аукционы аукциониста.
func (r *AuctionRepository) ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Auction, error) {
	query := `
		SELECT id, claim_id, item_id, auctioneer_id, title, starting_price, reserve_price, bid_increment, start_time, end_time, status, winner_id, winning_bid, created_at, updated_at
		FROM auctions
		WHERE auctioneer_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`

	var auctions []models.Auction
	if err := r.db.SelectContext(ctx, &auctions, query, auctioneerID, limit, offset); err != nil {
		return nil, fmt.Errorf("auction repository: list by auctioneer %w", err)
	}

	return auctions, nil
}

// ListByStatus возвращает аукционы в указанном статусе.
func (r *AuctionRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Auction, error) {
	query := `
		SELECT id, claim_id, item_id, auctioneer_id, title, starting_price, reserve_price, bid_increment, start_time, end_time, status, winner_id, winning_bid, created_at, updated_at
		FROM auctions
		WHERE status = $1
		ORDER BY start_time ASC
		LIMIT $2 OFFSET $3
	`

	var auctions []models.Auction
	if err := r.db.SelectContext(ctx, &auctions, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("auction repository: list by status %w", err)
	}

	return auctions, nil
}
