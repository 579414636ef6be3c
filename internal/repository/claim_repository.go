package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/repository/common"
)

// Ошибки репозитория заявок.
var (
	ErrClaimNotFound   = errors.New("claim not found")
	ErrClaimNotPending = errors.New("claim is not pending")
)

// CascadeRejectMessage записывается отклонённым заявкам-соперницам при одобрении.
const CascadeRejectMessage = "Заявка другого аукциониста была одобрена."

// ClaimRepository отвечает за работу с таблицей claims.
type ClaimRepository struct {
	db *sqlx.DB
}

// NewClaimRepository создаёт экземпляр репозитория.
func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create сохраняет новую заявку аукциониста.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (item_id, auctioneer_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		claim.ItemID, claim.AuctioneerID, claim.Message, claim.Status,
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt); err != nil {
		return fmt.Errorf("claim repository: create %w", err)
	}

	return nil
}

// GetByID возвращает заявку по идентификатору.
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	return common.GetByID[models.Claim](ctx, r.db, "claims", id, ErrClaimNotFound)
}

// ListByItem возвращает все заявки по лоту.
func (r *ClaimRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Claim, error) {
	query := `
		SELECT id, item_id, auctioneer_id, message, status, seller_message, reviewed_at, created_at, updated_at
		FROM claims
		WHERE item_id = $1
		ORDER BY created_at ASC
	`

	var claims []models.Claim
	if err := r.db.SelectContext(ctx, &claims, query, itemID); err != nil {
		return nil, fmt.Errorf("claim repository: list by item %w", err)
	}

	return claims, nil
}

// ListByAuctioneer возвращает заявки аукциониста.
func (r *ClaimRepository) ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Claim, error) {
	query := `
		SELECT id, item_id, auctioneer_id, message, status, seller_message, reviewed_at, created_at, updated_at
		FROM claims
		WHERE auctioneer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var claims []models.Claim
	if err := r.db.SelectContext(ctx, &claims, query, auctioneerID, limit, offset); err != nil {
		return nil, fmt.Errorf("claim repository: list by auctioneer %w", err)
	}

	return claims, nil
}

// HasForItem проверяет, есть ли у аукциониста заявка по лоту. Статус не
// учитывается: отклонённая заявка тоже блокирует повторную подачу, лот
// открывается заново только удалением заявки при отмене аукциона.
func (r *ClaimRepository) HasForItem(ctx context.Context, itemID, auctioneerID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE item_id = $1 AND auctioneer_id = $2
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, itemID, auctioneerID); err != nil {
		return false, fmt.Errorf("claim repository: has for item %w", err)
	}

	return exists, nil
}

// HasApprovedForItem проверяет, одобрена ли уже какая-либо заявка по лоту.
func (r *ClaimRepository) HasApprovedForItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM claims WHERE item_id = $1 AND status = 'approved')`
	if err := r.db.GetContext(ctx, &exists, query, itemID); err != nil {
		return false, fmt.Errorf("claim repository: has approved for item %w", err)
	}

	return exists, nil
}

// Review рассматривает заявку в одной транзакции. Строка заявки блокируется
// через SELECT ... FOR UPDATE, чтобы два одновременных решения по одному лоту
// не одобрили двух аукционистов. При одобрении все остальные ожидающие заявки
// по тому же лоту отклоняются той же транзакцией.
func (r *ClaimRepository) Review(ctx context.Context, claimID uuid.UUID, approve bool, sellerMessage *string, reviewedAt time.Time) (*models.Claim, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("claim repository: review begin tx %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var claim models.Claim
	lockQuery := `
		SELECT id, item_id, auctioneer_id, message, status, seller_message, reviewed_at, created_at, updated_at
		FROM claims
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &claim, lockQuery, claimID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("claim repository: review lock %w", err)
	}

	// Повторное решение по уже рассмотренной заявке запрещено.
	if claim.Status != models.ClaimStatusPending {
		return nil, ErrClaimNotPending
	}

	newStatus := models.ClaimStatusRejected
	if approve {
		newStatus = models.ClaimStatusApproved
	}

	updateQuery := `
		UPDATE claims
		SET status = $1, seller_message = $2, reviewed_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING status, seller_message, reviewed_at, updated_at
	`
	if err := tx.QueryRowxContext(ctx, updateQuery, newStatus, sellerMessage, reviewedAt, claimID).Scan(
		&claim.Status, &claim.SellerMessage, &claim.ReviewedAt, &claim.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("claim repository: review update %w", err)
	}

	if approve {
		cascadeQuery := `
			UPDATE claims
			SET status = $1, seller_message = $2, reviewed_at = $3, updated_at = NOW()
			WHERE item_id = $4 AND status = $5 AND id <> $6
		`
		if _, err := tx.ExecContext(
			ctx, cascadeQuery,
			models.ClaimStatusRejected,
			CascadeRejectMessage,
			reviewedAt,
			claim.ItemID,
			models.ClaimStatusPending,
			claimID,
		); err != nil {
			return nil, fmt.Errorf("claim repository: review cascade %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("claim repository: review commit %w", err)
	}

	return &claim, nil
}
