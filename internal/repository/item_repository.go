package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/repository/common"
)

// ErrItemNotFound возвращается, когда лот не найден.
var ErrItemNotFound = errors.New("item not found")

// ItemRepository отвечает за работу с таблицами items и item_photos.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository создаёт экземпляр репозитория.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create сохраняет новый лот.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (seller_id, name, description, category, condition, starting_price, reserve_price, bid_increment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.SellerID,
		item.Name,
		item.Description,
		item.Category,
		item.Condition,
		item.StartingPrice,
		item.ReservePrice,
		item.BidIncrement,
		item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("item repository: create %w", err)
	}

	return nil
}

// GetByID возвращает лот по идентификатору вместе с фотографиями.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	query := `
		SELECT id, seller_id, name, description, category, condition, starting_price, reserve_price, bid_increment, status, review_comment, created_at, updated_at
		FROM items
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("item repository: get by id %w", err)
	}

	photos, err := r.ListPhotos(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.Photos = photos

	return &item, nil
}

// Update обновляет редактируемые поля лота.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, category = $3, condition = $4,
			starting_price = $5, reserve_price = $6, bid_increment = $7,
			status = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.Name,
		item.Description,
		item.Category,
		item.Condition,
		item.StartingPrice,
		item.ReservePrice,
		item.BidIncrement,
		item.Status,
		item.ID,
	).Scan(&item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("item repository: update %w", err)
	}

	return nil
}

// SetStatus переводит лот в новый статус с комментарием модератора.
func (r *ItemRepository) SetStatus(ctx context.Context, itemID uuid.UUID, status string, reviewComment *string) error {
	query := `
		UPDATE items
		SET status = $1, review_comment = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, reviewComment, itemID)
	if err != nil {
		return fmt.Errorf("item repository: set status %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("item repository: set status rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// ListBySeller возвращает лоты продавца.
func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Item, error) {
	query := `
		SELECT id, seller_id, name, description, category, condition, starting_price, reserve_price, bid_increment, status, review_comment, created_at, updated_at
		FROM items
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, sellerID, limit, offset); err != nil {
		return nil, fmt.Errorf("item repository: list by seller %w", err)
	}

	return items, nil
}

// ListByStatus возвращает лоты в указанном статусе (для очереди модерации).
func (r *ItemRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Item, error) {
	query := `
		SELECT id, seller_id, name, description, category, condition, starting_price, reserve_price, bid_increment, status, review_comment, created_at, updated_at
		FROM items
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("item repository: list by status %w", err)
	}

	return items, nil
}

// ItemSearchParams параметры поиска одобренных лотов.
type ItemSearchParams struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

// SearchApproved ищет одобренные лоты по названию, описанию и категории.
func (r *ItemRepository) SearchApproved(ctx context.Context, params ItemSearchParams) ([]models.Item, error) {
	query := `
		SELECT id, seller_id, name, description, category, condition, starting_price, reserve_price, bid_increment, status, review_comment, created_at, updated_at
		FROM items
		WHERE status = 'approved'
	`
	args := []interface{}{}
	argNum := 1

	if params.Query != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, argNum, argNum)
		args = append(args, "%"+params.Query+"%")
		argNum++
	}
	if params.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argNum)
		args = append(args, params.Category)
		argNum++
	}

	query += ` ORDER BY created_at DESC`
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, params.Limit, params.Offset)

	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("item repository: search approved %w", err)
	}

	return items, nil
}

// CountApproved возвращает количество одобренных лотов по тем же фильтрам поиска.
func (r *ItemRepository) CountApproved(ctx context.Context, params ItemSearchParams) (int, error) {
	query := `SELECT COUNT(*) FROM items WHERE status = 'approved'`
	args := []interface{}{}
	argNum := 1

	if params.Query != "" {
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, argNum, argNum)
		args = append(args, "%"+params.Query+"%")
		argNum++
	}
	if params.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argNum)
		args = append(args, params.Category)
		argNum++
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("item repository: count approved %w", err)
	}

	return count, nil
}

// SetPhotos заменяет набор фотографий лота в одной транзакции.
func (r *ItemRepository) SetPhotos(ctx context.Context, itemID uuid.UUID, mediaIDs []uuid.UUID) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_photos WHERE item_id = $1`, itemID); err != nil {
			return fmt.Errorf("set photos delete: %w", err)
		}

		inserter := common.NewBatchInserter(tx, `INSERT INTO item_photos (item_id, media_id)`, 2, 100)
		for _, mediaID := range mediaIDs {
			if err := inserter.Add(ctx, itemID, mediaID); err != nil {
				return fmt.Errorf("set photos insert: %w", err)
			}
		}
		return inserter.Flush(ctx)
	})
	if err != nil {
		return fmt.Errorf("item repository: %w", err)
	}

	return nil
}

// ListPhotos возвращает фотографии лота вместе с данными файлов.
func (r *ItemRepository) ListPhotos(ctx context.Context, itemID uuid.UUID) ([]models.ItemPhoto, error) {
	query := `
		SELECT ip.id, ip.item_id, ip.media_id, ip.created_at,
			m.id, m.file_path, m.file_type, m.file_size, m.is_public, m.created_at
		FROM item_photos ip
		INNER JOIN media_files m ON m.id = ip.media_id
		WHERE ip.item_id = $1
		ORDER BY ip.created_at ASC
	`

	rows, err := r.db.QueryxContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("item repository: list photos %w", err)
	}
	defer rows.Close()

	var photos []models.ItemPhoto
	for rows.Next() {
		var photo models.ItemPhoto
		var media models.MediaFile
		if err := rows.Scan(
			&photo.ID, &photo.ItemID, &photo.MediaID, &photo.CreatedAt,
			&media.ID, &media.FilePath, &media.FileType,
			&media.FileSize, &media.IsPublic, &media.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("item repository: scan photo %w", err)
		}
		photo.Media = &media
		photos = append(photos, photo)
	}

	return photos, nil
}
