package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
	"github.com/liveauction/auction-backend/internal/validation"
)

// ItemRepositoryInterface описывает зависимости ItemService от слоя хранилища.
type ItemRepositoryInterface interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	SetStatus(ctx context.Context, itemID uuid.UUID, status string, reviewComment *string) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Item, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Item, error)
	SearchApproved(ctx context.Context, params repository.ItemSearchParams) ([]models.Item, error)
	CountApproved(ctx context.Context, params repository.ItemSearchParams) (int, error)
	SetPhotos(ctx context.Context, itemID uuid.UUID, mediaIDs []uuid.UUID) error
}

// ItemService инкапсулирует бизнес-логику лотов: создание, редактирование,
// модерацию и публичный каталог.
type ItemService struct {
	repo ItemRepositoryInterface
}

// ItemInput содержит редактируемые поля лота.
type ItemInput struct {
	Name          string
	Description   string
	Category      string
	Condition     string
	StartingPrice float64
	ReservePrice  float64
	BidIncrement  float64
}

// NewItemService создаёт сервис лотов.
func NewItemService(repo ItemRepositoryInterface) *ItemService {
	return &ItemService{repo: repo}
}

// CreateItem создаёт новый лот в статусе черновика.
func (s *ItemService) CreateItem(ctx context.Context, sellerID uuid.UUID, role string, in ItemInput) (*models.Item, error) {
	if !HasPermission(role, PermCreateItem) {
		return nil, apperror.ErrForbidden
	}

	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	item := &models.Item{
		SellerID:      sellerID,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Condition:     in.Condition,
		StartingPrice: in.StartingPrice,
		ReservePrice:  in.ReservePrice,
		BidIncrement:  in.BidIncrement,
		Status:        models.ItemStatusDraft,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItem обновляет лот. Редактировать можно только черновик или
// отклонённый лот, и только владельцу.
func (s *ItemService) UpdateItem(ctx context.Context, itemID, userID uuid.UUID, role string, in ItemInput) (*models.Item, error) {
	item, err := s.getOwnedItem(ctx, itemID, userID, role, PermEditItem)
	if err != nil {
		return nil, err
	}

	if item.Status != models.ItemStatusDraft && item.Status != models.ItemStatusRejected {
		return nil, apperror.New(apperror.ErrCodeConflict, "лот нельзя редактировать после отправки на модерацию")
	}

	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	item.Name = in.Name
	item.Description = in.Description
	item.Category = in.Category
	item.Condition = in.Condition
	item.StartingPrice = in.StartingPrice
	item.ReservePrice = in.ReservePrice
	item.BidIncrement = in.BidIncrement

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	return item, nil
}

// SubmitForApproval отправляет лот на модерацию.
func (s *ItemService) SubmitForApproval(ctx context.Context, itemID, userID uuid.UUID, role string) (*models.Item, error) {
	item, err := s.getOwnedItem(ctx, itemID, userID, role, PermEditItem)
	if err != nil {
		return nil, err
	}

	if item.Status != models.ItemStatusDraft && item.Status != models.ItemStatusRejected {
		return nil, apperror.New(apperror.ErrCodeConflict, "лот уже отправлен на модерацию")
	}

	if err := s.repo.SetStatus(ctx, item.ID, models.ItemStatusPendingApproval, nil); err != nil {
		return nil, err
	}
	item.Status = models.ItemStatusPendingApproval
	item.ReviewComment = nil

	return item, nil
}

// ReviewItem рассматривает лот на модерации: одобряет или отклоняет.
func (s *ItemService) ReviewItem(ctx context.Context, itemID uuid.UUID, role string, approve bool, comment string) (*models.Item, error) {
	if !HasPermission(role, PermReviewItems) {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateReviewMessage(comment); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.Status != models.ItemStatusPendingApproval {
		return nil, apperror.New(apperror.ErrCodeConflict, "лот не находится на модерации")
	}

	newStatus := models.ItemStatusRejected
	if approve {
		newStatus = models.ItemStatusApproved
	}

	var reviewComment *string
	if comment != "" {
		reviewComment = &comment
	}

	if err := s.repo.SetStatus(ctx, item.ID, newStatus, reviewComment); err != nil {
		return nil, err
	}
	item.Status = newStatus
	item.ReviewComment = reviewComment

	return item, nil
}

// CancelItem снимает лот с продажи по решению владельца.
func (s *ItemService) CancelItem(ctx context.Context, itemID, userID uuid.UUID, role string) error {
	item, err := s.getOwnedItem(ctx, itemID, userID, role, PermEditItem)
	if err != nil {
		return err
	}

	if item.Status == models.ItemStatusCancelled {
		return apperror.New(apperror.ErrCodeConflict, "лот уже снят с продажи")
	}

	return s.repo.SetStatus(ctx, item.ID, models.ItemStatusCancelled, nil)
}

// GetItem возвращает лот. Черновики и лоты на модерации видят только
// владелец и администратор.
func (s *ItemService) GetItem(ctx context.Context, itemID uuid.UUID, userID uuid.UUID, role string) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.Status == models.ItemStatusApproved {
		return item, nil
	}

	// Аукционистам одобренный ранее лот виден и после ухода из каталога.
	if item.SellerID == userID || role == models.RoleAdmin || role == models.RoleAuctioneer {
		return item, nil
	}

	return nil, apperror.ErrItemNotFound
}

// ListMyItems возвращает лоты продавца.
func (s *ItemService) ListMyItems(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Item, error) {
	limit = normalizeLimit(limit)
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// ListPendingReview возвращает очередь модерации.
func (s *ItemService) ListPendingReview(ctx context.Context, role string, limit, offset int) ([]models.Item, error) {
	if !HasPermission(role, PermReviewItems) {
		return nil, apperror.ErrForbidden
	}
	limit = normalizeLimit(limit)
	return s.repo.ListByStatus(ctx, models.ItemStatusPendingApproval, limit, offset)
}

// SearchCatalog ищет одобренные лоты для публичного каталога.
func (s *ItemService) SearchCatalog(ctx context.Context, params repository.ItemSearchParams) ([]models.Item, int, error) {
	params.Limit = normalizeLimit(params.Limit)
	if params.Offset < 0 {
		params.Offset = 0
	}

	items, err := s.repo.SearchApproved(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountApproved(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// SetPhotos заменяет фотографии лота.
func (s *ItemService) SetPhotos(ctx context.Context, itemID, userID uuid.UUID, role string, mediaIDs []uuid.UUID) error {
	if _, err := s.getOwnedItem(ctx, itemID, userID, role, PermEditItem); err != nil {
		return err
	}

	if len(mediaIDs) > 10 {
		return apperror.New(apperror.ErrCodeValidation, "к лоту можно прикрепить не более 10 фотографий")
	}

	return s.repo.SetPhotos(ctx, itemID, mediaIDs)
}

// getOwnedItem загружает лот и проверяет право на его изменение.
func (s *ItemService) getOwnedItem(ctx context.Context, itemID, userID uuid.UUID, role, permission string) (*models.Item, error) {
	if !HasPermission(role, permission) {
		return nil, apperror.ErrForbidden
	}

	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.SellerID != userID && role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	return item, nil
}

// validateItemInput проверяет поля лота и оборачивает ошибки в доменный тип.
func validateItemInput(in ItemInput) error {
	if err := validation.ValidateItemName(in.Name); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateItemDescription(in.Description); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("категория", in.Category, 0, validation.MaxCategoryLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("состояние", in.Condition, 0, validation.MaxConditionLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrices(in.StartingPrice, in.ReservePrice, in.BidIncrement); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// normalizeLimit приводит лимит пагинации к допустимому диапазону.
func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
