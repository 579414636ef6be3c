package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/liveauction/auction-backend/internal/logger"
	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
	"github.com/liveauction/auction-backend/internal/validation"
)

// ClaimRepositoryInterface описывает зависимости ClaimService от слоя хранилища.
type ClaimRepositoryInterface interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Claim, error)
	ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Claim, error)
	HasForItem(ctx context.Context, itemID, auctioneerID uuid.UUID) (bool, error)
	HasApprovedForItem(ctx context.Context, itemID uuid.UUID) (bool, error)
	Review(ctx context.Context, claimID uuid.UUID, approve bool, sellerMessage *string, reviewedAt time.Time) (*models.Claim, error)
}

// ItemRepoForClaims описывает доступ к лотам, нужный сервису заявок.
type ItemRepoForClaims interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// Notifier доставляет уведомления подключённым пользователям.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// ClaimService инкапсулирует арбитраж заявок аукционистов: подачу,
// рассмотрение продавцом и каскадное отклонение соперниц.
type ClaimService struct {
	repo     ClaimRepositoryInterface
	items    ItemRepoForClaims
	notifier Notifier
	now      func() time.Time
}

// NewClaimService создаёт сервис заявок.
func NewClaimService(repo ClaimRepositoryInterface, items ItemRepoForClaims, notifier Notifier) *ClaimService {
	return &ClaimService{
		repo:     repo,
		items:    items,
		notifier: notifier,
		now:      time.Now,
	}
}

// notify отправляет уведомление, если нотификатор подключён. Ошибка доставки
// только логируется.
func (s *ClaimService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BroadcastToUser(userID, event, data); err != nil {
		if logger.Log != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"event":   event,
				"error":   err.Error(),
			}).Warn("claim service: не удалось доставить уведомление")
		}
	}
}

// CreateClaim подаёт заявку аукциониста на проведение торгов по лоту.
func (s *ClaimService) CreateClaim(ctx context.Context, auctioneerID uuid.UUID, role string, itemID uuid.UUID, message string) (*models.Claim, error) {
	if !HasPermission(role, PermClaimItem) {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateClaimMessage(message); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.Status != models.ItemStatusApproved {
		return nil, apperror.New(apperror.ErrCodeConflict, "лот недоступен для заявок")
	}

	approved, err := s.repo.HasApprovedForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if approved {
		return nil, apperror.New(apperror.ErrCodeConflict, "по лоту уже одобрена заявка другого аукциониста")
	}

	// Проверка без блокировки: гонку двух одновременных подач заявки
	// разрешает продавец на этапе рассмотрения, одобрена будет одна.
	exists, err := s.repo.HasForItem(ctx, itemID, auctioneerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.ErrCodeConflict, "у вас уже есть заявка по этому лоту")
	}

	claim := &models.Claim{
		ItemID:       itemID,
		AuctioneerID: auctioneerID,
		Message:      message,
		Status:       models.ClaimStatusPending,
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		return nil, err
	}

	// Продавец узнаёт о новой заявке сразу.
	s.notify(item.SellerID, "claim.created", claim)

	return claim, nil
}

// ReviewClaim рассматривает заявку от имени продавца лота. При одобрении
// остальные ожидающие заявки по лоту отклоняются той же транзакцией, так что
// одобренной остаётся ровно одна.
func (s *ClaimService) ReviewClaim(ctx context.Context, claimID, reviewerID uuid.UUID, role string, approve bool, sellerMessage string) (*models.Claim, error) {
	if !HasPermission(role, PermReviewClaims) {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateReviewMessage(sellerMessage); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, err
	}

	item, err := s.items.GetByID(ctx, claim.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.SellerID != reviewerID && role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	var msg *string
	if sellerMessage != "" {
		msg = &sellerMessage
	}

	reviewed, err := s.repo.Review(ctx, claimID, approve, msg, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClaimNotFound):
			return nil, apperror.ErrClaimNotFound
		case errors.Is(err, repository.ErrClaimNotPending):
			return nil, apperror.New(apperror.ErrCodeConflict, "заявка уже рассмотрена")
		}
		return nil, err
	}

	s.notify(reviewed.AuctioneerID, "claim.reviewed", reviewed)

	return reviewed, nil
}

// GetClaim возвращает заявку. Её видят автор, продавец лота и администратор.
func (s *ClaimService) GetClaim(ctx context.Context, claimID, userID uuid.UUID, role string) (*models.Claim, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, err
	}

	if claim.AuctioneerID == userID || role == models.RoleAdmin {
		return claim, nil
	}

	item, err := s.items.GetByID(ctx, claim.ItemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != userID {
		return nil, apperror.ErrForbidden
	}

	return claim, nil
}

// ListItemClaims возвращает заявки по лоту для его продавца.
func (s *ClaimService) ListItemClaims(ctx context.Context, itemID, userID uuid.UUID, role string) ([]models.Claim, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.SellerID != userID && role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	return s.repo.ListByItem(ctx, itemID)
}

// ListMyClaims возвращает заявки аукциониста.
func (s *ClaimService) ListMyClaims(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Claim, error) {
	limit = normalizeLimit(limit)
	return s.repo.ListByAuctioneer(ctx, auctioneerID, limit, offset)
}

// ItemsForClaims загружает лоты для набора заявок. Лоты, которые не удалось
// найти, в карту не попадают.
func (s *ClaimService) ItemsForClaims(ctx context.Context, claims []models.Claim) (map[uuid.UUID]*models.Item, error) {
	items := make(map[uuid.UUID]*models.Item, len(claims))
	for _, claim := range claims {
		if _, ok := items[claim.ItemID]; ok {
			continue
		}
		item, err := s.items.GetByID(ctx, claim.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				continue
			}
			return nil, err
		}
		items[claim.ItemID] = item
	}
	return items, nil
}
