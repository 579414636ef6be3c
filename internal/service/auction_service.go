package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
	"github.com/liveauction/auction-backend/internal/validation"
)

// Ограничения расписания торгов.
const (
	// Минимальная длительность аукциона.
	minAuctionDuration = 3 * time.Hour
	// За это время до начала торгов расписание замораживается:
	// редактирование и отмена запрещены.
	scheduleFreezeWindow = 3 * time.Hour
)

// AuctionRepositoryInterface описывает зависимости AuctionService от слоя хранилища.
type AuctionRepositoryInterface interface {
	Create(ctx context.Context, auction *models.Auction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Auction, error)
	Update(ctx context.Context, auction *models.Auction) error
	CancelAndReleaseClaim(ctx context.Context, auctionID, claimID uuid.UUID) error
	ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Auction, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Auction, error)
}

// ClaimRepoForAuctions описывает доступ к заявкам, нужный сервису аукционов.
type ClaimRepoForAuctions interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error)
}

// AuctionService управляет жизненным циклом аукциона от создания по
// одобренной заявке до отмены.
type AuctionService struct {
	repo   AuctionRepositoryInterface
	claims ClaimRepoForAuctions
	now    func() time.Time
}

// CreateAuctionInput содержит параметры создаваемого аукциона. Цены задаёт
// аукционист; нулевая резервная цена означает торги без резерва.
type CreateAuctionInput struct {
	Title         string
	StartingPrice float64
	ReservePrice  float64
	BidIncrement  float64
	StartTime     time.Time
	EndTime       time.Time
}

// AuctionScheduleInput содержит редактируемые параметры запланированного
// аукциона.
type AuctionScheduleInput struct {
	Title     string
	StartTime time.Time
	EndTime   time.Time
}

// NewAuctionService создаёт сервис аукционов.
func NewAuctionService(repo AuctionRepositoryInterface, claims ClaimRepoForAuctions) *AuctionService {
	return &AuctionService{
		repo:   repo,
		claims: claims,
		now:    time.Now,
	}
}

// CreateAuction создаёт аукцион по одобренной заявке. Уникальность аукциона
// на заявку обеспечивает база.
func (s *AuctionService) CreateAuction(ctx context.Context, userID uuid.UUID, role string, claimID uuid.UUID, in CreateAuctionInput) (*models.Auction, error) {
	if !HasPermission(role, PermCreateAuction) {
		return nil, apperror.ErrForbidden
	}

	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, err
	}

	if claim.AuctioneerID != userID && role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	if claim.Status != models.ClaimStatusApproved {
		return nil, apperror.New(apperror.ErrCodeConflict, "аукцион можно создать только по одобренной заявке")
	}

	if err := validation.ValidateAuctionTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if err := validation.ValidatePrices(in.StartingPrice, in.ReservePrice, in.BidIncrement); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if err := s.validateSchedule(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	auction := &models.Auction{
		ClaimID:       claim.ID,
		ItemID:        claim.ItemID,
		AuctioneerID:  claim.AuctioneerID,
		Title:         in.Title,
		StartingPrice: in.StartingPrice,
		ReservePrice:  in.ReservePrice,
		BidIncrement:  in.BidIncrement,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Status:        models.AuctionStatusScheduled,
	}

	if err := s.repo.Create(ctx, auction); err != nil {
		if errors.Is(err, repository.ErrAuctionForClaimExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "по этой заявке уже создан аукцион")
		}
		return nil, err
	}

	return auction, nil
}

// UpdateAuction меняет название и расписание запланированного аукциона.
func (s *AuctionService) UpdateAuction(ctx context.Context, auctionID, userID uuid.UUID, role string, in AuctionScheduleInput) (*models.Auction, error) {
	auction, err := s.getEditableAuction(ctx, auctionID, userID, role, PermEditAuction)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateAuctionTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if err := s.validateSchedule(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	auction.Title = in.Title
	auction.StartTime = in.StartTime
	auction.EndTime = in.EndTime

	if err := s.repo.Update(ctx, auction); err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperror.ErrAuctionNotFound
		}
		return nil, err
	}

	return auction, nil
}

// CancelAuction отменяет запланированный аукцион и освобождает лот:
// заявка, по которой он был создан, удаляется той же транзакцией.
func (s *AuctionService) CancelAuction(ctx context.Context, auctionID, userID uuid.UUID, role string) error {
	auction, err := s.getEditableAuction(ctx, auctionID, userID, role, PermCancelAuction)
	if err != nil {
		return err
	}

	if err := s.repo.CancelAndReleaseClaim(ctx, auction.ID, auction.ClaimID); err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return apperror.New(apperror.ErrCodeConflict, "аукцион уже изменил статус")
		}
		return err
	}

	return nil
}

// GetAuction возвращает аукцион по идентификатору.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*models.Auction, error) {
	auction, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperror.ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

// ListMyAuctions возвращает аукционы аукциониста.
func (s *AuctionService) ListMyAuctions(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Auction, error) {
	limit = normalizeLimit(limit)
	return s.repo.ListByAuctioneer(ctx, auctioneerID, limit, offset)
}

// ListAuctions возвращает аукционы в указанном статусе.
func (s *AuctionService) ListAuctions(ctx context.Context, status string, limit, offset int) ([]models.Auction, error) {
	if _, ok := models.ValidAuctionStatuses[status]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус аукциона")
	}
	limit = normalizeLimit(limit)
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// getEditableAuction загружает аукцион и проверяет, что его ещё можно менять:
// статус scheduled и до начала торгов больше окна заморозки.
func (s *AuctionService) getEditableAuction(ctx context.Context, auctionID, userID uuid.UUID, role, permission string) (*models.Auction, error) {
	if !HasPermission(role, permission) {
		return nil, apperror.ErrForbidden
	}

	auction, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperror.ErrAuctionNotFound
		}
		return nil, err
	}

	if auction.AuctioneerID != userID && role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	if auction.Status != models.AuctionStatusScheduled {
		return nil, apperror.New(apperror.ErrCodeConflict, "изменять можно только запланированный аукцион")
	}

	if !s.now().Before(auction.StartTime.Add(-scheduleFreezeWindow)) {
		return nil, apperror.New(apperror.ErrCodeConflict, "до начала торгов меньше трёх часов, расписание заморожено")
	}

	return auction, nil
}

// validateSchedule проверяет времена начала и окончания торгов.
func (s *AuctionService) validateSchedule(startTime, endTime time.Time) error {
	now := s.now()
	if !startTime.After(now) {
		return apperror.New(apperror.ErrCodeValidation, "время начала торгов должно быть в будущем")
	}
	if !endTime.After(startTime) {
		return apperror.New(apperror.ErrCodeValidation, "время окончания торгов должно быть позже начала")
	}
	if endTime.Sub(startTime) < minAuctionDuration {
		return apperror.New(apperror.ErrCodeValidation, "аукцион должен длиться не менее трёх часов")
	}
	return nil
}
