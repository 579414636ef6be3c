package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
)

type mockAuctionRepo struct {
	mock.Mock
}

func (m *mockAuctionRepo) Create(ctx context.Context, auction *models.Auction) error {
	args := m.Called(ctx, auction)
	if args.Error(0) == nil {
		auction.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuctionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Auction), args.Error(1)
}

func (m *mockAuctionRepo) GetByClaimID(ctx context.Context, claimID uuid.UUID) (*models.Auction, error) {
	args := m.Called(ctx, claimID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Auction), args.Error(1)
}

func (m *mockAuctionRepo) Update(ctx context.Context, auction *models.Auction) error {
	args := m.Called(ctx, auction)
	return args.Error(0)
}

func (m *mockAuctionRepo) CancelAndReleaseClaim(ctx context.Context, auctionID, claimID uuid.UUID) error {
	args := m.Called(ctx, auctionID, claimID)
	return args.Error(0)
}

func (m *mockAuctionRepo) ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Auction, error) {
	args := m.Called(ctx, auctioneerID, limit, offset)
	return args.Get(0).([]models.Auction), args.Error(1)
}

func (m *mockAuctionRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Auction, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Auction), args.Error(1)
}

type mockClaimRepoForAuctions struct {
	mock.Mock
}

func (m *mockClaimRepoForAuctions) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func newAuctionServiceForTest(repo *mockAuctionRepo, claims *mockClaimRepoForAuctions, now time.Time) *AuctionService {
	svc := NewAuctionService(repo, claims)
	svc.now = func() time.Time { return now }
	return svc
}

func validCreateAuctionInput(now time.Time) CreateAuctionInput {
	start := now.Add(24 * time.Hour)
	return CreateAuctionInput{
		Title:         "Торги по карманным часам Breguet",
		StartingPrice: 1000,
		ReservePrice:  1500,
		BidIncrement:  50,
		StartTime:     start,
		EndTime:       start.Add(4 * time.Hour),
	}
}

func TestAuctionService_CreateAuction_Success(t *testing.T) {
	repo := new(mockAuctionRepo)
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, claims, now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	itemID := uuid.New()
	claimID := uuid.New()

	claim := &models.Claim{ID: claimID, ItemID: itemID, AuctioneerID: auctioneerID, Status: models.ClaimStatusApproved}

	claims.On("GetByID", ctx, claimID).Return(claim, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Auction")).Return(nil)

	in := validCreateAuctionInput(now)
	auction, err := svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, in)

	assert.NoError(t, err)
	assert.NotNil(t, auction)
	assert.Equal(t, models.AuctionStatusScheduled, auction.Status)
	// Название и цены задаёт аукционист при создании.
	assert.Equal(t, in.Title, auction.Title)
	assert.Equal(t, 1000.0, auction.StartingPrice)
	assert.Equal(t, 1500.0, auction.ReservePrice)
	assert.Equal(t, 50.0, auction.BidIncrement)
}

func TestAuctionService_CreateAuction_NoReserve(t *testing.T) {
	repo := new(mockAuctionRepo)
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, claims, now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, ItemID: uuid.New(), AuctioneerID: auctioneerID, Status: models.ClaimStatusApproved}
	claims.On("GetByID", ctx, claimID).Return(claim, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Auction")).Return(nil)

	// Нулевая резервная цена означает торги без резерва и проходит валидацию.
	in := validCreateAuctionInput(now)
	in.ReservePrice = 0

	auction, err := svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, in)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, auction.ReservePrice)
}

func TestAuctionService_CreateAuction_TitleRequired(t *testing.T) {
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(new(mockAuctionRepo), claims, now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, ItemID: uuid.New(), AuctioneerID: auctioneerID, Status: models.ClaimStatusApproved}
	claims.On("GetByID", ctx, claimID).Return(claim, nil)

	in := validCreateAuctionInput(now)
	in.Title = "   "
	_, err := svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, in)
	assert.True(t, apperror.IsValidation(err))

	in.Title = strings.Repeat("а", 201)
	_, err = svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuctionService_CreateAuction_ClaimNotApproved(t *testing.T) {
	repo := new(mockAuctionRepo)
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, claims, now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, AuctioneerID: auctioneerID, Status: models.ClaimStatusPending}
	claims.On("GetByID", ctx, claimID).Return(claim, nil)

	_, err := svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, validCreateAuctionInput(now))
	assert.True(t, apperror.IsConflict(err))
}

func TestAuctionService_CreateAuction_NotClaimOwner(t *testing.T) {
	repo := new(mockAuctionRepo)
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, claims, now)
	ctx := context.Background()

	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, AuctioneerID: uuid.New(), Status: models.ClaimStatusApproved}
	claims.On("GetByID", ctx, claimID).Return(claim, nil)

	_, err := svc.CreateAuction(ctx, uuid.New(), models.RoleAuctioneer, claimID, validCreateAuctionInput(now))
	assert.True(t, apperror.IsForbidden(err))
}

func TestAuctionService_CreateAuction_DuplicateForClaim(t *testing.T) {
	repo := new(mockAuctionRepo)
	claims := new(mockClaimRepoForAuctions)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, claims, now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, ItemID: uuid.New(), AuctioneerID: auctioneerID, Status: models.ClaimStatusApproved}

	claims.On("GetByID", ctx, claimID).Return(claim, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Auction")).Return(repository.ErrAuctionForClaimExists)

	_, err := svc.CreateAuction(ctx, auctioneerID, models.RoleAuctioneer, claimID, validCreateAuctionInput(now))
	assert.True(t, apperror.IsConflict(err))
}

func TestAuctionService_ScheduleValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(new(mockAuctionRepo), new(mockClaimRepoForAuctions), now)

	start := now.Add(24 * time.Hour)

	// Начало в прошлом.
	err := svc.validateSchedule(now.Add(-time.Minute), now.Add(4*time.Hour))
	assert.True(t, apperror.IsValidation(err))

	// Окончание раньше начала.
	err = svc.validateSchedule(start, start.Add(-time.Hour))
	assert.True(t, apperror.IsValidation(err))

	// Короче трёх часов.
	err = svc.validateSchedule(start, start.Add(3*time.Hour-time.Second))
	assert.True(t, apperror.IsValidation(err))

	// Ровно три часа — допустимо.
	assert.NoError(t, svc.validateSchedule(start, start.Add(3*time.Hour)))
}

func TestAuctionService_UpdateAuction_FreezeWindow(t *testing.T) {
	repo := new(mockAuctionRepo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, new(mockClaimRepoForAuctions), now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	auctionID := uuid.New()

	// До начала торгов ровно три часа: расписание уже заморожено.
	auction := &models.Auction{
		ID:           auctionID,
		AuctioneerID: auctioneerID,
		Status:       models.AuctionStatusScheduled,
		StartTime:    now.Add(scheduleFreezeWindow),
		EndTime:      now.Add(scheduleFreezeWindow + 4*time.Hour),
	}
	repo.On("GetByID", ctx, auctionID).Return(auction, nil)

	_, err := svc.UpdateAuction(ctx, auctionID, auctioneerID, models.RoleAuctioneer, AuctionScheduleInput{
		Title:     "Перенесённые торги",
		StartTime: now.Add(48 * time.Hour),
		EndTime:   now.Add(52 * time.Hour),
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestAuctionService_UpdateAuction_Success(t *testing.T) {
	repo := new(mockAuctionRepo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, new(mockClaimRepoForAuctions), now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	auctionID := uuid.New()

	// Аукцион без резервной цены: обновление расписания проходит.
	auction := &models.Auction{
		ID:            auctionID,
		AuctioneerID:  auctioneerID,
		Title:         "Торги по карманным часам Breguet",
		Status:        models.AuctionStatusScheduled,
		StartingPrice: 1000,
		BidIncrement:  50,
		StartTime:     now.Add(scheduleFreezeWindow + time.Second),
		EndTime:       now.Add(scheduleFreezeWindow + 4*time.Hour),
	}
	repo.On("GetByID", ctx, auctionID).Return(auction, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.Auction")).Return(nil)

	newStart := now.Add(48 * time.Hour)
	updated, err := svc.UpdateAuction(ctx, auctionID, auctioneerID, models.RoleAuctioneer, AuctionScheduleInput{
		Title:     "Перенесённые торги по часам Breguet",
		StartTime: newStart,
		EndTime:   newStart.Add(5 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, newStart, updated.StartTime)
	assert.Equal(t, "Перенесённые торги по часам Breguet", updated.Title)
}

func TestAuctionService_UpdateAuction_NotScheduled(t *testing.T) {
	repo := new(mockAuctionRepo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, new(mockClaimRepoForAuctions), now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	auctionID := uuid.New()
	auction := &models.Auction{
		ID:           auctionID,
		AuctioneerID: auctioneerID,
		Status:       models.AuctionStatusOngoing,
		StartTime:    now.Add(-time.Hour),
		EndTime:      now.Add(3 * time.Hour),
	}
	repo.On("GetByID", ctx, auctionID).Return(auction, nil)

	_, err := svc.UpdateAuction(ctx, auctionID, auctioneerID, models.RoleAuctioneer, AuctionScheduleInput{
		Title:     "Перенесённые торги",
		StartTime: now.Add(48 * time.Hour),
		EndTime:   now.Add(52 * time.Hour),
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestAuctionService_CancelAuction_ReleasesClaim(t *testing.T) {
	repo := new(mockAuctionRepo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, new(mockClaimRepoForAuctions), now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	auctionID := uuid.New()
	claimID := uuid.New()
	auction := &models.Auction{
		ID:           auctionID,
		ClaimID:      claimID,
		AuctioneerID: auctioneerID,
		Status:       models.AuctionStatusScheduled,
		StartTime:    now.Add(48 * time.Hour),
		EndTime:      now.Add(52 * time.Hour),
	}
	repo.On("GetByID", ctx, auctionID).Return(auction, nil)
	repo.On("CancelAndReleaseClaim", ctx, auctionID, claimID).Return(nil)

	err := svc.CancelAuction(ctx, auctionID, auctioneerID, models.RoleAuctioneer)

	assert.NoError(t, err)
	repo.AssertCalled(t, "CancelAndReleaseClaim", ctx, auctionID, claimID)
}

func TestAuctionService_CancelAuction_LostRace(t *testing.T) {
	repo := new(mockAuctionRepo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(repo, new(mockClaimRepoForAuctions), now)
	ctx := context.Background()

	auctioneerID := uuid.New()
	auctionID := uuid.New()
	claimID := uuid.New()
	auction := &models.Auction{
		ID:           auctionID,
		ClaimID:      claimID,
		AuctioneerID: auctioneerID,
		Status:       models.AuctionStatusScheduled,
		StartTime:    now.Add(48 * time.Hour),
		EndTime:      now.Add(52 * time.Hour),
	}
	repo.On("GetByID", ctx, auctionID).Return(auction, nil)
	// Обходчик успел запустить аукцион между чтением и отменой.
	repo.On("CancelAndReleaseClaim", ctx, auctionID, claimID).Return(repository.ErrAuctionNotFound)

	err := svc.CancelAuction(ctx, auctionID, auctioneerID, models.RoleAuctioneer)
	assert.True(t, apperror.IsConflict(err))
}

func TestAuctionService_ListAuctions_InvalidStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newAuctionServiceForTest(new(mockAuctionRepo), new(mockClaimRepoForAuctions), now)

	_, err := svc.ListAuctions(context.Background(), "paused", 20, 0)
	assert.True(t, apperror.IsValidation(err))
}
