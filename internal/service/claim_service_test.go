package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
)

type mockClaimRepo struct {
	mock.Mock
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *models.Claim) error {
	args := m.Called(ctx, claim)
	if args.Error(0) == nil {
		claim.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *mockClaimRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]models.Claim, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *mockClaimRepo) ListByAuctioneer(ctx context.Context, auctioneerID uuid.UUID, limit, offset int) ([]models.Claim, error) {
	args := m.Called(ctx, auctioneerID, limit, offset)
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *mockClaimRepo) HasForItem(ctx context.Context, itemID, auctioneerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID, auctioneerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockClaimRepo) HasApprovedForItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *mockClaimRepo) Review(ctx context.Context, claimID uuid.UUID, approve bool, sellerMessage *string, reviewedAt time.Time) (*models.Claim, error) {
	args := m.Called(ctx, claimID, approve, sellerMessage, reviewedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

type mockItemRepoForClaims struct {
	mock.Mock
}

func (m *mockItemRepoForClaims) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

// recordingNotifier запоминает отправленные уведомления.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	userID uuid.UUID
	event  string
}

func (n *recordingNotifier) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	n.sent = append(n.sent, sentNotification{userID: userID, event: event})
	return nil
}

func TestClaimService_CreateClaim_Success(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	notifier := &recordingNotifier{}
	svc := NewClaimService(claimRepo, itemRepo, notifier)
	ctx := context.Background()

	sellerID := uuid.New()
	auctioneerID := uuid.New()
	itemID := uuid.New()

	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusApproved}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	claimRepo.On("HasApprovedForItem", ctx, itemID).Return(false, nil)
	claimRepo.On("HasForItem", ctx, itemID, auctioneerID).Return(false, nil)
	claimRepo.On("Create", ctx, mock.AnythingOfType("*models.Claim")).Return(nil)

	claim, err := svc.CreateClaim(ctx, auctioneerID, models.RoleAuctioneer, itemID, "Проведу торги по этому лоту")

	assert.NoError(t, err)
	assert.NotNil(t, claim)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Equal(t, auctioneerID, claim.AuctioneerID)

	// Продавец получает уведомление о новой заявке.
	if assert.Len(t, notifier.sent, 1) {
		assert.Equal(t, sellerID, notifier.sent[0].userID)
		assert.Equal(t, "claim.created", notifier.sent[0].event)
	}
}

func TestClaimService_CreateClaim_ForbiddenRole(t *testing.T) {
	svc := NewClaimService(new(mockClaimRepo), new(mockItemRepoForClaims), nil)

	_, err := svc.CreateClaim(context.Background(), uuid.New(), models.RoleUser, uuid.New(), "Проведу торги по этому лоту")
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.CreateClaim(context.Background(), uuid.New(), models.RoleSeller, uuid.New(), "Проведу торги по этому лоту")
	assert.True(t, apperror.IsForbidden(err))
}

func TestClaimService_CreateClaim_ItemNotApproved(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusDraft}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.CreateClaim(ctx, uuid.New(), models.RoleAuctioneer, itemID, "Проведу торги по этому лоту")
	assert.True(t, apperror.IsConflict(err))
}

func TestClaimService_CreateClaim_ItemAlreadyClaimed(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusApproved}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	claimRepo.On("HasApprovedForItem", ctx, itemID).Return(true, nil)

	_, err := svc.CreateClaim(ctx, uuid.New(), models.RoleAuctioneer, itemID, "Проведу торги по этому лоту")
	assert.True(t, apperror.IsConflict(err))
}

func TestClaimService_CreateClaim_Duplicate(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	auctioneerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusApproved}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	claimRepo.On("HasApprovedForItem", ctx, itemID).Return(false, nil)
	// Любая существующая заявка аукциониста по лоту блокирует повторную
	// подачу, в том числе уже отклонённая.
	claimRepo.On("HasForItem", ctx, itemID, auctioneerID).Return(true, nil)

	_, err := svc.CreateClaim(ctx, auctioneerID, models.RoleAuctioneer, itemID, "Проведу торги по этому лоту")
	assert.True(t, apperror.IsConflict(err))
}

func TestClaimService_CreateClaim_MessageTooShort(t *testing.T) {
	svc := NewClaimService(new(mockClaimRepo), new(mockItemRepoForClaims), nil)

	_, err := svc.CreateClaim(context.Background(), uuid.New(), models.RoleAuctioneer, uuid.New(), "коротко")
	assert.True(t, apperror.IsValidation(err))
}

func TestClaimService_ReviewClaim_Approve(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	notifier := &recordingNotifier{}
	svc := NewClaimService(claimRepo, itemRepo, notifier)
	ctx := context.Background()

	reviewedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return reviewedAt }

	sellerID := uuid.New()
	auctioneerID := uuid.New()
	itemID := uuid.New()
	claimID := uuid.New()

	claim := &models.Claim{ID: claimID, ItemID: itemID, AuctioneerID: auctioneerID, Status: models.ClaimStatusPending}
	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusApproved}
	approved := &models.Claim{ID: claimID, ItemID: itemID, AuctioneerID: auctioneerID, Status: models.ClaimStatusApproved}

	claimRepo.On("GetByID", ctx, claimID).Return(claim, nil)
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	claimRepo.On("Review", ctx, claimID, true, (*string)(nil), reviewedAt).Return(approved, nil)

	reviewed, err := svc.ReviewClaim(ctx, claimID, sellerID, models.RoleSeller, true, "")

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, reviewed.Status)

	// Аукционист получает уведомление об итоге рассмотрения.
	if assert.Len(t, notifier.sent, 1) {
		assert.Equal(t, auctioneerID, notifier.sent[0].userID)
		assert.Equal(t, "claim.reviewed", notifier.sent[0].event)
	}
}

func TestClaimService_ReviewClaim_NotSeller(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	itemID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, ItemID: itemID, Status: models.ClaimStatusPending}
	item := &models.Item{ID: itemID, SellerID: uuid.New()}

	claimRepo.On("GetByID", ctx, claimID).Return(claim, nil)
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.ReviewClaim(ctx, claimID, uuid.New(), models.RoleSeller, true, "")
	assert.True(t, apperror.IsForbidden(err))
}

func TestClaimService_ReviewClaim_AlreadyReviewed(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()
	claimID := uuid.New()
	claim := &models.Claim{ID: claimID, ItemID: itemID, Status: models.ClaimStatusPending}
	item := &models.Item{ID: itemID, SellerID: sellerID}

	claimRepo.On("GetByID", ctx, claimID).Return(claim, nil)
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	claimRepo.On("Review", ctx, claimID, false, (*string)(nil), mock.AnythingOfType("time.Time")).
		Return(nil, repository.ErrClaimNotPending)

	_, err := svc.ReviewClaim(ctx, claimID, sellerID, models.RoleSeller, false, "")
	assert.True(t, apperror.IsConflict(err))
}

func TestClaimService_GetClaim_Visibility(t *testing.T) {
	claimRepo := new(mockClaimRepo)
	itemRepo := new(mockItemRepoForClaims)
	svc := NewClaimService(claimRepo, itemRepo, nil)
	ctx := context.Background()

	sellerID := uuid.New()
	auctioneerID := uuid.New()
	itemID := uuid.New()
	claimID := uuid.New()

	claim := &models.Claim{ID: claimID, ItemID: itemID, AuctioneerID: auctioneerID}
	item := &models.Item{ID: itemID, SellerID: sellerID}

	claimRepo.On("GetByID", ctx, claimID).Return(claim, nil)
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

	// Автор заявки видит её без обращения к лоту.
	got, err := svc.GetClaim(ctx, claimID, auctioneerID, models.RoleAuctioneer)
	assert.NoError(t, err)
	assert.Equal(t, claimID, got.ID)

	// Продавец лота тоже.
	got, err = svc.GetClaim(ctx, claimID, sellerID, models.RoleSeller)
	assert.NoError(t, err)
	assert.Equal(t, claimID, got.ID)

	// Посторонний — нет.
	_, err = svc.GetClaim(ctx, claimID, uuid.New(), models.RoleAuctioneer)
	assert.True(t, apperror.IsForbidden(err))
}
