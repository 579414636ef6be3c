package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/liveauction/auction-backend/internal/models"
	"github.com/liveauction/auction-backend/internal/pkg/apperror"
	"github.com/liveauction/auction-backend/internal/repository"
)

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemRepo) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) SetStatus(ctx context.Context, itemID uuid.UUID, status string, reviewComment *string) error {
	args := m.Called(ctx, itemID, status, reviewComment)
	return args.Error(0)
}

func (m *mockItemRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Item, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Item, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemRepo) SearchApproved(ctx context.Context, params repository.ItemSearchParams) ([]models.Item, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemRepo) CountApproved(ctx context.Context, params repository.ItemSearchParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *mockItemRepo) SetPhotos(ctx context.Context, itemID uuid.UUID, mediaIDs []uuid.UUID) error {
	args := m.Called(ctx, itemID, mediaIDs)
	return args.Error(0)
}

func validItemInput() ItemInput {
	return ItemInput{
		Name:          "Карманные часы Breguet",
		Description:   "Золотые карманные часы конца XIX века в рабочем состоянии.",
		Category:      "антиквариат",
		Condition:     "хорошее",
		StartingPrice: 50000,
		ReservePrice:  80000,
		BidIncrement:  1000,
	}
}

func TestItemService_CreateItem_Success(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	sellerID := uuid.New()
	repo.On("Create", ctx, mock.AnythingOfType("*models.Item")).Return(nil)

	item, err := svc.CreateItem(ctx, sellerID, models.RoleSeller, validItemInput())

	assert.NoError(t, err)
	assert.Equal(t, models.ItemStatusDraft, item.Status)
	assert.Equal(t, sellerID, item.SellerID)
}

func TestItemService_CreateItem_ForbiddenRole(t *testing.T) {
	svc := NewItemService(new(mockItemRepo))

	_, err := svc.CreateItem(context.Background(), uuid.New(), models.RoleUser, validItemInput())
	assert.True(t, apperror.IsForbidden(err))

	_, err = svc.CreateItem(context.Background(), uuid.New(), models.RoleAuctioneer, validItemInput())
	assert.True(t, apperror.IsForbidden(err))
}

func TestItemService_CreateItem_InvalidInput(t *testing.T) {
	svc := NewItemService(new(mockItemRepo))

	in := validItemInput()
	in.Name = "ab"
	_, err := svc.CreateItem(context.Background(), uuid.New(), models.RoleSeller, in)
	assert.True(t, apperror.IsValidation(err))

	in = validItemInput()
	in.StartingPrice = -1
	_, err = svc.CreateItem(context.Background(), uuid.New(), models.RoleSeller, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestItemService_UpdateItem_OnlyDraftOrRejected(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusPendingApproval}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.UpdateItem(ctx, itemID, sellerID, models.RoleSeller, validItemInput())
	assert.True(t, apperror.IsConflict(err))
}

func TestItemService_UpdateItem_NotOwner(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, SellerID: uuid.New(), Status: models.ItemStatusDraft}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.UpdateItem(ctx, itemID, uuid.New(), models.RoleSeller, validItemInput())
	assert.True(t, apperror.IsForbidden(err))
}

func TestItemService_SubmitForApproval(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusDraft}
	repo.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("SetStatus", ctx, itemID, models.ItemStatusPendingApproval, (*string)(nil)).Return(nil)

	submitted, err := svc.SubmitForApproval(ctx, itemID, sellerID, models.RoleSeller)

	assert.NoError(t, err)
	assert.Equal(t, models.ItemStatusPendingApproval, submitted.Status)
}

func TestItemService_ReviewItem_Approve(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusPendingApproval}
	repo.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("SetStatus", ctx, itemID, models.ItemStatusApproved, (*string)(nil)).Return(nil)

	reviewed, err := svc.ReviewItem(ctx, itemID, models.RoleAdmin, true, "")

	assert.NoError(t, err)
	assert.Equal(t, models.ItemStatusApproved, reviewed.Status)
}

func TestItemService_ReviewItem_RejectWithComment(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusPendingApproval}
	repo.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("SetStatus", ctx, itemID, models.ItemStatusRejected, mock.AnythingOfType("*string")).Return(nil)

	reviewed, err := svc.ReviewItem(ctx, itemID, models.RoleAdmin, false, "Недостаточно фотографий")

	assert.NoError(t, err)
	assert.Equal(t, models.ItemStatusRejected, reviewed.Status)
	if assert.NotNil(t, reviewed.ReviewComment) {
		assert.Equal(t, "Недостаточно фотографий", *reviewed.ReviewComment)
	}
}

func TestItemService_ReviewItem_SellerCannotModerate(t *testing.T) {
	svc := NewItemService(new(mockItemRepo))

	_, err := svc.ReviewItem(context.Background(), uuid.New(), models.RoleSeller, true, "")
	assert.True(t, apperror.IsForbidden(err))
}

func TestItemService_ReviewItem_NotPending(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusApproved}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.ReviewItem(ctx, itemID, models.RoleAdmin, true, "")
	assert.True(t, apperror.IsConflict(err))
}

func TestItemService_GetItem_Visibility(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusDraft}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	// Владелец видит черновик.
	got, err := svc.GetItem(ctx, itemID, sellerID, models.RoleSeller)
	assert.NoError(t, err)
	assert.Equal(t, itemID, got.ID)

	// Посторонний — нет, и без раскрытия существования лота.
	_, err = svc.GetItem(ctx, itemID, uuid.New(), models.RoleUser)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemService_SearchCatalog(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	params := repository.ItemSearchParams{Query: "часы", Limit: 20, Offset: 0}
	expected := []models.Item{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("SearchApproved", ctx, params).Return(expected, nil)
	repo.On("CountApproved", ctx, params).Return(42, nil)

	items, total, err := svc.SearchCatalog(ctx, params)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 42, total)
}

func TestItemService_SetPhotos_Limit(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo)
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, SellerID: sellerID, Status: models.ItemStatusDraft}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	mediaIDs := make([]uuid.UUID, 11)
	for i := range mediaIDs {
		mediaIDs[i] = uuid.New()
	}

	err := svc.SetPhotos(ctx, itemID, sellerID, models.RoleSeller, mediaIDs)
	assert.True(t, apperror.IsValidation(err))
}
