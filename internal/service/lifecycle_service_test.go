package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/liveauction/auction-backend/internal/events"
	"github.com/liveauction/auction-backend/internal/models"
)

type mockLifecycleRepo struct {
	mock.Mock
}

func (m *mockLifecycleRepo) ListDueToStart(ctx context.Context) ([]models.Auction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Auction), args.Error(1)
}

func (m *mockLifecycleRepo) ListDueToEnd(ctx context.Context) ([]models.Auction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Auction), args.Error(1)
}

func (m *mockLifecycleRepo) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// capturingPublisher запоминает опубликованные события.
type capturingPublisher struct {
	events []*events.AuctionEvent
	err    error
}

func (p *capturingPublisher) PublishAuctionStarted(event *events.AuctionEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func TestLifecycleService_Sweep_StartsDueAuctions(t *testing.T) {
	repo := new(mockLifecycleRepo)
	publisher := &capturingPublisher{}
	svc := NewLifecycleService(repo, publisher, time.Minute)
	ctx := context.Background()

	first := models.Auction{ID: uuid.New(), ItemID: uuid.New(), AuctioneerID: uuid.New(), StartingPrice: 1000}
	second := models.Auction{ID: uuid.New(), ItemID: uuid.New(), AuctioneerID: uuid.New(), StartingPrice: 500}

	repo.On("ListDueToStart", ctx).Return([]models.Auction{first, second}, nil)
	repo.On("ListDueToEnd", ctx).Return([]models.Auction{}, nil)
	repo.On("AdvanceStatus", ctx, first.ID, models.AuctionStatusScheduled, models.AuctionStatusOngoing).Return(true, nil)
	repo.On("AdvanceStatus", ctx, second.ID, models.AuctionStatusScheduled, models.AuctionStatusOngoing).Return(true, nil)

	svc.Sweep(ctx)

	// Ровно одно событие на каждый выполненный переход.
	if assert.Len(t, publisher.events, 2) {
		assert.Equal(t, first.ID, publisher.events[0].AuctionID)
		assert.Equal(t, second.ID, publisher.events[1].AuctionID)
	}
}

func TestLifecycleService_Sweep_SkipsAlreadyAdvanced(t *testing.T) {
	repo := new(mockLifecycleRepo)
	publisher := &capturingPublisher{}
	svc := NewLifecycleService(repo, publisher, time.Minute)
	ctx := context.Background()

	auction := models.Auction{ID: uuid.New()}

	repo.On("ListDueToStart", ctx).Return([]models.Auction{auction}, nil)
	repo.On("ListDueToEnd", ctx).Return([]models.Auction{}, nil)
	// Строку уже перевёл другой инстанс.
	repo.On("AdvanceStatus", ctx, auction.ID, models.AuctionStatusScheduled, models.AuctionStatusOngoing).Return(false, nil)

	svc.Sweep(ctx)

	assert.Empty(t, publisher.events)
}

func TestLifecycleService_Sweep_PublishFailureDoesNotStop(t *testing.T) {
	repo := new(mockLifecycleRepo)
	publisher := &capturingPublisher{err: errors.New("nats: connection closed")}
	svc := NewLifecycleService(repo, publisher, time.Minute)
	ctx := context.Background()

	starting := models.Auction{ID: uuid.New()}
	ending := models.Auction{ID: uuid.New()}

	repo.On("ListDueToStart", ctx).Return([]models.Auction{starting}, nil)
	repo.On("ListDueToEnd", ctx).Return([]models.Auction{ending}, nil)
	repo.On("AdvanceStatus", ctx, starting.ID, models.AuctionStatusScheduled, models.AuctionStatusOngoing).Return(true, nil)
	repo.On("AdvanceStatus", ctx, ending.ID, models.AuctionStatusOngoing, models.AuctionStatusCompleted).Return(true, nil)

	svc.Sweep(ctx)

	// Ошибка публикации не мешает завершающему проходу.
	repo.AssertCalled(t, "AdvanceStatus", ctx, ending.ID, models.AuctionStatusOngoing, models.AuctionStatusCompleted)
}

func TestLifecycleService_Sweep_CompletesDueAuctions(t *testing.T) {
	repo := new(mockLifecycleRepo)
	svc := NewLifecycleService(repo, nil, time.Minute)
	ctx := context.Background()

	auction := models.Auction{ID: uuid.New()}

	repo.On("ListDueToStart", ctx).Return([]models.Auction{}, nil)
	repo.On("ListDueToEnd", ctx).Return([]models.Auction{auction}, nil)
	repo.On("AdvanceStatus", ctx, auction.ID, models.AuctionStatusOngoing, models.AuctionStatusCompleted).Return(true, nil)

	svc.Sweep(ctx)

	repo.AssertExpectations(t)
}

func TestLifecycleService_Sweep_ReentrancyGuard(t *testing.T) {
	repo := new(mockLifecycleRepo)
	svc := NewLifecycleService(repo, nil, time.Minute)
	ctx := context.Background()

	// Обход помечен как выполняющийся: новый не должен трогать репозиторий.
	svc.sweeping.Store(true)
	svc.Sweep(ctx)

	repo.AssertNotCalled(t, "ListDueToStart", ctx)
	repo.AssertNotCalled(t, "ListDueToEnd", ctx)
}
