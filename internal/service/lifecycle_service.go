package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/liveauction/auction-backend/internal/events"
	"github.com/liveauction/auction-backend/internal/logger"
	"github.com/liveauction/auction-backend/internal/models"
)

// AuctionRepoForLifecycle описывает доступ к аукционам, нужный обходчику.
type AuctionRepoForLifecycle interface {
	ListDueToStart(ctx context.Context) ([]models.Auction, error)
	ListDueToEnd(ctx context.Context) ([]models.Auction, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

// LifecycleService периодически переводит аукционы по расписанию:
// scheduled -> ongoing при наступлении start_time и ongoing -> completed
// при наступлении end_time. Каждый перевод выполняется условным UPDATE,
// поэтому обходчики нескольких инстансов не дублируют эффекты перехода.
type LifecycleService struct {
	repo      AuctionRepoForLifecycle
	publisher events.Publisher
	interval  time.Duration
	sweeping  atomic.Bool
}

// NewLifecycleService создаёт обходчик жизненного цикла.
func NewLifecycleService(repo AuctionRepoForLifecycle, publisher events.Publisher, interval time.Duration) *LifecycleService {
	return &LifecycleService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
	}
}

// Run запускает периодический обход и блокируется до отмены контекста.
func (s *LifecycleService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if logger.Log != nil {
		logger.Log.WithField("interval", s.interval.String()).Info("lifecycle: обходчик запущен")
	}

	for {
		select {
		case <-ctx.Done():
			if logger.Log != nil {
				logger.Log.Info("lifecycle: обходчик остановлен")
			}
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep выполняет один обход. Если предыдущий обход ещё не завершился,
// новый не запускается.
func (s *LifecycleService) Sweep(ctx context.Context) {
	if !s.sweeping.CompareAndSwap(false, true) {
		if logger.Log != nil {
			logger.Log.Warn("lifecycle: предыдущий обход ещё выполняется, пропуск")
		}
		return
	}
	defer s.sweeping.Store(false)

	s.sweepStart(ctx)
	s.sweepEnd(ctx)
}

// sweepStart запускает аукционы, чьё время начала наступило, и публикует
// событие о каждом запуске. Ошибка публикации только логируется: переход
// статуса уже зафиксирован и не откатывается.
func (s *LifecycleService) sweepStart(ctx context.Context) {
	due, err := s.repo.ListDueToStart(ctx)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Error("lifecycle: не удалось получить аукционы к запуску")
		}
		return
	}

	for _, auction := range due {
		advanced, err := s.repo.AdvanceStatus(ctx, auction.ID, models.AuctionStatusScheduled, models.AuctionStatusOngoing)
		if err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"auction_id": auction.ID,
					"error":      err.Error(),
				}).Error("lifecycle: не удалось запустить аукцион")
			}
			continue
		}
		if !advanced {
			// Строку уже перевёл другой инстанс, событие публикует он.
			continue
		}

		if logger.Log != nil {
			logger.Log.WithField("auction_id", auction.ID).Info("lifecycle: аукцион запущен")
		}

		if s.publisher == nil {
			continue
		}

		event := &events.AuctionEvent{
			AuctionID:     auction.ID,
			ItemID:        auction.ItemID,
			AuctioneerID:  auction.AuctioneerID,
			StartingPrice: auction.StartingPrice,
			ReservePrice:  auction.ReservePrice,
			BidIncrement:  auction.BidIncrement,
			StartTime:     auction.StartTime,
			EndTime:       auction.EndTime,
		}
		if err := s.publisher.PublishAuctionStarted(event); err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"auction_id": auction.ID,
					"error":      err.Error(),
				}).Error("lifecycle: не удалось опубликовать событие о старте")
			}
		}
	}
}

// sweepEnd завершает аукционы, чьё время окончания наступило.
func (s *LifecycleService) sweepEnd(ctx context.Context) {
	due, err := s.repo.ListDueToEnd(ctx)
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithError(err).Error("lifecycle: не удалось получить аукционы к завершению")
		}
		return
	}

	for _, auction := range due {
		advanced, err := s.repo.AdvanceStatus(ctx, auction.ID, models.AuctionStatusOngoing, models.AuctionStatusCompleted)
		if err != nil {
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"auction_id": auction.ID,
					"error":      err.Error(),
				}).Error("lifecycle: не удалось завершить аукцион")
			}
			continue
		}
		if advanced && logger.Log != nil {
			logger.Log.WithField("auction_id", auction.ID).Info("lifecycle: аукцион завершён")
		}
	}
}
