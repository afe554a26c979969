package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tagarena/server/internal/core/event"
	coresys "github.com/tagarena/server/internal/core/system"
	"github.com/tagarena/server/internal/persist"
)

const statsFlushTimeout = 5 * time.Second

// StatsSystem buffers gameplay events and batch-writes them on a fixed
// interval. A database failure drops the batch with an error log; gameplay
// never stalls on the statistics path.
type StatsSystem struct {
	repo     *persist.StatsRepo
	log      *zap.Logger
	serverID int

	flushEveryTicks int
	ticksUntilFlush int

	hunterCount int // of the in-progress round
	pendingUses []persist.AbilityUseRow
}

func NewStatsSystem(repo *persist.StatsRepo, bus *event.Bus, serverID, flushEveryTicks int, log *zap.Logger) *StatsSystem {
	s := &StatsSystem{
		repo:            repo,
		log:             log,
		serverID:        serverID,
		flushEveryTicks: flushEveryTicks,
		ticksUntilFlush: flushEveryTicks,
	}

	event.Subscribe(bus, func(e event.RoundStarted) {
		s.hunterCount = e.HunterCount
	})
	event.Subscribe(bus, func(e event.AbilityUsed) {
		s.pendingUses = append(s.pendingUses, persist.AbilityUseRow{
			ServerID: s.serverID,
			ActorID:  e.ActorID,
			ItemID:   e.ItemID,
			GameTick: e.Tick,
		})
	})
	event.Subscribe(bus, func(e event.RoundEnded) {
		s.recordRound(e)
	})

	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *StatsSystem) Update(time.Duration) {
	s.ticksUntilFlush--
	if s.ticksUntilFlush > 0 {
		return
	}
	s.ticksUntilFlush = s.flushEveryTicks
	s.Flush()
}

// Flush writes the buffered ability uses. Called on the flush cadence, at
// round end, and once more at shutdown.
func (s *StatsSystem) Flush() {
	if len(s.pendingUses) == 0 {
		return
	}
	batch := s.pendingUses
	s.pendingUses = nil

	ctx, cancel := context.WithTimeout(context.Background(), statsFlushTimeout)
	defer cancel()
	if err := s.repo.BulkInsertAbilityUses(ctx, batch); err != nil {
		s.log.Error("ability use flush failed, batch dropped",
			zap.Int("rows", len(batch)),
			zap.Error(err))
		return
	}
	s.log.Debug("ability uses flushed", zap.Int("rows", len(batch)))
}

// recordRound inserts the finished round row, then attaches every use row
// still unassigned to it before flushing the batch.
func (s *StatsSystem) recordRound(e event.RoundEnded) {
	ctx, cancel := context.WithTimeout(context.Background(), statsFlushTimeout)
	defer cancel()

	id, err := s.repo.InsertRound(ctx, persist.RoundRow{
		ServerID:      s.serverID,
		DurationTicks: e.DurationTicks,
		HunterCount:   s.hunterCount,
		Tags:          e.Tags,
	})
	if err != nil {
		s.log.Error("round insert failed, buffered uses stay unassigned",
			zap.Int64("round", e.RoundID),
			zap.Error(err))
		s.Flush()
		return
	}

	for i := range s.pendingUses {
		if s.pendingUses[i].RoundID == 0 {
			s.pendingUses[i].RoundID = id
		}
	}
	s.Flush()
}
