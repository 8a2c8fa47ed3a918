package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wagetrack/wagetrack/internal/core/domain"
	portsrepo "github.com/wagetrack/wagetrack/internal/core/ports/repositories"
	portssvc "github.com/wagetrack/wagetrack/internal/core/ports/services"
)

// TimerBroadcaster periodically recomputes the live sessions of every open
// shift and pushes a timer_update to the affected workers and all admins.
// When a worker's last open segment disappears between ticks, one final empty
// update is sent so clients reset their clocks.
type TimerBroadcaster struct {
	shiftRepo portsrepo.ShiftReader
	userRepo  portsrepo.UserRepository
	publisher portssvc.EventPublisher
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	ticker  *time.Ticker
	stop    chan struct{}
	stopped bool
	wg      sync.WaitGroup
	mu      sync.Mutex

	// workers that received a non-empty update on the previous tick
	lastActive map[int64]struct{}
}

// NewTimerBroadcaster creates the timer loop. interval must be positive.
func NewTimerBroadcaster(
	shiftRepo portsrepo.ShiftReader,
	userRepo portsrepo.UserRepository,
	publisher portssvc.EventPublisher,
	interval time.Duration,
	logger *slog.Logger,
) *TimerBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerBroadcaster{
		shiftRepo:  shiftRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		interval:   interval,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		stop:       make(chan struct{}),
		lastActive: make(map[int64]struct{}),
	}
}

// Start begins the broadcast loop.
func (b *TimerBroadcaster) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ticker = time.NewTicker(b.interval)
	b.wg.Add(1)
	go b.run()

	b.logger.Info("Timer broadcaster started", slog.Duration("interval", b.interval))
}

// Stop halts the loop and waits for the in-flight tick to finish. Calling
// Stop again, or before Start, is a no-op.
func (b *TimerBroadcaster) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ticker == nil || b.stopped {
		return
	}
	b.stopped = true

	b.ticker.Stop()
	close(b.stop)
	b.wg.Wait()
	b.logger.Info("Timer broadcaster stopped")
}

func (b *TimerBroadcaster) run() {
	defer b.wg.Done()

	b.broadcast()

	for {
		select {
		case <-b.ticker.C:
			b.broadcast()
		case <-b.stop:
			return
		}
	}
}

// broadcast pushes the current live sessions. Errors are logged and the loop
// keeps ticking.
func (b *TimerBroadcaster) broadcast() {
	ctx := context.Background()
	now := b.now()

	openShifts, err := b.shiftRepo.ListOpenShifts(ctx)
	if err != nil {
		b.logger.Error("Failed to list open shifts for timer update", slog.String("error", err.Error()))
		return
	}

	adminIDs, err := b.userRepo.ListAdminIDs(ctx)
	if err != nil {
		b.logger.Error("Failed to resolve timer update admins", slog.String("error", err.Error()))
		adminIDs = nil
	}

	sessionsByWorker := make(map[int64][]domain.TimerSession)
	allSessions := make([]domain.TimerSession, 0, len(openShifts))
	for _, shift := range openShifts {
		open := shift.OpenSegment()
		if open == nil {
			continue
		}
		session := domain.TimerSession{
			SegmentID:         open.SegmentID,
			ShiftID:           shift.ShiftID,
			WorkerID:          shift.WorkerID,
			Kind:              open.Kind,
			TotalWorkSeconds:  shift.WorkSeconds(now),
			TotalPauseSeconds: shift.PauseSeconds(now),
		}
		sessionsByWorker[shift.WorkerID] = append(sessionsByWorker[shift.WorkerID], session)
		allSessions = append(allSessions, session)
	}

	for workerID, sessions := range sessionsByWorker {
		b.publisher.Publish(domain.Event{
			Type:    domain.EventTimerUpdate,
			Payload: domain.TimerUpdate{Sessions: sessions, Timestamp: now},
		}, []int64{workerID})
	}

	// Workers active last tick but idle now get one empty update.
	empty := domain.Event{
		Type:    domain.EventTimerUpdate,
		Payload: domain.TimerUpdate{Sessions: []domain.TimerSession{}, Timestamp: now},
	}
	for workerID := range b.lastActive {
		if _, still := sessionsByWorker[workerID]; !still {
			b.publisher.Publish(empty, []int64{workerID})
		}
	}

	// Admins watch everyone at once.
	if len(adminIDs) > 0 && (len(allSessions) > 0 || len(b.lastActive) > 0) {
		b.publisher.Publish(domain.Event{
			Type:    domain.EventTimerUpdate,
			Payload: domain.TimerUpdate{Sessions: allSessions, Timestamp: now},
		}, adminIDs)
	}

	next := make(map[int64]struct{}, len(sessionsByWorker))
	for workerID := range sessionsByWorker {
		next[workerID] = struct{}{}
	}
	b.lastActive = next
}
