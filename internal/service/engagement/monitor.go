package engagement

import (
	"context"
	"log"
	"time"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/model/face"
)

// ScoreSink receives the latest score for a session. Implemented by the
// session service.
type ScoreSink interface {
	UpdateScore(ctx context.Context, sessionID string, score engagement.Score) error
}

// Update pairs a fresh score with its advisory message.
type Update struct {
	Score  engagement.Score
	Advice string
}

// Monitor turns a callback-driven landmark feed into a bounded, lossy
// pipeline: producers Offer samples at whatever rate the detector runs,
// the monitor analyzes the latest one per tick and drops the rest. Backlog
// never grows beyond a single frame.
type Monitor struct {
	sessionID string
	sink      ScoreSink
	interval  time.Duration
	latest    chan face.LandmarkSample
	updates   chan Update
}

// NewMonitor creates a monitor for one session. interval is the analysis
// cadence; zero or negative values fall back to 100ms.
func NewMonitor(sessionID string, sink ScoreSink, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Monitor{
		sessionID: sessionID,
		sink:      sink,
		interval:  interval,
		latest:    make(chan face.LandmarkSample, 1),
		updates:   make(chan Update, 1),
	}
}

// Offer hands a sample to the monitor without blocking. When a frame is
// already pending it is replaced; stale frames are dropped, not queued.
func (m *Monitor) Offer(sample face.LandmarkSample) {
	for {
		select {
		case m.latest <- sample:
			return
		default:
		}
		select {
		case <-m.latest:
		default:
		}
	}
}

// Updates exposes the analyzed results. Like the inbound side it holds at
// most one pending update; slow consumers see the freshest score only.
func (m *Monitor) Updates() <-chan Update {
	return m.updates
}

// Run analyzes pending samples on the configured cadence until ctx is
// canceled. Ticks without a pending sample do nothing: detector silence is
// not an error, the previous score simply stays current.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	defer close(m.updates)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case sample := <-m.latest:
				m.analyze(ctx, sample)
			default:
			}
		}
	}
}

func (m *Monitor) analyze(ctx context.Context, sample face.LandmarkSample) {
	score := engagement.Analyze(sample)

	if m.sink != nil {
		if err := m.sink.UpdateScore(ctx, m.sessionID, score); err != nil {
			log.Printf("[engagement] failed to store score session=%s: %v", m.sessionID, err)
		}
	}

	update := Update{Score: score, Advice: engagement.Advise(score)}
	select {
	case m.updates <- update:
	default:
		select {
		case <-m.updates:
		default:
		}
		select {
		case m.updates <- update:
		default:
		}
	}
}
