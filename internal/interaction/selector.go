package interaction

import (
	"sync"
	"time"

	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/pkg/logger"
)

// DefaultAnalyzeDelay is how long the "analyzing" indicator stays on
const DefaultAnalyzeDelay = 2 * time.Second

// subscriberBuffer bounds each subscriber's queue; older states are dropped
const subscriberBuffer = 4

// State is the current strategy selection
type State struct {
	Strategy  contracts.StrategyID `json:"strategy"`
	Analyzing bool                 `json:"analyzing"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Selector holds the selected strategy and the transient analyzing flag
// ⭐ SSOT: 선택 상태 변경은 여기서만
//
// Each Select starts a new analysis window. A timer from an earlier
// selection never clears the flag of a newer one.
type Selector struct {
	mu          sync.Mutex
	state       State
	delay       time.Duration
	timer       *time.Timer
	generation  uint64
	subscribers map[int]chan State
	nextID      int
	closed      bool
	logger      *logger.Logger
	now         func() time.Time
}

// NewSelector creates a selector with nothing selected
func NewSelector(delay time.Duration, log *logger.Logger) *Selector {
	if delay <= 0 {
		delay = DefaultAnalyzeDelay
	}
	s := &Selector{
		delay:       delay,
		subscribers: make(map[int]chan State),
		logger:      log,
		now:         time.Now,
	}
	s.state.UpdatedAt = s.now()
	return s
}

// Select records a new strategy and (re)starts the analysis window
func (s *Selector) Select(id contracts.StrategyID) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation

	s.state = State{
		Strategy:  id,
		Analyzing: true,
		UpdatedAt: s.now(),
	}
	s.timer = time.AfterFunc(s.delay, func() { s.finish(gen) })

	s.logger.WithFields(map[string]interface{}{
		"strategy":   id.String(),
		"generation": gen,
	}).Debug("Strategy selected")

	s.broadcast()
	return s.state
}

// finish clears the analyzing flag if gen is still the latest selection
func (s *Selector) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		return
	}

	s.state.Analyzing = false
	s.state.UpdatedAt = s.now()
	s.timer = nil
	s.broadcast()
}

// Current returns a snapshot of the state
func (s *Selector) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel of state changes, primed with the current state.
// Slow receivers miss intermediate states but always see the latest.
func (s *Selector) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	ch <- s.state

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// broadcast sends the state to every subscriber without blocking (mu held)
func (s *Selector) broadcast() {
	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
			// 가득 찬 경우 가장 오래된 상태를 버리고 최신 상태 전달
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.state:
			default:
			}
		}
	}
}

// Close stops the timer and closes every subscriber channel
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
