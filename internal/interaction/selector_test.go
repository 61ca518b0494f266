package interaction

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpicker/internal/contracts"
	"github.com/wonny/stockpicker/pkg/logger"
)

func TestSelector_InitialState(t *testing.T) {
	s := NewSelector(time.Second, logger.Nop())
	defer s.Close()

	st := s.Current()
	assert.Equal(t, contracts.StrategyNone, st.Strategy)
	assert.False(t, st.Analyzing)
	assert.False(t, st.UpdatedAt.IsZero())
}

func TestSelector_DefaultDelay(t *testing.T) {
	s := NewSelector(0, logger.Nop())
	defer s.Close()
	assert.Equal(t, DefaultAnalyzeDelay, s.delay)
}

func TestSelector_SelectStartsAndEndsAnalysis(t *testing.T) {
	s := NewSelector(30*time.Millisecond, logger.Nop())
	defer s.Close()

	st := s.Select(contracts.StrategyDividends)
	assert.Equal(t, contracts.StrategyDividends, st.Strategy)
	assert.True(t, st.Analyzing)
	assert.True(t, s.Current().Analyzing)

	assert.Eventually(t, func() bool {
		return !s.Current().Analyzing
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, contracts.StrategyDividends, s.Current().Strategy, "strategy survives the analysis window")
}

func TestSelector_ReselectRestartsWindow(t *testing.T) {
	s := NewSelector(200*time.Millisecond, logger.Nop())
	defer s.Close()

	s.Select(contracts.StrategyValue)
	time.Sleep(120 * time.Millisecond)
	s.Select(contracts.StrategyGrowth)

	// 첫 번째 타이머 만료 시점 이후에도 분석 중이어야 함
	time.Sleep(120 * time.Millisecond)
	st := s.Current()
	assert.True(t, st.Analyzing, "stale timer must not end the newer analysis")
	assert.Equal(t, contracts.StrategyGrowth, st.Strategy)

	assert.Eventually(t, func() bool {
		return !s.Current().Analyzing
	}, time.Second, 5*time.Millisecond)
}

func TestSelector_StaleGenerationIgnored(t *testing.T) {
	s := NewSelector(time.Hour, logger.Nop())
	defer s.Close()

	s.Select(contracts.StrategyValue)
	s.Select(contracts.StrategyGrowth)

	s.finish(1)
	assert.True(t, s.Current().Analyzing)

	s.finish(2)
	assert.False(t, s.Current().Analyzing)
}

func TestSelector_Subscribe(t *testing.T) {
	s := NewSelector(20*time.Millisecond, logger.Nop())
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, contracts.StrategyNone, first.Strategy)

	s.Select(contracts.StrategySmallCaps)

	selected := <-ch
	assert.Equal(t, contracts.StrategySmallCaps, selected.Strategy)
	assert.True(t, selected.Analyzing)

	select {
	case done := <-ch:
		assert.False(t, done.Analyzing)
		assert.Equal(t, contracts.StrategySmallCaps, done.Strategy)
	case <-time.After(time.Second):
		t.Fatal("expected analysis-finished state")
	}
}

func TestSelector_SlowSubscriberSeesLatest(t *testing.T) {
	s := NewSelector(time.Hour, logger.Nop())
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		s.Select(contracts.AllStrategies()[i%5])
	}

	var last State
	for len(ch) > 0 {
		last = <-ch
	}
	assert.Equal(t, s.Current(), last)
}

func TestSelector_CancelSubscription(t *testing.T) {
	s := NewSelector(time.Hour, logger.Nop())
	defer s.Close()

	ch, cancel := s.Subscribe()
	<-ch
	cancel()
	cancel() // idempotent

	_, ok := <-ch
	assert.False(t, ok)

	s.Select(contracts.StrategyValue) // must not panic on closed channel
}

func TestSelector_Close(t *testing.T) {
	s := NewSelector(10*time.Millisecond, logger.Nop())

	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch

	s.Select(contracts.StrategyBuyHold)
	s.Close()
	s.Close()

	for range ch {
	}

	st := s.Select(contracts.StrategyValue)
	assert.Equal(t, contracts.StrategyBuyHold, st.Strategy, "closed selector ignores selections")

	late, _ := s.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}

func TestSelector_ConcurrentSelect(t *testing.T) {
	s := NewSelector(5*time.Millisecond, logger.Nop())
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Select(contracts.AllStrategies()[i%5])
			_ = s.Current()
		}(i)
	}
	wg.Wait()

	require.True(t, s.Current().Strategy.IsKnown())
	assert.Eventually(t, func() bool {
		return !s.Current().Analyzing
	}, time.Second, 5*time.Millisecond)
}
