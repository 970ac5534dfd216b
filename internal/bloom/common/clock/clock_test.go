package clock

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}

	before := time.Now()
	now := c.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("clock time %v outside [%v, %v]", now, before, after)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := &MockClock{CurrentTime: start}

	steps := []struct {
		name     string
		duration time.Duration
		expected time.Time
	}{
		{"zero", 0, start},
		{"one hour", time.Hour, start.Add(time.Hour)},
		{"back half hour", -30 * time.Minute, start.Add(30 * time.Minute)},
	}

	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			c.Advance(s.duration)
			if got := c.Now(); !got.Equal(s.expected) {
				t.Errorf("expected %v, got %v", s.expected, got)
			}
		})
	}
}

func TestMockClock_ConcurrentAdvance(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	c := &MockClock{CurrentTime: start}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	wg.Wait()

	if got, want := c.Now(), start.Add(10*time.Second); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestClock_InterfaceCompliance(t *testing.T) {
	var _ Clock = RealClock{}
	var _ Clock = &MockClock{}
}
