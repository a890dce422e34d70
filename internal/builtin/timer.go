package builtin

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"dai/internal/services"
)

// Role and implementation name of the timer service.
const (
	TimerRole = "timer"
	TimerName = "Timer"
)

type timer struct {
	stop func()
}

// TimerService manages named timers. Re-creating a timer under an existing
// name replaces it.
type TimerService struct {
	*services.BaseService

	mu     sync.Mutex
	timers map[string]*timer
}

// NewTimerService creates the timer service.
func NewTimerService() (*TimerService, error) {
	s := &TimerService{timers: make(map[string]*timer)}
	base, err := services.NewLocalService(TimerRole, []string{LogRole}, nil)
	if err != nil {
		return nil, err
	}
	s.BaseService = base
	return s, nil
}

func (s *TimerService) log() *LogService {
	return s.Get(LogRole).(*LogService)
}

// CreateTimer runs fn after d, or every d when repeating is true, until the
// timer is disposed.
func (s *TimerService) CreateTimer(name string, d time.Duration, repeating bool, fn func()) error {
	if d <= 0 {
		return fmt.Errorf("timer %s: duration must be positive, got %s", name, d)
	}
	if fn == nil {
		return fmt.Errorf("timer %s: callback must not be nil", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[name]; ok {
		old.stop()
	}

	t := &timer{}
	if repeating {
		ticker := time.NewTicker(d)
		done := make(chan struct{})
		var once sync.Once
		t.stop = func() {
			once.Do(func() {
				ticker.Stop()
				close(done)
			})
		}
		go func() {
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					fn()
				}
			}
		}()
	} else {
		af := time.AfterFunc(d, func() {
			s.mu.Lock()
			if s.timers[name] == t {
				delete(s.timers, name)
			}
			s.mu.Unlock()
			fn()
		})
		t.stop = func() { af.Stop() }
	}

	s.timers[name] = t
	s.log().Debug("Created %s timer %s (%s)", kind(repeating), name, d)
	return nil
}

// DisposeTimer stops the named timer and reports whether it existed.
func (s *TimerService) DisposeTimer(name string) bool {
	s.mu.Lock()
	t, ok := s.timers[name]
	delete(s.timers, name)
	s.mu.Unlock()

	if ok {
		t.stop()
	}
	return ok
}

// DisposeAllTimers stops every timer.
func (s *TimerService) DisposeAllTimers() {
	s.mu.Lock()
	timers := s.timers
	s.timers = make(map[string]*timer)
	s.mu.Unlock()

	for _, t := range timers {
		t.stop()
	}
}

// TimerNames returns the names of the active timers, sorted.
func (s *TimerService) TimerNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.timers))
}

func kind(repeating bool) string {
	if repeating {
		return "repeating"
	}
	return "one-shot"
}
