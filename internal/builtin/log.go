package builtin

import (
	"context"
	"sync"

	"dai/internal/services"
	"dai/pkg/logging"
)

// Role and implementation names of the log service.
const (
	LogRole     = "log"
	LogName     = "Log"
	NullLogName = "NullLog"
)

// LogService writes through pkg/logging under a configurable subsystem.
type LogService struct {
	*services.BaseService

	null bool

	mu        sync.RWMutex
	subsystem string
}

// NewLogService creates the default log service.
func NewLogService() (*LogService, error) {
	return newLogService(false)
}

// NewNullLogService creates a log service that discards everything. It is
// the implementation used for `log: false`.
func NewNullLogService() (*LogService, error) {
	return newLogService(true)
}

func newLogService(null bool) (*LogService, error) {
	s := &LogService{null: null, subsystem: "dai"}
	base, err := services.NewLocalService(LogRole, nil, s.initialize)
	if err != nil {
		return nil, err
	}
	s.BaseService = base
	return s, nil
}

func (s *LogService) initialize(_ context.Context, settings services.Settings) error {
	subsystem, err := settingString(settings, "subsystem", "dai")
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.subsystem = subsystem
	s.mu.Unlock()
	return nil
}

func (s *LogService) name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subsystem
}

// Debug logs a debug message.
func (s *LogService) Debug(format string, args ...interface{}) {
	if !s.null {
		logging.Debug(s.name(), format, args...)
	}
}

// Info logs an informational message.
func (s *LogService) Info(format string, args ...interface{}) {
	if !s.null {
		logging.Info(s.name(), format, args...)
	}
}

// Warn logs a warning.
func (s *LogService) Warn(format string, args ...interface{}) {
	if !s.null {
		logging.Warn(s.name(), format, args...)
	}
}

// Error logs an error.
func (s *LogService) Error(err error, format string, args ...interface{}) {
	if !s.null {
		logging.Error(s.name(), err, format, args...)
	}
}

// IsNull reports whether the service discards messages.
func (s *LogService) IsNull() bool {
	return s.null
}
