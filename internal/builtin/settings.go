package builtin

import (
	"fmt"
	"time"

	"dai/internal/services"
)

func settingString(s services.Settings, key, def string) (string, error) {
	raw, ok := s[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("setting %s must be a string, got %T", key, raw)
	}
	return v, nil
}

// settingDuration accepts a time.Duration, a duration string such as "5s",
// or a number of milliseconds.
func settingDuration(s services.Settings, key string, def time.Duration) (time.Duration, error) {
	raw, ok := s[key]
	if !ok || raw == nil {
		return def, nil
	}

	var d time.Duration
	switch v := raw.(type) {
	case time.Duration:
		d = v
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("setting %s: %w", key, err)
		}
		d = parsed
	case int:
		d = time.Duration(v) * time.Millisecond
	case int64:
		d = time.Duration(v) * time.Millisecond
	case float64:
		d = time.Duration(v * float64(time.Millisecond))
	default:
		return 0, fmt.Errorf("setting %s must be a duration, got %T", key, raw)
	}

	if d <= 0 {
		return 0, fmt.Errorf("setting %s must be positive, got %s", key, d)
	}
	return d, nil
}
