package utils

import (
	"fmt"
	"time"
)

// ParseDurationString wraps time.ParseDuration with a friendlier error for
// values coming from config files or the environment.
func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", value, err)
	}
	return d, nil
}
