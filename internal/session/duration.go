package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidRestDuration = errors.New("invalid rest duration")

// ParseRestDuration parses "HH:MM:SS", "MM:SS" or plain seconds. A leading
// day count ("1 00:00:30") and fractional seconds ("00:01:30.5") are accepted.
func ParseRestDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidRestDuration)
	}

	var days int
	if i := strings.IndexByte(s, ' '); i >= 0 {
		d, err := strconv.Atoi(s[:i])
		if err != nil || d < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRestDuration, s)
		}
		days = d
		s = strings.TrimSpace(s[i+1:])
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRestDuration, s)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRestDuration, s)
	}
	total := time.Duration(seconds * float64(time.Second))

	units := []time.Duration{time.Minute, time.Hour}
	for i, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRestDuration, s)
		}
		unit := units[len(parts)-2-i]
		total += time.Duration(n) * unit
	}

	return total + time.Duration(days)*24*time.Hour, nil
}

// FormatRestDuration renders d as "HH:MM:SS".
func FormatRestDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
