// Package progress derives body-composition trends and training adherence
// from a student's logs.
package progress

import (
	"math"
	"sort"
	"time"

	"fitcoach/platform/internal/domain"
)

// Trend is the weight change across a series of progress logs.
// Delta is positive when weight was lost.
type Trend struct {
	StartWeight   float64 `json:"startWeight"`
	CurrentWeight float64 `json:"currentWeight"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percentChange"`
}

// SortByDate returns a copy of logs ordered oldest first.
func SortByDate(logs []domain.ProgressLog) []domain.ProgressLog {
	sorted := make([]domain.ProgressLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// WeightTrend computes the change from the first to the last log.
// It reports false when there are fewer than two logs.
func WeightTrend(logs []domain.ProgressLog) (Trend, bool) {
	if len(logs) < 2 {
		return Trend{}, false
	}
	sorted := SortByDate(logs)
	first, last := sorted[0], sorted[len(sorted)-1]

	start := first.CurrentWeight
	if first.StartWeight != nil && finite(*first.StartWeight) && *first.StartWeight > 0 {
		start = *first.StartWeight
	}
	start = finiteOrZero(start)
	current := finiteOrZero(last.CurrentWeight)

	t := Trend{
		StartWeight:   start,
		CurrentWeight: current,
		Delta:         start - current,
	}
	if start > 0 {
		t.PercentChange = t.Delta / start * 100
	}
	return t, true
}

// WeightChanges returns, for each log in date order, the difference to the
// previous log. The first entry is always 0.
func WeightChanges(logs []domain.ProgressLog) []float64 {
	sorted := SortByDate(logs)
	changes := make([]float64, len(sorted))
	for i := 1; i < len(sorted); i++ {
		changes[i] = finiteOrZero(sorted[i].CurrentWeight) - finiteOrZero(sorted[i-1].CurrentWeight)
	}
	return changes
}

// GoalProgress returns how far current has moved from start towards goal,
// as a percentage clamped to [0, 100]. It works for both loss and gain goals.
func GoalProgress(start, current, goal float64) (float64, bool) {
	if !finite(start) || !finite(current) || !finite(goal) || start == goal {
		return 0, false
	}
	p := (start - current) / (start - goal) * 100
	return math.Max(0, math.Min(100, p)), true
}

// BMICategory is a standard BMI band.
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// ClassifyBMI buckets a BMI value. Lower bounds are inclusive.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi >= 30:
		return BMIObese
	case bmi >= 25:
		return BMIOverweight
	case bmi >= 18.5:
		return BMINormal
	default:
		return BMIUnderweight
	}
}

// ComputeBMI returns weight(kg)/height(m)².
func ComputeBMI(weightKg, heightCm float64) (float64, bool) {
	if !finite(weightKg) || !finite(heightCm) || weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return weightKg / (m * m), true
}

// WindowStats counts sessions dated inside a trailing window.
type WindowStats struct {
	Days      int     `json:"days"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"` // Completed/Total, 0 when Total is 0
}

// CompletionInWindow considers sessions dated within [now-days, now].
func CompletionInWindow(sessions []domain.WorkoutSession, now time.Time, days int) WindowStats {
	stats := WindowStats{Days: days}
	from := now.AddDate(0, 0, -days)
	for _, s := range sessions {
		if s.Date.Before(from) || s.Date.After(now) {
			continue
		}
		stats.Total++
		if s.Status == domain.SessionCompleted {
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.Rate = float64(stats.Completed) / float64(stats.Total)
	}
	return stats
}

// CountCompleted returns the number of completed sessions overall.
func CountCompleted(sessions []domain.WorkoutSession) int {
	n := 0
	for _, s := range sessions {
		if s.Status == domain.SessionCompleted {
			n++
		}
	}
	return n
}

// DaysSince returns whole days elapsed from first to now, rounded up.
func DaysSince(first, now time.Time) int {
	if now.Before(first) {
		return 0
	}
	return int(math.Ceil(now.Sub(first).Hours() / 24))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}
