package progress

import (
	"sort"
	"time"

	"fitcoach/platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EstimateOneRepMax uses the Epley formula. A single rep is its own max.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if !finite(weight) || weight <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

// PersonalRecord is the heaviest completed working set for an exercise.
type PersonalRecord struct {
	ExerciseID   primitive.ObjectID `json:"exerciseId"`
	Weight       float64            `json:"weight"`
	Reps         int                `json:"reps"`
	Estimated1RM float64            `json:"estimated1rm"`
	AchievedAt   time.Time          `json:"achievedAt"`
}

// BestSets finds the personal record per exercise across sessions.
// Ties on weight are broken by reps, then by the earlier date.
func BestSets(sessions []domain.WorkoutSession) []PersonalRecord {
	best := make(map[primitive.ObjectID]PersonalRecord)
	for _, s := range sessions {
		for _, el := range s.ExerciseLogs {
			for _, set := range el.SetLogs {
				if !set.Completed || set.Weight <= 0 {
					continue
				}
				if set.SetType != "" && set.SetType != domain.SetWorking {
					continue
				}
				cur, ok := best[el.ExerciseID]
				better := !ok || set.Weight > cur.Weight ||
					(set.Weight == cur.Weight && set.Repetitions > cur.Reps) ||
					(set.Weight == cur.Weight && set.Repetitions == cur.Reps && s.Date.Before(cur.AchievedAt))
				if better {
					best[el.ExerciseID] = PersonalRecord{
						ExerciseID:   el.ExerciseID,
						Weight:       set.Weight,
						Reps:         set.Repetitions,
						Estimated1RM: EstimateOneRepMax(set.Weight, set.Repetitions),
						AchievedAt:   s.Date,
					}
				}
			}
		}
	}

	records := make([]PersonalRecord, 0, len(best))
	for _, r := range best {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ExerciseID.Hex() < records[j].ExerciseID.Hex()
	})
	return records
}
