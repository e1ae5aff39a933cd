package lifts

// EstimateOneRepMax uses the Epley formula.
func EstimateOneRepMax(weight float64, reps int) float64 {
	return weight * (1 + float64(reps)/30)
}

// LatestDaySets keeps the records sharing the date of the first record.
// Records are expected newest first.
func LatestDaySets(records []LiftRecord) []LiftRecord {
	if len(records) == 0 {
		return []LiftRecord{}
	}

	lastDate := records[0].Date
	sets := make([]LiftRecord, 0, len(records))
	for _, r := range records {
		if r.Date == lastDate {
			sets = append(sets, r)
		}
	}
	return sets
}

// OneRepMaxByDay picks the heaviest set of every date (first one wins a tie)
// and estimates its one rep max. Dates keep the order of their first appearance.
func OneRepMaxByDay(records []LiftRecord) []OneRepMaxPoint {
	heaviest := make(map[string]LiftRecord, len(records))
	var dates []string
	for _, r := range records {
		best, seen := heaviest[r.Date]
		if !seen {
			dates = append(dates, r.Date)
			heaviest[r.Date] = r
			continue
		}
		if r.Weight > best.Weight {
			heaviest[r.Date] = r
		}
	}

	points := make([]OneRepMaxPoint, 0, len(dates))
	for _, date := range dates {
		best := heaviest[date]
		points = append(points, OneRepMaxPoint{
			Date:      date,
			OneRepMax: EstimateOneRepMax(best.Weight, best.Reps),
		})
	}
	return points
}
