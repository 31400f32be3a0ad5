package schedule

import (
	"math"
	"sort"
)

// StayTimeSummary aggregates per-candidate stay time (last end minus
// first start) for one (date, job code) pair.
type StayTimeSummary struct {
	Date       string  `json:"date"`
	JobCode    string  `json:"job_code"`
	Candidates int     `json:"candidates"`
	MinMinutes int     `json:"min_minutes"`
	MaxMinutes int     `json:"max_minutes"`
	Mean       float64 `json:"mean_minutes"`
	Median     float64 `json:"median_minutes"`
	StdDev     float64 `json:"stddev_minutes"`
}

// CandidateStayTimes computes each candidate's stay time across the
// given items: max(end) - min(start).
func CandidateStayTimes(items []ScheduleItem) map[string]Minutes {
	first := make(map[string]Minutes)
	last := make(map[string]Minutes)
	for _, it := range items {
		if cur, ok := first[it.CandidateID]; !ok || it.Start < cur {
			first[it.CandidateID] = it.Start
		}
		if cur, ok := last[it.CandidateID]; !ok || it.End > cur {
			last[it.CandidateID] = it.End
		}
	}
	out := make(map[string]Minutes, len(first))
	for id, start := range first {
		out[id] = last[id] - start
	}
	return out
}

// EvaluateStayTimes is a pure aggregation over the finalized schedule.
// Its output is advisory: it never feeds back into the same solve.
func EvaluateStayTimes(items []ScheduleItem) []StayTimeSummary {
	type key struct{ date, job string }
	grouped := make(map[key][]ScheduleItem)
	for _, it := range items {
		k := key{it.Date, it.JobCode}
		grouped[k] = append(grouped[k], it)
	}

	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].job < keys[j].job
	})

	out := make([]StayTimeSummary, 0, len(keys))
	for _, k := range keys {
		stays := CandidateStayTimes(grouped[k])
		values := make([]float64, 0, len(stays))
		for _, v := range stays {
			values = append(values, float64(v))
		}
		sort.Float64s(values)

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		n := len(values)
		mean := sum / float64(n)

		var median float64
		if n%2 == 1 {
			median = values[n/2]
		} else {
			median = (values[n/2-1] + values[n/2]) / 2
		}

		variance := 0.0
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(n)

		out = append(out, StayTimeSummary{
			Date:       k.date,
			JobCode:    k.job,
			Candidates: n,
			MinMinutes: int(values[0]),
			MaxMinutes: int(values[n-1]),
			Mean:       mean,
			Median:     median,
			StdDev:     math.Sqrt(variance),
		})
	}
	return out
}
