package metrics

import (
	"github.com/balkashynov/lifetrack/internal/models"
)

// DayTotal is the points earned on one calendar day.
type DayTotal struct {
	Date   string
	Points float64
}

// DateRange returns the days keys ending at end, oldest first.
func DateRange(end string, days int) ([]string, error) {
	last, err := models.ParseDateKey(end)
	if err != nil {
		return nil, err
	}
	if days < 0 {
		days = 0
	}
	out := make([]string, days)
	for i := 0; i < days; i++ {
		out[i] = models.DateKey(last.AddDate(0, 0, i-days+1))
	}
	return out, nil
}

// DailyTotals returns one total per day for the days ending at end, oldest
// first.
func DailyTotals(snap models.Snapshot, end string, days int) ([]DayTotal, error) {
	dates, err := DateRange(end, days)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]float64, len(dates))
	for _, c := range snap.Completions {
		byDate[c.Date] += c.PointsEarned
	}
	out := make([]DayTotal, len(dates))
	for i, d := range dates {
		out[i] = DayTotal{Date: d, Points: byDate[d]}
	}
	return out, nil
}

// Buckets sums contiguous, non-overlapping slices of values of size window,
// left to right. The last bucket is shorter when len(values) is not a
// multiple of window.
func Buckets(values []float64, window int) []float64 {
	if window < 1 {
		return nil
	}
	out := make([]float64, 0, (len(values)+window-1)/window)
	for i := 0; i < len(values); i += window {
		end := i + window
		if end > len(values) {
			end = len(values)
		}
		out = append(out, Sum(values[i:end]))
	}
	return out
}

// Sum adds values.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// DomainTotals sums PointsEarned of completions dated within dates, grouped by
// the domain of the completed task. Every domain in the snapshot is present,
// with 0 if nothing was earned. Completions of missing tasks are skipped.
func DomainTotals(snap models.Snapshot, dates []string) map[string]float64 {
	window := make(map[string]bool, len(dates))
	for _, d := range dates {
		window[d] = true
	}
	owner := make(map[string]string, len(snap.Tasks))
	for _, t := range snap.Tasks {
		owner[t.ID] = t.DomainID
	}

	totals := make(map[string]float64, len(snap.Domains))
	for _, d := range snap.Domains {
		totals[d.ID] = 0
	}
	for _, c := range snap.Completions {
		if !window[c.Date] {
			continue
		}
		domainID, ok := owner[c.TaskID]
		if !ok {
			continue
		}
		totals[domainID] += c.PointsEarned
	}
	return totals
}

// Window sizes a Summary.
type Window struct {
	Days    int
	Weekly  int
	Monthly int
}

// DefaultWindow matches the stats panel: 30 days in 7- and 30-day buckets.
var DefaultWindow = Window{Days: 30, Weekly: 7, Monthly: 30}

// DomainTotal pairs a domain with its points in a Summary.
type DomainTotal struct {
	Domain models.Domain
	Points float64
}

// Summary bundles the derived metrics shown for a date.
type Summary struct {
	Date       string
	Points     float64
	Qualifies  bool
	Streak     int
	Days       []DayTotal
	Weekly     []float64
	Monthly    []float64
	WeeklySum  float64
	MonthlySum float64
	ByDomain   []DomainTotal
}

// Summarize computes every metric for the window ending at end.
func Summarize(snap models.Snapshot, end string, w Window) (Summary, error) {
	days, err := DailyTotals(snap, end, w.Days)
	if err != nil {
		return Summary{}, err
	}

	values := make([]float64, len(days))
	dates := make([]string, len(days))
	for i, d := range days {
		values[i] = d.Points
		dates[i] = d.Date
	}

	s := Summary{
		Date:      end,
		Points:    PointsForDate(snap, end),
		Qualifies: Qualifies(snap, end),
		Streak:    Streak(snap, end),
		Days:      days,
		Weekly:    Buckets(values, w.Weekly),
		Monthly:   Buckets(values, w.Monthly),
	}
	s.WeeklySum = Sum(s.Weekly)
	s.MonthlySum = Sum(s.Monthly)

	totals := DomainTotals(snap, dates)
	for _, d := range snap.Domains {
		s.ByDomain = append(s.ByDomain, DomainTotal{Domain: d, Points: totals[d.ID]})
	}
	return s, nil
}
