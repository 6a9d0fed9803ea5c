// Package metrics derives points, qualification and streaks from a snapshot.
// Every function is pure and recomputes from scratch; snapshots are small.
package metrics

import (
	"github.com/balkashynov/lifetrack/internal/models"
)

// PointsForDate sums PointsEarned of the completions on date.
func PointsForDate(snap models.Snapshot, date string) float64 {
	var total float64
	for _, c := range snap.Completions {
		if c.Date == date {
			total += c.PointsEarned
		}
	}
	return total
}

// completedDomains maps each date to the set of domains with at least one
// completion that day. Completions of missing tasks are ignored; a task's own
// active flag is not consulted.
func completedDomains(snap models.Snapshot) map[string]map[string]bool {
	owner := make(map[string]string, len(snap.Tasks))
	for _, t := range snap.Tasks {
		owner[t.ID] = t.DomainID
	}
	byDate := make(map[string]map[string]bool)
	for _, c := range snap.Completions {
		domainID, ok := owner[c.TaskID]
		if !ok {
			continue
		}
		set := byDate[c.Date]
		if set == nil {
			set = make(map[string]bool)
			byDate[c.Date] = set
		}
		set[domainID] = true
	}
	return byDate
}

func activeDomainIDs(snap models.Snapshot) []string {
	var ids []string
	for _, d := range snap.Domains {
		if d.IsActive {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

func qualifies(active []string, done map[string]bool) bool {
	for _, id := range active {
		if !done[id] {
			return false
		}
	}
	return true
}

// Qualifies reports whether every active domain has a completion on date.
// With no active domains every date qualifies. An active domain without
// tasks can never be satisfied and blocks every date.
func Qualifies(snap models.Snapshot, date string) bool {
	return qualifies(activeDomainIDs(snap), completedDomains(snap)[date])
}

// Streak counts consecutive qualifying days ending at anchor, walking
// backwards. A non-qualifying anchor gives 0. The walk never goes past the
// earliest completion in the snapshot (or the anchor itself when there are
// none), which bounds it when no domain is active.
func Streak(snap models.Snapshot, anchor string) int {
	cursor, err := models.ParseDateKey(anchor)
	if err != nil {
		return 0
	}

	floor := anchor
	for _, c := range snap.Completions {
		if c.Date >= floor {
			continue
		}
		if _, err := models.ParseDateKey(c.Date); err == nil {
			floor = c.Date
		}
	}

	active := activeDomainIDs(snap)
	byDate := completedDomains(snap)

	streak := 0
	for {
		key := models.DateKey(cursor)
		if key < floor || !qualifies(active, byDate[key]) {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// DomainStatus reports, for each domain in snapshot order, whether it has a
// completion on date.
func DomainStatus(snap models.Snapshot, date string) []DomainDay {
	done := completedDomains(snap)[date]
	out := make([]DomainDay, 0, len(snap.Domains))
	for _, d := range snap.Domains {
		out = append(out, DomainDay{Domain: d, Completed: done[d.ID]})
	}
	return out
}

// DomainDay is one row of DomainStatus.
type DomainDay struct {
	Domain    models.Domain
	Completed bool
}
