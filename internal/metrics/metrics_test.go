package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/lifetrack/internal/models"
)

func seed() models.Snapshot {
	snap := models.DefaultData()
	snap.Tasks[0].ID = "open-app"
	snap.Tasks[1].ID = "exercises"
	return snap
}

func complete(snap *models.Snapshot, taskID, date string, points float64) {
	snap.Completions = append(snap.Completions, models.TaskCompletion{
		ID:           taskID + "@" + date,
		TaskID:       taskID,
		Date:         date,
		CompletedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		PointsEarned: points,
	})
}

// twoDomains has one task per domain so qualification is reachable.
func twoDomains() models.Snapshot {
	return models.Snapshot{
		Domains: []models.Domain{
			{ID: "body", Name: "Body", Order: 0, IsActive: true},
			{ID: "mind", Name: "Mind", Order: 1, IsActive: true},
		},
		Tasks: []models.Task{
			{ID: "run", DomainID: "body", Points: 2, IsActive: true},
			{ID: "read", DomainID: "mind", Points: 1, IsActive: false},
		},
	}
}

func TestDefaultDataset(t *testing.T) {
	snap := seed()
	complete(&snap, "open-app", "2024-01-01", 1)
	complete(&snap, "exercises", "2024-01-01", 2)

	assert.Equal(t, 3.0, PointsForDate(snap, "2024-01-01"))
	assert.False(t, Qualifies(snap, "2024-01-01"))
	assert.Equal(t, 0, Streak(snap, "2024-01-01"))

	status := DomainStatus(snap, "2024-01-01")
	require.Len(t, status, 4)
	assert.True(t, status[0].Completed)
	for _, row := range status[1:] {
		assert.False(t, row.Completed, row.Domain.ID)
	}
}

func TestQualifies(t *testing.T) {
	t.Run("no active domains is vacuously true", func(t *testing.T) {
		snap := twoDomains()
		for i := range snap.Domains {
			snap.Domains[i].IsActive = false
		}
		assert.True(t, Qualifies(snap, "2024-03-01"))
	})

	t.Run("active domain without completions fails", func(t *testing.T) {
		snap := models.Snapshot{Domains: []models.Domain{{ID: "solo", IsActive: true}}}
		assert.False(t, Qualifies(snap, "2024-03-01"))
	})

	t.Run("inactive domain is not required", func(t *testing.T) {
		snap := twoDomains()
		snap.Domains[1].IsActive = false
		complete(&snap, "run", "2024-03-01", 2)
		assert.True(t, Qualifies(snap, "2024-03-01"))
	})

	t.Run("completion of inactive task still counts", func(t *testing.T) {
		snap := twoDomains()
		complete(&snap, "run", "2024-03-01", 2)
		complete(&snap, "read", "2024-03-01", 1)
		assert.True(t, Qualifies(snap, "2024-03-01"))
	})

	t.Run("completion of deleted task is ignored", func(t *testing.T) {
		snap := twoDomains()
		complete(&snap, "run", "2024-03-01", 2)
		complete(&snap, "ghost", "2024-03-01", 1)
		assert.False(t, Qualifies(snap, "2024-03-01"))
	})
}

func TestStreak(t *testing.T) {
	snap := twoDomains()
	// qualifying 03-01..03-03 and 02-27, gap on 02-28
	for _, d := range []string{"2024-02-27", "2024-03-01", "2024-03-02", "2024-03-03"} {
		complete(&snap, "run", d, 2)
		complete(&snap, "read", d, 1)
	}
	complete(&snap, "run", "2024-02-29", 2)

	assert.Equal(t, 3, Streak(snap, "2024-03-03"))
	assert.Equal(t, 2, Streak(snap, "2024-03-02"))
	assert.Equal(t, 0, Streak(snap, "2024-03-04"), "non-qualifying anchor")
	assert.Equal(t, 0, Streak(snap, "2024-02-29"))
	assert.Equal(t, 1, Streak(snap, "2024-02-27"))
	assert.Equal(t, 0, Streak(snap, "not-a-date"))
}

func TestStreak_AcrossMonthAndYear(t *testing.T) {
	snap := twoDomains()
	for _, d := range []string{"2023-12-30", "2023-12-31", "2024-01-01"} {
		complete(&snap, "run", d, 2)
		complete(&snap, "read", d, 1)
	}
	assert.Equal(t, 3, Streak(snap, "2024-01-01"))
}

func TestStreak_NoActiveDomainsIsBounded(t *testing.T) {
	snap := twoDomains()
	snap.Domains[0].IsActive = false
	snap.Domains[1].IsActive = false

	assert.Equal(t, 1, Streak(snap, "2024-03-10"))

	complete(&snap, "run", "2024-03-01", 2)
	assert.Equal(t, 10, Streak(snap, "2024-03-10"))
}

func TestDailyTotals(t *testing.T) {
	snap := twoDomains()
	complete(&snap, "run", "2024-03-01", 2)
	complete(&snap, "read", "2024-03-01", 1)
	complete(&snap, "run", "2024-03-03", 2)
	complete(&snap, "run", "2024-02-01", 5) // outside the window

	days, err := DailyTotals(snap, "2024-03-03", 4)
	require.NoError(t, err)
	assert.Equal(t, []DayTotal{
		{Date: "2024-02-29", Points: 0},
		{Date: "2024-03-01", Points: 3},
		{Date: "2024-03-02", Points: 0},
		{Date: "2024-03-03", Points: 2},
	}, days)

	_, err = DailyTotals(snap, "03/03/2024", 4)
	assert.Error(t, err)
}

func TestBuckets(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{"exact multiple", []float64{1, 2, 3, 4}, 2, []float64{3, 7}},
		{"short last bucket", []float64{1, 1, 1, 1, 1}, 2, []float64{2, 2, 1}},
		{"window larger than series", []float64{1, 2}, 30, []float64{3}},
		{"empty series", nil, 7, []float64{}},
		{"invalid window", []float64{1}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Buckets(tt.values, tt.window))
		})
	}
}

func TestDomainTotals(t *testing.T) {
	snap := twoDomains()
	complete(&snap, "run", "2024-03-01", 2)
	complete(&snap, "run", "2024-03-02", 3)
	complete(&snap, "read", "2024-03-02", 1)
	complete(&snap, "ghost", "2024-03-02", 9)
	complete(&snap, "read", "2024-01-01", 4)

	totals := DomainTotals(snap, []string{"2024-03-01", "2024-03-02"})
	assert.Equal(t, map[string]float64{"body": 5, "mind": 1}, totals)
}

func TestSummarize(t *testing.T) {
	snap := twoDomains()
	complete(&snap, "run", "2024-03-10", 2)
	complete(&snap, "read", "2024-03-10", 1)
	complete(&snap, "run", "2024-03-01", 4)

	s, err := Summarize(snap, "2024-03-10", Window{Days: 10, Weekly: 7, Monthly: 30})
	require.NoError(t, err)

	assert.Equal(t, 3.0, s.Points)
	assert.True(t, s.Qualifies)
	assert.Equal(t, 1, s.Streak)
	assert.Len(t, s.Days, 10)
	assert.Equal(t, []float64{4, 3}, s.Weekly)
	assert.Equal(t, []float64{7}, s.Monthly)
	assert.Equal(t, 7.0, s.WeeklySum)
	assert.Equal(t, 7.0, s.MonthlySum)
	require.Len(t, s.ByDomain, 2)
	assert.Equal(t, 6.0, s.ByDomain[0].Points)
	assert.Equal(t, 1.0, s.ByDomain[1].Points)
}
