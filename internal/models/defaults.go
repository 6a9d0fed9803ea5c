package models

import "github.com/google/uuid"

// DefaultData is the dataset written on first run and by a reset.
// Seed task ids are generated on every call.
func DefaultData() Snapshot {
	return Snapshot{
		Domains: []Domain{
			{ID: "physical", Name: "Physical", Order: 0, IsActive: true},
			{ID: "financial", Name: "Financial", Order: 1, IsActive: true},
			{ID: "social", Name: "Social", Order: 2, IsActive: true},
			{ID: "spiritual", Name: "Spiritual", Order: 3, IsActive: true},
		},
		Tasks: []Task{
			{ID: uuid.NewString(), DomainID: "physical", Title: "Open app", Points: 1, Frequency: FrequencyDaily, IsActive: true, Order: 0},
			{ID: uuid.NewString(), DomainID: "physical", Title: "3 exercises", Points: 2, Frequency: FrequencyDaily, IsActive: true, Order: 1},
		},
		Completions: []TaskCompletion{},
	}
}
