package models

import (
	"fmt"
	"math"
)

// Frequency describes how often a task is meant to be done. It is informational
// and does not restrict when a task can be completed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyOneTime Frequency = "one_time"
)

// ParseFrequency accepts the canonical values plus a few shorthands.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "daily", "d", "day":
		return FrequencyDaily, nil
	case "weekly", "w", "week":
		return FrequencyWeekly, nil
	case "one_time", "once", "one-time", "1":
		return FrequencyOneTime, nil
	}
	return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown frequency %q (use daily, weekly or one_time)", s))
}

// Task represents a unit of work within a domain
type Task struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	DomainID  string    `gorm:"not null;index" json:"domainId"`
	Title     string    `json:"title"`
	Points    float64   `json:"points"`
	Frequency Frequency `json:"frequency"`
	IsActive  bool      `json:"isActive"`
	Order     int       `gorm:"column:position;index" json:"order"`
}

// Defaults applied to tasks created without explicit values.
const (
	DefaultTaskTitle  = "New task"
	DefaultTaskPoints = 1
)

// ValidatePoints rejects negative and non-finite point values.
func ValidatePoints(p float64) error {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return NewError(ErrCodeInvalid, fmt.Sprintf("invalid points %v: use a non-negative number", p))
	}
	return nil
}

// NewTask returns a task under domainID with the default values filled in.
// The caller assigns ID and Order.
func NewTask(domainID string) Task {
	return Task{
		DomainID:  domainID,
		Title:     DefaultTaskTitle,
		Points:    DefaultTaskPoints,
		Frequency: FrequencyDaily,
		IsActive:  true,
	}
}
