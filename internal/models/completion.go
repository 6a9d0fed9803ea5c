package models

import "time"

// TaskCompletion records that a task was done on a calendar day.
// PointsEarned is a copy of the task's points at completion time and is never
// recomputed from the task afterwards.
type TaskCompletion struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	TaskID       string    `gorm:"not null;index" json:"taskId"`
	Date         string    `gorm:"not null;index" json:"date"` // YYYY-MM-DD
	CompletedAt  time.Time `json:"completedAt"`
	PointsEarned float64   `json:"pointsEarned"`
}
