package models

// Domain is a named life area that groups tasks
type Domain struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Order    int    `gorm:"column:position;index" json:"order"`
	IsActive bool   `json:"isActive"`
}
