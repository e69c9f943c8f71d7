package models

// Category groups practice questions for one user.
type Category struct {
	Base
	Name   string `gorm:"not null" json:"name"`
	UserID string `gorm:"not null;index" json:"user_id"`

	Questions []Question `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"questions"`
}
