package models

// Question is a practice prompt owned by exactly one Category.
type Question struct {
	Base
	CategoryID string `gorm:"type:uuid;not null;index" json:"category_id"`
	Text       string `gorm:"not null" json:"text"`

	Recordings []Recording `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}
