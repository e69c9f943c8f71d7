package models

import "path"

// Recording is one captured answer to a Question. The audio itself lives in
// the flat-file store; AudioURL is the server-relative path to it.
type Recording struct {
	Base
	QuestionID string   `gorm:"type:uuid;not null;index" json:"question_id"`
	AudioURL   string   `gorm:"column:audio_url;not null" json:"audio_url"`
	Duration   *float64 `json:"duration"`
}

// FileName returns the stored object's name, the last element of AudioURL.
func (r *Recording) FileName() string {
	return path.Base(r.AudioURL)
}
