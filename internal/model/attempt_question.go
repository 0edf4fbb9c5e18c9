package model

// swagger:model AttemptQuestion
type AttemptQuestion struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AttemptID       int    `gorm:"not null;index" json:"attempt_id"`
	QuestionID      uint   `gorm:"not null;index" json:"question_id"`
	AttemptedAnswer string `gorm:"type:text;not null" json:"attempted_answer"`
	IsCorrect       bool   `gorm:"not null" json:"is_correct"`
}

func (AttemptQuestion) TableName() string {
	return "attempt_questions"
}
