package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MaxQuizQuestions       = 25
	PointsPerCorrectAnswer = 4

	MinAttemptID = 100000
	MaxAttemptID = 999999
)

// swagger:model QuizAttempt
type QuizAttempt struct {
	ID                   uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint              `gorm:"not null;index" json:"user_id"`
	AttemptID            int               `gorm:"not null;uniqueIndex" json:"attempt_id"`
	CategoryID           uint              `gorm:"not null;index" json:"category_id"`
	Category             *Category         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TotalQuestions       int               `gorm:"not null" json:"total_questions"`
	QuestionsAttempted   int               `gorm:"not null" json:"questions_attempted"`
	QuestionsUnattempted int               `gorm:"not null" json:"questions_unattempted"`
	CorrectAnswers       int               `gorm:"not null" json:"correct_answers"`
	Score                int               `gorm:"not null" json:"score"`
	CreatedDate          time.Time         `gorm:"not null" json:"created_date"`
	Questions            []AttemptQuestion `gorm:"foreignKey:AttemptID;references:AttemptID" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) (err error) {
	if a.CreatedDate.IsZero() {
		a.CreatedDate = time.Now()
	}
	return
}

func (a *QuizAttempt) WrongAnswers() int {
	return a.QuestionsAttempted - a.CorrectAnswers
}

// ApplyScore 根据作答统计回写计数与得分
func (a *QuizAttempt) ApplyScore(attempted, correct int) {
	a.QuestionsAttempted = attempted
	a.QuestionsUnattempted = a.TotalQuestions - attempted
	a.CorrectAnswers = correct
	a.Score = correct * PointsPerCorrectAnswer
}
