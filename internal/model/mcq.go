package model

import (
	"strings"

	"gorm.io/datatypes"
)

// swagger:model MCQ
type MCQ struct {
	ID            uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectOption datatypes.JSONSlice[string] `gorm:"not null" json:"correct_option"`
	CategoryID    uint                        `gorm:"not null;index" json:"category"`
	Category      *Category                   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Audit
}

func (MCQ) TableName() string {
	return "mcq"
}

// NormalizeAnswer 答案比较统一去首尾空格并转小写
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsCorrect 判断提交答案是否命中任一正确选项
func (q *MCQ) IsCorrect(answer string) bool {
	given := NormalizeAnswer(answer)
	for _, opt := range q.CorrectOption {
		if NormalizeAnswer(opt) == given {
			return true
		}
	}
	return false
}
