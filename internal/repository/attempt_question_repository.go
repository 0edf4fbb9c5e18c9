package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptQuestionRepository struct {
	gormRepository[model.AttemptQuestion]
}

var _ Repository[model.AttemptQuestion] = (*AttemptQuestionRepository)(nil)

func NewAttemptQuestionRepository(db *gorm.DB) *AttemptQuestionRepository {
	return &AttemptQuestionRepository{gormRepository[model.AttemptQuestion]{DB: db, noun: "attempt question"}}
}

func (r *AttemptQuestionRepository) GetByAttempt(attemptID int) ([]model.AttemptQuestion, error) {
	var rows []model.AttemptQuestion
	err := r.DB.Where("attempt_id = ?", attemptID).Order("id asc").Find(&rows).Error
	return rows, translate(err, "attempt questions of %d", attemptID)
}

// DeleteByAttempt 批量删除某次作答的题目记录，返回删除条数
func (r *AttemptQuestionRepository) DeleteByAttempt(attemptID int) (int64, error) {
	res := r.DB.Where("attempt_id = ?", attemptID).Delete(&model.AttemptQuestion{})
	return res.RowsAffected, translate(res.Error, "delete attempt questions of %d", attemptID)
}
