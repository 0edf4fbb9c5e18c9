package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	gormRepository[model.QuizAttempt]
}

var _ Repository[model.QuizAttempt] = (*QuizAttemptRepository)(nil)

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{gormRepository[model.QuizAttempt]{DB: db, noun: "quiz attempt"}}
}

func (r *QuizAttemptRepository) GetAll() ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Order("created_date asc, id asc").Find(&attempts).Error
	return attempts, translate(err, "list quiz attempts")
}

func (r *QuizAttemptRepository) GetByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).Order("created_date asc, id asc").Find(&attempts).Error
	return attempts, translate(err, "quiz attempts of user %d", userID)
}

func (r *QuizAttemptRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, translate(err, "count quiz attempts of category %d", categoryID)
}

func (r *QuizAttemptRepository) GetByAttemptID(attemptID int) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.DB.Where("attempt_id = ?", attemptID).First(&attempt).Error; err != nil {
		return nil, translate(err, "quiz attempt %d", attemptID)
	}
	return &attempt, nil
}

// UpdateScore 只回写计分字段，提交后记录不再变更
func (r *QuizAttemptRepository) UpdateScore(attempt *model.QuizAttempt) error {
	err := r.DB.Model(attempt).Select(
		"questions_attempted", "questions_unattempted", "correct_answers", "score",
	).Updates(map[string]interface{}{
		"questions_attempted":   attempt.QuestionsAttempted,
		"questions_unattempted": attempt.QuestionsUnattempted,
		"correct_answers":       attempt.CorrectAnswers,
		"score":                 attempt.Score,
	}).Error
	return translate(err, "score quiz attempt %d", attempt.AttemptID)
}
