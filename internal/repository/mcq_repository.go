package repository

import (
	"mcq_quiz_backend/internal/model"
	"slices"
	"strings"

	"gorm.io/gorm"
)

type MCQRepository struct {
	gormRepository[model.MCQ]
}

var _ Repository[model.MCQ] = (*MCQRepository)(nil)

func NewMCQRepository(db *gorm.DB) *MCQRepository {
	return &MCQRepository{gormRepository[model.MCQ]{DB: db, noun: "mcq"}}
}

func (r *MCQRepository) GetByCategory(categoryID uint) ([]model.MCQ, error) {
	var mcqs []model.MCQ
	err := r.DB.Where("category_id = ?", categoryID).Order("id asc").Find(&mcqs).Error
	return mcqs, translate(err, "mcqs of category %d", categoryID)
}

func (r *MCQRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MCQ{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, translate(err, "count mcqs of category %d", categoryID)
}

// GetByQuestionAndOptions 查找题干与选项（忽略大小写、首尾空格和顺序）都相同的题目
func (r *MCQRepository) GetByQuestionAndOptions(question string, options []string) (*model.MCQ, error) {
	var candidates []model.MCQ
	err := r.DB.Where("LOWER(TRIM(question)) = ?", model.NormalizeAnswer(question)).Find(&candidates).Error
	if err != nil {
		return nil, translate(err, "mcq lookup")
	}

	want := normalizedSorted(options)
	for i := range candidates {
		if slices.Equal(normalizedSorted(candidates[i].Options), want) {
			return &candidates[i], nil
		}
	}
	return nil, translate(gorm.ErrRecordNotFound, "mcq %q", strings.TrimSpace(question))
}

func normalizedSorted(options []string) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = model.NormalizeAnswer(opt)
	}
	slices.Sort(out)
	return out
}
