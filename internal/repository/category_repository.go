package repository

import (
	"mcq_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	gormRepository[model.Category]
}

var _ Repository[model.Category] = (*CategoryRepository)(nil)

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{gormRepository[model.Category]{DB: db, noun: "category"}}
}

func (r *CategoryRepository) GetByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.DB.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err, "category %q", name)
	}
	return &category, nil
}
