package repository

import (
	"mcq_quiz_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type UserRepository struct {
	gormRepository[model.User]
}

var _ Repository[model.User] = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{gormRepository[model.User]{DB: db, noun: "user"}}
}

// NormalizeEmail 去掉多余的空白与引号并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(email), `"`))
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("LOWER(email) = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translate(err, "user %s", email)
	}
	return &user, nil
}
