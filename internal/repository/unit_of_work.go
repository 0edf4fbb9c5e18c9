package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories 同一事务内共享会话的仓储集合
type Repositories struct {
	Users            *UserRepository
	Categories       *CategoryRepository
	MCQs             *MCQRepository
	QuizAttempts     *QuizAttemptRepository
	AttemptQuestions *AttemptQuestionRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:            NewUserRepository(db),
		Categories:       NewCategoryRepository(db),
		MCQs:             NewMCQRepository(db),
		QuizAttempts:     NewQuizAttemptRepository(db),
		AttemptQuestions: NewAttemptQuestionRepository(db),
	}
}

// UnitOfWork 事务边界：fn 返回 nil 时提交，返回错误或 panic 时回滚
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

type GormUnitOfWork struct {
	DB *gorm.DB
}

var _ UnitOfWork = (*GormUnitOfWork)(nil)

func NewUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{DB: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(repos *Repositories) error) error {
	return u.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
