package service

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"strings"
	"unicode/utf8"
)

const maxCategoryNameLen = 50

type CategoryService struct {
	UoW repository.UnitOfWork
}

func NewCategoryService(uow repository.UnitOfWork) *CategoryService {
	return &CategoryService{UoW: uow}
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", util.Validationf("category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", util.Validationf("category name must be at most %d characters", maxCategoryNameLen)
	}
	return name, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		categories, err = repos.Categories.GetAll()
		return err
	})
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, err
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	var category *model.Category
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		category, err = repos.Categories.GetOne(id)
		return err
	})
	return category, err
}

func (s *CategoryService) Create(ctx context.Context, user *model.User, name string) (*model.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	category := &model.Category{Name: name, Audit: model.Audit{CreatedBy: user.ID}}
	err = s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		if err := ensureCategoryNameFree(repos, name, 0); err != nil {
			return err
		}
		return repos.Categories.Add(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, user *model.User, id uint, name string) (*model.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	var category *model.Category
	err = s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		category, err = repos.Categories.GetOne(id)
		if err != nil {
			return err
		}
		if err := ensureCategoryNameFree(repos, name, id); err != nil {
			return err
		}
		category.Name = name
		category.Touch(user.ID)
		return repos.Categories.Update(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 分类下仍有题目或答题记录时拒绝删除
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Categories.GetOne(id); err != nil {
			return err
		}
		count, err := repos.MCQs.CountByCategory(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return util.Conflictf("category %d still has %d questions", id, count)
		}
		attempts, err := repos.QuizAttempts.CountByCategory(id)
		if err != nil {
			return err
		}
		if attempts > 0 {
			return util.Conflictf("category %d is referenced by %d quiz attempts", id, attempts)
		}
		return repos.Categories.Delete(id)
	})
}

func ensureCategoryNameFree(repos *repository.Repositories, name string, selfID uint) error {
	existing, err := repos.Categories.GetByName(name)
	if errors.Is(err, util.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return util.Conflictf("category %q already exists", name)
	}
	return nil
}
