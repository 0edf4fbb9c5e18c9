package repository

import (
	"errors"
	"fmt"
	"mcq_quiz_backend/internal/util"

	"gorm.io/gorm"
)

// Repository 单表通用数据访问接口
type Repository[T any] interface {
	GetOne(id uint) (*T, error)
	GetAll() ([]T, error)
	Add(item *T) error
	Update(item *T) error
	Delete(id uint) error
}

// gormRepository 基于 gorm 的通用实现，由各表仓储嵌入；noun 用于错误描述，会出现在响应体中
type gormRepository[T any] struct {
	DB   *gorm.DB
	noun string
}

func (r *gormRepository[T]) GetOne(id uint) (*T, error) {
	var item T
	if err := r.DB.First(&item, id).Error; err != nil {
		return nil, translate(err, "%s %d", r.noun, id)
	}
	return &item, nil
}

func (r *gormRepository[T]) GetAll() ([]T, error) {
	var items []T
	err := r.DB.Order("id asc").Find(&items).Error
	return items, translate(err, "list %s", r.noun)
}

func (r *gormRepository[T]) Add(item *T) error {
	return translate(r.DB.Create(item).Error, "create %s", r.noun)
}

func (r *gormRepository[T]) Update(item *T) error {
	return translate(r.DB.Save(item).Error, "update %s", r.noun)
}

func (r *gormRepository[T]) Delete(id uint) error {
	var item T
	res := r.DB.Delete(&item, id)
	if res.Error != nil {
		return translate(res.Error, "delete %s %d", r.noun, id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", util.ErrNotFound, r.noun, id)
	}
	return nil
}

// translate 将存储层错误转换为业务错误分类
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", util.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: duplicate key", util.ErrConflict, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s: still referenced", util.ErrConflict, what)
	}
	return util.Internal(what, err)
}
