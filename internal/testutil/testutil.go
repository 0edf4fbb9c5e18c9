// Package testutil 提供基于 SQLite 临时库的测试夹具
package testutil

import (
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/pkg/database"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 每个测试一个独立的 SQLite 文件库，已完成迁移
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quiz.db")
	cfg := database.GormConfig(false)
	cfg.Logger = logger.Discard

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedUser 创建用户，密码为 "password123"
func SeedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedCategory(t *testing.T, db *gorm.DB, name string, createdBy uint) *model.Category {
	t.Helper()

	c := &model.Category{Name: name, Audit: model.Audit{CreatedBy: createdBy}}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category %s: %v", name, err)
	}
	return c
}

// SeedMCQ 创建单选题，correct 为正确选项
func SeedMCQ(t *testing.T, db *gorm.DB, categoryID, createdBy uint, question string, options []string, correct ...string) *model.MCQ {
	t.Helper()

	q := &model.MCQ{
		Question:      question,
		Options:       options,
		CorrectOption: correct,
		CategoryID:    categoryID,
		Audit:         model.Audit{CreatedBy: createdBy},
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed mcq %q: %v", question, err)
	}
	return q
}
