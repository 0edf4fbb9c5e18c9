package service

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/testutil"
	"mcq_quiz_backend/internal/util"
	"strings"
	"testing"
)

func TestCategoryLifecycle(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	s := NewCategoryService(repository.NewUnitOfWork(db))
	ctx := context.Background()

	created, err := s.Create(ctx, admin, "  History ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "History" || created.CreatedBy != admin.ID {
		t.Fatalf("unexpected category: %+v", created)
	}

	if _, err := s.Create(ctx, admin, "History"); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("duplicate: expected ErrConflict, got %v", err)
	}
	for _, bad := range []string{"", "   ", strings.Repeat("x", 51)} {
		if _, err := s.Create(ctx, admin, bad); !errors.Is(err, util.ErrValidation) {
			t.Fatalf("name %q: expected ErrValidation, got %v", bad, err)
		}
	}

	updated, err := s.Update(ctx, admin, created.ID, "World History")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != admin.ID || updated.UpdatedDate == nil {
		t.Fatalf("audit fields not set: %+v", updated)
	}
	if _, err := s.Update(ctx, admin, created.ID, "World History"); err != nil {
		t.Fatalf("renaming to own name: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = (%d, %v), want 1", len(list), err)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("after delete: expected ErrNotFound, got %v", err)
	}
}

func TestCategoryDeleteRefusedWhileQuestionsExist(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	c := testutil.SeedCategory(t, db, "Science", admin.ID)
	testutil.SeedMCQ(t, db, c.ID, admin.ID, "H2O?", []string{"Water", "Fire"}, "Water")
	s := NewCategoryService(repository.NewUnitOfWork(db))

	if err := s.Delete(context.Background(), c.ID); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := s.Delete(context.Background(), 999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryDeleteRefusedWhileAttemptsExist(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	c := testutil.SeedCategory(t, db, "History", admin.ID)
	mcq := testutil.SeedMCQ(t, db, c.ID, admin.ID, "1066?", []string{"Hastings", "Waterloo"}, "Hastings")
	ctx := context.Background()

	quiz := NewQuizService(repository.NewUnitOfWork(db), nil)
	if _, err := quiz.SubmitQuiz(ctx, admin, &SubmitQuizRequest{
		AttemptID:  654321,
		CategoryID: c.ID,
		Answers:    []SubmitAnswer{{QuestionID: mcq.ID, Answer: strp("Hastings")}},
	}); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if err := db.Delete(&model.AttemptQuestion{}, "attempt_id = ?", 654321).Error; err != nil {
		t.Fatalf("delete attempt questions: %v", err)
	}
	if err := db.Delete(&model.MCQ{}, mcq.ID).Error; err != nil {
		t.Fatalf("delete mcq: %v", err)
	}

	s := NewCategoryService(repository.NewUnitOfWork(db))
	if err := s.Delete(ctx, c.ID); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.Get(ctx, c.ID); err != nil {
		t.Fatalf("category should survive refused delete: %v", err)
	}
}
