package repository

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/testutil"
	"mcq_quiz_backend/internal/util"
	"testing"
)

func TestUserRepositoryGetByEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.DB(t)
	seeded := testutil.SeedUser(t, db, "jane.doe@example.com", model.RoleUser)
	repo := NewUserRepository(db)

	for _, email := range []string{"JANE.DOE@example.com", `  "jane.doe@example.com" `} {
		u, err := repo.GetByEmail(email)
		if err != nil {
			t.Fatalf("GetByEmail(%q): %v", email, err)
		}
		if u.ID != seeded.ID {
			t.Fatalf("GetByEmail(%q) id = %d, want %d", email, u.ID, seeded.ID)
		}
	}

	if _, err := repo.GetByEmail("nobody@example.com"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryRepositoryDuplicateNameIsConflict(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	repo := NewCategoryRepository(db)

	if err := repo.Add(&model.Category{Name: "Geography", Audit: model.Audit{CreatedBy: admin.ID}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := repo.Add(&model.Category{Name: "Geography", Audit: model.Audit{CreatedBy: admin.ID}})
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := repo.GetByName("Geography")
	if err != nil || got.CreatedDate.IsZero() {
		t.Fatalf("GetByName = (%+v, %v)", got, err)
	}
}

func TestGenericRepositoryNotFound(t *testing.T) {
	db := testutil.DB(t)
	repo := NewMCQRepository(db)

	if _, err := repo.GetOne(99); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("GetOne: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(99); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestNotFoundDetailUsesDomainNoun(t *testing.T) {
	db := testutil.DB(t)

	tests := []struct {
		err  error
		want string
	}{
		{getErr(NewCategoryRepository(db).GetOne(4242)), "category 4242"},
		{getErr(NewMCQRepository(db).GetOne(7)), "mcq 7"},
		{getErr(NewUserRepository(db).GetOne(8)), "user 8"},
		{NewQuizAttemptRepository(db).Delete(9), "quiz attempt 9"},
	}
	for _, tt := range tests {
		if got := util.Detail(tt.err, util.ErrNotFound); got != tt.want {
			t.Fatalf("detail = %q, want %q", got, tt.want)
		}
	}
}

func getErr[T any](_ *T, err error) error { return err }

func TestMCQRepositoryByCategoryAndDuplicateLookup(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	geo := testutil.SeedCategory(t, db, "Geography", admin.ID)
	sci := testutil.SeedCategory(t, db, "Science", admin.ID)

	capital := testutil.SeedMCQ(t, db, geo.ID, admin.ID, "Capital of France?", []string{"Paris", "Lyon", "Nice"}, "Paris")
	testutil.SeedMCQ(t, db, geo.ID, admin.ID, "Longest river?", []string{"Nile", "Amazon"}, "Nile")
	testutil.SeedMCQ(t, db, sci.ID, admin.ID, "H2O is?", []string{"Water", "Salt"}, "Water")

	repo := NewMCQRepository(db)
	mcqs, err := repo.GetByCategory(geo.ID)
	if err != nil || len(mcqs) != 2 {
		t.Fatalf("GetByCategory = (%d, %v), want 2", len(mcqs), err)
	}
	if []string(mcqs[0].Options)[0] != "Paris" || mcqs[0].CorrectOption[0] != "Paris" {
		t.Fatalf("options not round-tripped: %+v", mcqs[0])
	}

	count, err := repo.CountByCategory(sci.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountByCategory = (%d, %v), want 1", count, err)
	}

	dup, err := repo.GetByQuestionAndOptions("  capital of FRANCE? ", []string{"nice", " PARIS", "lyon"})
	if err != nil || dup.ID != capital.ID {
		t.Fatalf("GetByQuestionAndOptions = (%+v, %v), want id %d", dup, err, capital.ID)
	}
	if _, err := repo.GetByQuestionAndOptions("Capital of France?", []string{"Paris", "Lyon"}); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("different options should not match, got %v", err)
	}
}

func TestQuizAttemptRepository(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	alice := testutil.SeedUser(t, db, "alice@example.com", model.RoleUser)
	bob := testutil.SeedUser(t, db, "bob@example.com", model.RoleUser)
	geo := testutil.SeedCategory(t, db, "Geography", admin.ID)
	repo := NewQuizAttemptRepository(db)

	for i, uid := range []uint{alice.ID, bob.ID, alice.ID} {
		a := &model.QuizAttempt{UserID: uid, AttemptID: 100001 + i, CategoryID: geo.ID, TotalQuestions: 3, QuestionsUnattempted: 3}
		if err := repo.Add(a); err != nil {
			t.Fatalf("Add attempt %d: %v", i, err)
		}
	}

	err := repo.Add(&model.QuizAttempt{UserID: bob.ID, AttemptID: 100001, CategoryID: geo.ID})
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("duplicate attempt_id: expected ErrConflict, got %v", err)
	}

	all, err := repo.GetAll()
	if err != nil || len(all) != 3 {
		t.Fatalf("GetAll = (%d, %v), want 3", len(all), err)
	}
	mine, err := repo.GetByUser(alice.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("GetByUser = (%d, %v), want 2", len(mine), err)
	}
	if mine[0].AttemptID != 100001 || mine[1].AttemptID != 100003 {
		t.Fatalf("attempts not in insertion order: %d, %d", mine[0].AttemptID, mine[1].AttemptID)
	}

	a, err := repo.GetByAttemptID(100002)
	if err != nil || a.UserID != bob.ID {
		t.Fatalf("GetByAttemptID = (%+v, %v)", a, err)
	}
	a.ApplyScore(2, 2)
	if err := repo.UpdateScore(a); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	reloaded, _ := repo.GetByAttemptID(100002)
	if reloaded.Score != 8 || reloaded.QuestionsUnattempted != 1 {
		t.Fatalf("score not persisted: %+v", reloaded)
	}
	if _, err := repo.GetByAttemptID(999999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttemptQuestionRepositoryDeleteByAttempt(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	geo := testutil.SeedCategory(t, db, "Geography", admin.ID)
	for _, id := range []int{123456, 654321} {
		if err := NewQuizAttemptRepository(db).Add(&model.QuizAttempt{UserID: admin.ID, AttemptID: id, CategoryID: geo.ID}); err != nil {
			t.Fatalf("seed attempt %d: %v", id, err)
		}
	}
	repo := NewAttemptQuestionRepository(db)

	rows := []model.AttemptQuestion{
		{AttemptID: 123456, QuestionID: 1, AttemptedAnswer: "a", IsCorrect: true},
		{AttemptID: 123456, QuestionID: 2, AttemptedAnswer: "b"},
		{AttemptID: 654321, QuestionID: 1, AttemptedAnswer: "c"},
	}
	for i := range rows {
		if err := repo.Add(&rows[i]); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := repo.GetByAttempt(123456)
	if err != nil || len(got) != 2 {
		t.Fatalf("GetByAttempt = (%d, %v), want 2", len(got), err)
	}

	n, err := repo.DeleteByAttempt(123456)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByAttempt = (%d, %v), want 2", n, err)
	}
	left, _ := repo.GetAll()
	if len(left) != 1 || left[0].AttemptID != 654321 {
		t.Fatalf("unexpected remaining rows: %+v", left)
	}
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	uow := NewUnitOfWork(db)
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(repos *Repositories) error {
		if err := repos.Categories.Add(&model.Category{Name: "Temp", Audit: model.Audit{CreatedBy: admin.ID}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, err := NewCategoryRepository(db).GetByName("Temp"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("category should have been rolled back, got %v", err)
	}

	err = uow.Do(context.Background(), func(repos *Repositories) error {
		return repos.Categories.Add(&model.Category{Name: "Kept", Audit: model.Audit{CreatedBy: admin.ID}})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := NewCategoryRepository(db).GetByName("Kept"); err != nil {
		t.Fatalf("committed category missing: %v", err)
	}
}

func TestUnitOfWorkRollsBackOnPanic(t *testing.T) {
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	uow := NewUnitOfWork(db)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = uow.Do(context.Background(), func(repos *Repositories) error {
			repos.Categories.Add(&model.Category{Name: "Panicky", Audit: model.Audit{CreatedBy: admin.ID}})
			panic("boom")
		})
	}()

	if _, err := NewCategoryRepository(db).GetByName("Panicky"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("category should have been rolled back, got %v", err)
	}
}
