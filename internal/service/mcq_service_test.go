package service

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/testutil"
	"mcq_quiz_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func newMCQService(t *testing.T) (*MCQService, *gorm.DB, *model.User, *model.Category, string) {
	t.Helper()
	db := testutil.DB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", model.RoleAdmin)
	category := testutil.SeedCategory(t, db, "Geography", admin.ID)
	root := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: root})
	return NewMCQService(repository.NewUnitOfWork(db), storage), db, admin, category, root
}

func TestMCQCreateValidation(t *testing.T) {
	s, _, admin, category, _ := newMCQService(t)
	ctx := context.Background()

	mcq, err := s.Create(ctx, admin, MCQInput{
		Question:      " Capital of Italy? ",
		Options:       []string{"Rome ", "Milan", ""},
		CorrectOption: []string{"rome"},
		CategoryID:    category.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mcq.Question != "Capital of Italy?" || len(mcq.Options) != 2 || mcq.Options[0] != "Rome" || mcq.CreatedBy != admin.ID {
		t.Fatalf("unexpected mcq: %+v", mcq)
	}

	cases := map[string]MCQInput{
		"not a subset":     {Question: "Q?", Options: []string{"a", "b"}, CorrectOption: []string{"c"}, CategoryID: category.ID},
		"missing question": {Question: " ", Options: []string{"a", "b"}, CorrectOption: []string{"a"}, CategoryID: category.ID},
		"one option":       {Question: "Q?", Options: []string{"a"}, CorrectOption: []string{"a"}, CategoryID: category.ID},
		"no answer":        {Question: "Q?", Options: []string{"a", "b"}, CategoryID: category.ID},
		"no category":      {Question: "Q?", Options: []string{"a", "b"}, CorrectOption: []string{"a"}},
	}
	for name, in := range cases {
		if _, err := s.Create(ctx, admin, in); !errors.Is(err, util.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	_, err = s.Create(ctx, admin, MCQInput{Question: "Q?", Options: []string{"a", "b"}, CorrectOption: []string{"a", "z"}, CategoryID: category.ID})
	if err == nil || !strings.Contains(err.Error(), "subset") {
		t.Fatalf("expected subset message, got %v", err)
	}

	_, err = s.Create(ctx, admin, MCQInput{Question: "Q?", Options: []string{"a", "b"}, CorrectOption: []string{"a"}, CategoryID: 999})
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("unknown category: expected ErrNotFound, got %v", err)
	}
}

func TestMCQDuplicateContentIsConflict(t *testing.T) {
	s, _, admin, category, _ := newMCQService(t)
	ctx := context.Background()
	in := MCQInput{Question: "Largest ocean?", Options: []string{"Pacific", "Atlantic"}, CorrectOption: []string{"Pacific"}, CategoryID: category.ID}

	first, err := s.Create(ctx, admin, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := MCQInput{Question: "largest OCEAN?", Options: []string{"atlantic", "pacific"}, CorrectOption: []string{"pacific"}, CategoryID: category.ID}
	if _, err := s.Create(ctx, admin, dup); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	in.CorrectOption = []string{"Atlantic"}
	updated, err := s.Update(ctx, admin, first.ID, in)
	if err != nil {
		t.Fatalf("Update same content: %v", err)
	}
	if updated.CorrectOption[0] != "Atlantic" || updated.UpdatedBy == nil {
		t.Fatalf("unexpected update: %+v", updated)
	}

	list, err := s.List(ctx, category.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = (%d, %v), want 1", len(list), err)
	}
	if _, err := s.List(ctx, 999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("List unknown category: expected ErrNotFound, got %v", err)
	}

	if err := s.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, first.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestMCQImport(t *testing.T) {
	s, db, admin, category, root := newMCQService(t)
	testutil.SeedMCQ(t, db, category.ID, admin.ID, "Existing?", []string{"yes", "no"}, "yes")

	csvData := strings.Join([]string{
		"question,options,correct_option,category",
		"Capital of Spain?,Madrid|Seville|Valencia,Madrid,Geography",
		"Capital of Peru?,Lima|Cusco,Lima," + "1",
		"Bad answer?,a|b,c,Geography",
		"Unknown category?,a|b,a,Astronomy",
		"Existing?,yes|no,yes,Geography",
		"Too,few",
	}, "\n")

	report, err := s.Import(context.Background(), admin, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Total != 6 || report.Imported != 2 || len(report.Failed) != 4 {
		t.Fatalf("unexpected report: %+v", report)
	}
	wantRows := []int{4, 5, 6, 7}
	for i, f := range report.Failed {
		if f.Row != wantRows[i] || f.Error == "" {
			t.Fatalf("failure %d = %+v, want row %d", i, f, wantRows[i])
		}
	}

	var count int64
	db.Model(&model.MCQ{}).Where("category_id = ?", category.ID).Count(&count)
	if count != 3 {
		t.Fatalf("category has %d questions, want 3", count)
	}

	if !strings.HasPrefix(report.Archive, "/uploads/imports/mcq/") {
		t.Fatalf("unexpected archive url %q", report.Archive)
	}
	archived, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(report.Archive, "/uploads/")))
	if err != nil || string(archived) != csvData {
		t.Fatalf("archive not written: %v", err)
	}
}

func TestMCQImportRejectsBadHeader(t *testing.T) {
	s, _, admin, _, _ := newMCQService(t)
	ctx := context.Background()

	if _, err := s.Import(ctx, admin, strings.NewReader("question,answer\nQ,a")); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("missing columns: expected ErrValidation, got %v", err)
	}
	if _, err := s.Import(ctx, admin, strings.NewReader("")); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("empty file: expected ErrValidation, got %v", err)
	}
}
