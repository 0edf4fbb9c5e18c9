package service

import (
	"context"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/util"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: root})
	ctx := context.Background()

	url, err := s.Upload(ctx, "imports/a/b.csv", strings.NewReader("q,o"), 3, util.MimeCSV)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/uploads/imports/a/b.csv" || s.GetURL("imports/a/b.csv") != url {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(root, "imports", "a", "b.csv"))
	if err != nil || string(data) != "q,o" {
		t.Fatalf("file not written: %q, %v", data, err)
	}

	if err := s.Delete(ctx, "imports/a/b.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "imports", "a", "b.csv")); !os.IsNotExist(err) {
		t.Fatalf("file still exists: %v", err)
	}
}

func TestArchiveName(t *testing.T) {
	name := ArchiveName("imports/mcq", ".csv")
	pattern := regexp.MustCompile(`^imports/mcq/\d{4}-\d{2}-\d{2}/[0-9a-f-]{36}\.csv$`)
	if !pattern.MatchString(name) {
		t.Fatalf("unexpected archive name %q", name)
	}
	if ArchiveName("imports/mcq", ".csv") == name {
		t.Fatalf("archive names should be unique")
	}
}
