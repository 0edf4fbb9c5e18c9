package configwatcher

import (
	"context"
	"fmt"
	"mcq_quiz_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const configTemplate = `server:
  port: "8080"
  mode: %s
database:
  driver: postgres
jwt:
  secret: watcher-test-secret
storage:
  local_path: %s
`

func writeConfig(t *testing.T, path, mode string) {
	t.Helper()
	data := []byte(fmt.Sprintf(configTemplate, mode, filepath.Join(filepath.Dir(path), "uploads")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "debug")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 就绪
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, path, "release-candidate")

	select {
	case cfg := <-reloaded:
		if cfg.Server.Mode != "release-candidate" {
			t.Fatalf("reloaded mode = %q", cfg.Server.Mode)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WatchConfig: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}
