package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("log filename = %s, want %s", filepath.Base(got), defaultLogFilename)
	}

	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir: %v", err)
	}
	realGot, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve log dir: %v", err)
	}
	if want := filepath.Join(realTmpDir, defaultLogDirName); realGot != want {
		t.Fatalf("log dir = %s, want %s", realGot, want)
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
}

func TestReleaseModeWritesFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{
		Dir:      tmpDir,
		Filename: "api.log",
	})
	log.Info("order_placed SH202608300001")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "api.log"))
	if err != nil {
		t.Fatalf("read api.log: %v", err)
	}
	if !strings.Contains(string(content), "order_placed SH202608300001") {
		t.Fatalf("log line missing from file, got=%s", string(content))
	}
}

func TestDebugModeStaysOnConsole(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{
		Dir:      tmpDir,
		Filename: "api.log",
	})
	log.Info("cart_item_added")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "api.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode must not create a log file")
	}
}
