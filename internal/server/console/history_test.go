package console

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory("")
	h.Add("pause")
	h.Add("unpause")

	if h.Get(0) != "unpause" {
		t.Errorf("Get(0) = %q, want unpause", h.Get(0))
	}
	if h.Get(1) != "pause" {
		t.Errorf("Get(1) = %q, want pause", h.Get(1))
	}
	if h.Get(2) != "" || h.Get(-1) != "" {
		t.Error("out of range Get should return empty string")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3
	for i := 0; i < 5; i++ {
		h.Add(fmt.Sprintf("cmd%d", i))
	}

	want := []string{"cmd2", "cmd3", "cmd4"}
	if got := h.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "console_history")

	h := NewHistory(file)
	h.Add("status")
	h.Add("show-logs")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("history file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.List(); !reflect.DeepEqual(got, []string{"status", "show-logs"}) {
		t.Errorf("loaded history = %v", got)
	}
}

func TestHistory_Load_NonexistentFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() of missing file error = %v", err)
	}
}

func TestHistory_InMemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("help")
	if err := h.Save(); err != nil {
		t.Errorf("Save() without file error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() without file error = %v", err)
	}
}
