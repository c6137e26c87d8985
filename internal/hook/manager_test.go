package hook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeHook creates dir/<name>/hook.json for the given manifest.
func writeHook(t *testing.T, dir string, m Manifest) string {
	t.Helper()

	hookDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return hookDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	hookDir := writeHook(t, tmpDir, Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "Desktop notifications",
		Executable:  "notify",
		Events:      []string{"game_over"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	h := hooks[0]
	if h.Manifest.Name != "notify" {
		t.Errorf("expected name 'notify', got %q", h.Manifest.Name)
	}
	if h.Path != hookDir {
		t.Errorf("expected path %q, got %q", hookDir, h.Path)
	}
	if want := filepath.Join(hookDir, "notify"); h.Executable != want {
		t.Errorf("expected executable %q, got %q", want, h.Executable)
	}
}

func TestManager_DiscoverSkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	writeHook(t, tmpDir, Manifest{Name: "good", Executable: "run", Events: []string{"clear"}})

	// Broken JSON.
	bad := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	// No executable.
	writeHook(t, tmpDir, Manifest{Name: "noexec", Events: []string{"clear"}})

	// Directory without a manifest and a stray file.
	if err := os.MkdirAll(filepath.Join(tmpDir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "README"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 || hooks[0].Manifest.Name != "good" {
		t.Fatalf("expected only 'good', got %d hooks", len(hooks))
	}
}

func TestManager_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir should not fail: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no hooks")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeHook(t, tmpDir, Manifest{Name: "notify", Executable: "notify"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatal(err)
	}

	if _, err := manager.Get("notify"); err != nil {
		t.Errorf("Get(notify) error = %v", err)
	}
	if _, err := manager.Get("nope"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrHookNotFound", err)
	}
}

func TestManager_Subscribed(t *testing.T) {
	tmpDir := t.TempDir()
	writeHook(t, tmpDir, Manifest{Name: "b-over", Executable: "x", Events: []string{"game_over"}})
	writeHook(t, tmpDir, Manifest{Name: "a-all", Executable: "x", Events: []string{"*"}})
	writeHook(t, tmpDir, Manifest{Name: "c-clear", Executable: "x", Events: []string{"clear", "drop"}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		event string
		want  []string
	}{
		{"game_over", []string{"a-all", "b-over"}},
		{"clear", []string{"a-all", "c-clear"}},
		{"pause", []string{"a-all"}},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			got := manager.Subscribed(tt.event)
			if len(got) != len(tt.want) {
				t.Fatalf("Subscribed(%s) = %d hooks, want %d", tt.event, len(got), len(tt.want))
			}
			for i, h := range got {
				if h.Manifest.Name != tt.want[i] {
					t.Errorf("hook %d = %s, want %s", i, h.Manifest.Name, tt.want[i])
				}
			}
		})
	}
}
