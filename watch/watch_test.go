package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDebounce(t *testing.T) {
	d := debouncer{last: map[string]time.Time{}}
	t0 := time.Unix(0, 0)
	steps := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{"a", 0, true},
		{"a", 50 * time.Millisecond, false},
		{"b", 60 * time.Millisecond, true},
		{"a", 150 * time.Millisecond, true},
	}
	for _, s := range steps {
		if got := d.accept(s.name, t0.Add(s.at)); got != s.want {
			t.Fatalf("accept(%s, %v) = %v, want %v", s.name, s.at, got, s.want)
		}
	}
}

func TestWatchReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "hall.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(target)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(`{"x":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	want, _ := filepath.Abs(target)
	select {
	case got := <-w.Events:
		if got != want {
			t.Fatalf("event for %s, want %s", got, want)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("no event for %s", target)
	}
}

func TestCloseTwice(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "x.yaml"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	w.Close()
	if _, ok := <-w.Events; ok {
		t.Fatalf("Events still open")
	}
}
