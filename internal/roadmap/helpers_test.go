package roadmap

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// testDataDir returns the testdata directory path.
func testDataDir(t *testing.T) string {
	t.Helper()

	// Get the directory where this test file is located
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// loadFixture decodes testdata/<name>.
func loadFixture(t *testing.T, name string) *Roadmap {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(testDataDir(t), name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	r, err := Decode(data)
	if err != nil {
		t.Fatalf("decoding fixture %s: %v", name, err)
	}
	return r
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parsing time %q: %v", s, err)
	}
	return ts
}
