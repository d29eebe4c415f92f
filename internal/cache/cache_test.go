package cache

import (
	"crypto/sha256"
	"path/filepath"
	"reflect"
	"testing"

	"loupe/internal/diag"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenAt(filepath.Join(t.TempDir(), "loupe"))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)
	key := Key(sha256.Sum256([]byte("content")), "fp:v1")

	want := diag.FileResult{
		FilePath:    "app.py",
		LinesOfCode: 12,
		Language:    "python",
		Issues: []diag.Issue{{
			FilePath: "app.py",
			Line:     3,
			Severity: diag.SevHigh,
			Kind:     "sql_injection",
			RuleID:   "sql-injection",
			Message:  "SQL query built from string concatenation or interpolation",
			Metadata: map[string]string{"sink_scope": "function"},
		}},
	}
	if err := c.Put(key, want); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("stored entry not found")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGet_MissIsNotAnError(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get(Key(sha256.Sum256([]byte("never stored")), "fp"))
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if ok {
		t.Fatal("miss reported as hit")
	}
}

func TestKey_FingerprintSeparatesEntries(t *testing.T) {
	hash := sha256.Sum256([]byte("same content"))
	if Key(hash, "rules:v1") == Key(hash, "rules:v2") {
		t.Fatal("different fingerprints collide")
	}

	c := openTestCache(t)
	if err := c.Put(Key(hash, "rules:v1"), diag.FileResult{FilePath: "a.py"}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(Key(hash, "rules:v2")); ok {
		t.Fatal("config change did not invalidate the entry")
	}
}

func TestDropAll(t *testing.T) {
	c := openTestCache(t)
	key := Key(sha256.Sum256([]byte("x")), "fp")
	if err := c.Put(key, diag.FileResult{FilePath: "x.py"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	if err := c.Put(Digest{}, diag.FileResult{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if _, ok, err := c.Get(Digest{}); ok || err != nil {
		t.Errorf("nil Get: ok=%v err=%v", ok, err)
	}
}
