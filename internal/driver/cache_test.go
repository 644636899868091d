package driver

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func TestCachePutGet(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheAt: %v", err)
	}

	key := cacheKey("example.com/m/colors", sha256.Sum256([]byte("src")), "_variants.go", "")
	in := &Payload{
		Schema:  cacheSchemaVersion,
		PkgPath: "example.com/m/colors",
		Outputs: []OutputMeta{
			{Path: "/tmp/color_variants.go", Hash: sha256.Sum256([]byte("frag"))},
		},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out Payload
	ok, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if out.PkgPath != in.PkgPath {
		t.Errorf("PkgPath = %q, want %q", out.PkgPath, in.PkgPath)
	}
	if len(out.Outputs) != 1 || out.Outputs[0] != in.Outputs[0] {
		t.Errorf("Outputs = %+v, want %+v", out.Outputs, in.Outputs)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheAt: %v", err)
	}
	var out Payload
	ok, err := cache.Get(cacheKey("example.com/none", [32]byte{}, "", ""), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestCacheRejectsStaleSchema(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheAt: %v", err)
	}

	key := cacheKey("example.com/m", [32]byte{1}, "", "")
	stale := &Payload{Schema: cacheSchemaVersion + 1, PkgPath: "example.com/m"}
	if err := cache.Put(key, stale); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out Payload
	ok, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("entries with a different schema must read as misses")
	}
}

func TestCacheNilReceiver(t *testing.T) {
	var cache *Cache
	if err := cache.Put([32]byte{}, &Payload{}); err != nil {
		t.Errorf("Put on nil cache: %v", err)
	}
	var out Payload
	ok, err := cache.Get([32]byte{}, &out)
	if err != nil || ok {
		t.Errorf("Get on nil cache = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestCacheKeySensitivity(t *testing.T) {
	digest := sha256.Sum256([]byte("content"))
	base := cacheKey("example.com/m", digest, "_variants.go", "")

	if cacheKey("example.com/m", digest, "_variants.go", "") != base {
		t.Error("identical inputs must produce identical keys")
	}
	if cacheKey("example.com/other", digest, "_variants.go", "") == base {
		t.Error("package path must influence the key")
	}
	if cacheKey("example.com/m", sha256.Sum256([]byte("changed")), "_variants.go", "") == base {
		t.Error("source digest must influence the key")
	}
	if cacheKey("example.com/m", digest, "_enum.go", "") == base {
		t.Error("suffix must influence the key")
	}
	if cacheKey("example.com/m", digest, "_variants.go", "custom header") == base {
		t.Error("header must influence the key")
	}
}

func TestOutputsUpToDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "color_variants.go")
	content := []byte("package colors\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fresh := &Payload{Outputs: []OutputMeta{{Path: path, Hash: sha256.Sum256(content)}}}
	if !outputsUpToDate(fresh) {
		t.Error("expected outputs to be up to date")
	}

	stale := &Payload{Outputs: []OutputMeta{{Path: path, Hash: sha256.Sum256([]byte("edited"))}}}
	if outputsUpToDate(stale) {
		t.Error("expected a changed file to invalidate the entry")
	}

	missing := &Payload{Outputs: []OutputMeta{{Path: filepath.Join(dir, "gone.go"), Hash: sha256.Sum256(content)}}}
	if outputsUpToDate(missing) {
		t.Error("expected a missing file to invalidate the entry")
	}

	empty := &Payload{}
	if !outputsUpToDate(empty) {
		t.Error("an entry without outputs is trivially up to date")
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageInspect, "inspect"},
		{StageValidate, "validate"},
		{StageSynth, "synth"},
		{StageWrite, "write"},
		{StageCached, "cached"},
		{StageDone, "done"},
		{Stage(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
