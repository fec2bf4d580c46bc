package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExportImport(t *testing.T) {
	src, _ := newTestStore(t)
	src.Set("prefix", "?")
	src.Set("ticket_55", map[string]any{"reason": "cannot log in", "is_open": true})

	file := filepath.Join(t.TempDir(), "snap.json")
	if err := ExportFile(src, file); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("export is not a JSON object: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("export has %d keys, want 2", len(parsed))
	}

	dst, _ := newTestStore(t)
	dst.Set("local_only", 1)
	n, err := ImportFile(dst, file)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d keys, want 2", n)
	}
	var p string
	dst.Lookup("prefix", &p)
	if p != "?" {
		t.Fatalf("prefix = %q", p)
	}
	if !dst.Contains("local_only") {
		t.Fatal("import dropped an existing key")
	}
}

func TestDecodeObject_Rejects(t *testing.T) {
	for _, in := range []string{`[1,2]`, `"str"`, `null`, `{bad`} {
		if _, err := DecodeObject([]byte(in)); err == nil {
			t.Errorf("DecodeObject(%s) should fail", in)
		}
	}
}

func TestImportFile_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := ImportFile(s, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("ImportFile on missing file should fail")
	}
}
