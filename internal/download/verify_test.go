// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifyTreeFlagsBrokenFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Math"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	broken := filepath.Join(root, "Math", "broken.pdf")
	if err := os.WriteFile(broken, []byte("<html>not a pdf</html>"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	// Non-PDF extensions are not checked.
	if err := os.WriteFile(filepath.Join(root, "Math", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	var out bytes.Buffer
	result, err := VerifyTree(root, &out)
	if err != nil {
		t.Fatalf("VerifyTree(): %v", err)
	}
	if result.Checked != 1 || result.Valid != 0 {
		t.Errorf("result = %+v", result)
	}
	if _, ok := result.Broken[broken]; !ok {
		t.Errorf("broken file not reported: %+v", result.Broken)
	}
	if !strings.Contains(out.String(), "broken: ") {
		t.Errorf("status output:\n%s", out.String())
	}
}

func TestVerifyTreeEmpty(t *testing.T) {
	var out bytes.Buffer
	result, err := VerifyTree(t.TempDir(), &out)
	if err != nil {
		t.Fatalf("VerifyTree(): %v", err)
	}
	if result.Checked != 0 || result.Valid != 0 || len(result.Broken) != 0 {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(out.String(), "Verified 0 file(s)") {
		t.Errorf("status output:\n%s", out.String())
	}
}
