package quiz

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePackYAML = `id: sample
name: Sample Pack
questions:
  - prompt: Pick A
    choices: [A, B]
    answer: 0
  - prompt: Pick C
    choices: [A, B, C]
    answer: 2
`

func TestParsePackYAML(t *testing.T) {
	pack, err := ParsePackYAML([]byte(samplePackYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pack.ID != "sample" || pack.Name != "Sample Pack" {
		t.Fatalf("pack identity wrong: %+v", pack)
	}
	if len(pack.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(pack.Questions))
	}
	if pack.Questions[1].Answer != 2 {
		t.Fatalf("answer index lost: %+v", pack.Questions[1])
	}
}

func TestParsePackYAMLRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty payload": "",
		"missing id": `name: X
questions:
  - prompt: P
    choices: [A, B]
    answer: 0
`,
		"no questions": `id: x
name: X
questions: []
`,
		"one choice": `id: x
name: X
questions:
  - prompt: P
    choices: [A]
    answer: 0
`,
		"answer out of range": `id: x
name: X
questions:
  - prompt: P
    choices: [A, B]
    answer: 5
`,
		"blank choice": `id: x
name: X
questions:
  - prompt: P
    choices: [A, "  "]
    answer: 0
`,
	}
	for name, payload := range cases {
		if _, err := ParsePackYAML([]byte(payload)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestBuiltinPackParses(t *testing.T) {
	pack, err := ParsePackYAML([]byte(defaultPackYAML))
	if err != nil {
		t.Fatalf("built-in pack invalid: %v", err)
	}
	if pack.ID != "starter" {
		t.Fatalf("built-in pack id = %s", pack.ID)
	}
	if len(pack.Questions) < 10 {
		t.Fatalf("built-in pack has %d questions, want at least 10", len(pack.Questions))
	}
}

func TestLoadPackDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte(samplePackYAML), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write decoy: %v", err)
	}
	packs, err := LoadPackDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(packs) != 1 || packs[0].Pack.ID != "sample" {
		t.Fatalf("unexpected packs: %+v", packs)
	}
}

func TestLoadPackDirMissingIsEmpty(t *testing.T) {
	packs, err := LoadPackDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if packs != nil {
		t.Fatalf("expected no packs, got %+v", packs)
	}
}

func TestLibraryIncludesBuiltinAndRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte(samplePackYAML), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	lib, err := NewLibrary(dir)
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if _, err := lib.Pack("starter"); err != nil {
		t.Fatalf("built-in pack missing: %v", err)
	}
	if _, err := lib.Pack("sample"); err != nil {
		t.Fatalf("user pack missing: %v", err)
	}
	if _, err := lib.Pack("ghost"); err == nil {
		t.Fatalf("unknown pack should error")
	}
	if ids := lib.IDs(); len(ids) != 2 || ids[0] != "starter" {
		t.Fatalf("library ids wrong: %v", ids)
	}

	clash := `id: starter
name: Clash
questions:
  - prompt: P
    choices: [A, B]
    answer: 0
`
	if err := os.WriteFile(filepath.Join(dir, "clash.yaml"), []byte(clash), 0o644); err != nil {
		t.Fatalf("write clash: %v", err)
	}
	if _, err := NewLibrary(dir); err == nil {
		t.Fatalf("duplicate pack id should be rejected")
	}
}
