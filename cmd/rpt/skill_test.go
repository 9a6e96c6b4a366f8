// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates installation, overwrite and cancellation on an in-memory filesystem.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestSkillEmbedded(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}
	if !strings.HasPrefix(string(content), "---\nname: rpt\n") {
		t.Error("skill should start with frontmatter naming rpt")
	}
}

func TestInstallSkill(t *testing.T) {
	fsys := afero.NewMemMapFs()

	if err := installSkill(fsys, "/home/lifter", nil, true); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	got, err := afero.ReadFile(fsys, "/home/lifter/.claude/skills/rpt/SKILL.md")
	if err != nil {
		t.Fatalf("skill not written: %v", err)
	}
	want, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(got, want) {
		t.Error("installed skill differs from embedded skill")
	}

	// Installing again overwrites.
	if err := afero.WriteFile(fsys, skillPath("/home/lifter"), []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := installSkill(fsys, "/home/lifter", strings.NewReader("yes\n"), false); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	got, _ = afero.ReadFile(fsys, skillPath("/home/lifter"))
	if !bytes.Equal(got, want) {
		t.Error("expected skill to be overwritten")
	}
}

func TestInstallSkillCanceled(t *testing.T) {
	fsys := afero.NewMemMapFs()

	if err := installSkill(fsys, "/home/lifter", strings.NewReader("n\n"), false); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if exists, _ := afero.Exists(fsys, skillPath("/home/lifter")); exists {
		t.Error("skill should not be installed when canceled")
	}
}
