package testutil

import (
	"strings"
	"testing"
)

func TestFixtureExists(t *testing.T) {
	if !FixtureExists(t, "plans/users.yaml") {
		t.Error("expected plans/users.yaml fixture to exist")
	}
	if FixtureExists(t, "plans/nonexistent.yaml") {
		t.Error("expected nonexistent fixture to be missing")
	}
}

func TestLoadFixture(t *testing.T) {
	content := LoadFixture(t, "plans/users.yaml")
	if !strings.Contains(content, "create_table") {
		t.Errorf("unexpected fixture content:\n%s", content)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := findProjectRoot(t)
	if !strings.HasSuffix(FixturePath(t, "x"), "testdata/x") || root == "" {
		t.Errorf("FixturePath did not resolve under %s", root)
	}
}
