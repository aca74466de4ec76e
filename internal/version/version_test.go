package version

import (
	"strings"
	"testing"
)

func TestVersionPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestFull(t *testing.T) {
	got := Full()
	if !strings.Contains(got, Version) || !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("Full() = %q", got)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc1234", GoVersion: "go1.24.0", Platform: "linux/amd64"}
	s := info.String()
	for _, want := range []string{"slidecast v1.0.0", "abc1234", "go1.24.0", "linux/amd64"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestGet(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "abc1234-dirty"
	if !Get().Modified {
		t.Error("dirty commit should report Modified")
	}
	Commit = "abc1234"
	if Get().Modified {
		t.Error("clean commit reported Modified")
	}
}
