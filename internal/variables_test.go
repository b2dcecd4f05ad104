package internal

import "testing"

func TestVersionStringLocalBuild(t *testing.T) {
	// Without ldflags all three variables are unset, making this a local build.
	if !IsLocal() {
		t.Fatal("IsLocal = false for a build without ldflags")
	}
	if got := VersionString(); got != "(local)" {
		t.Errorf("VersionString = %q, want (local)", got)
	}
}

func TestVersionDefaults(t *testing.T) {
	if got := Version(); got != "(undefined)" {
		t.Errorf("Version = %q, want (undefined)", got)
	}
	if got := GitCommit(); got != "(undefined)" {
		t.Errorf("GitCommit = %q, want (undefined)", got)
	}
	if got := Stage(); got != "(undefined)" {
		t.Errorf("Stage = %q, want (undefined)", got)
	}
}

func TestModeToggles(t *testing.T) {
	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet = false after SetQuiet(true)")
	}
	SetQuiet(false)

	SetDebug(true)
	if !IsDebug() {
		t.Error("IsDebug = false after SetDebug(true)")
	}
	SetDebug(false)
}
