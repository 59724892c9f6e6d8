package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit := Current, Commit
	defer func() { Current, Commit = oldVersion, oldCommit }()

	Current, Commit = "v1.2.0", ""
	if got := String(); got != "graphkit v1.2.0" {
		t.Errorf("String() = %q", got)
	}
	Commit = "abc123"
	if got := String(); got != "graphkit v1.2.0 (abc123)" {
		t.Errorf("String() = %q", got)
	}
}
