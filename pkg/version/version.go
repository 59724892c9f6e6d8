package version

import "fmt"

// Current defines the application version.
// It defaults to "dev" but is overwritten at build time using -ldflags.
var Current = "dev"

// Commit is the source revision, injected via ldflags alongside Current.
var Commit = ""

const AppName = "graphkit"

// String renders the version line printed by the CLI.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("%s %s", AppName, Current)
	}
	return fmt.Sprintf("%s %s (%s)", AppName, Current, Commit)
}
