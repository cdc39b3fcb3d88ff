package gitcmd

import "regexp"

// ansiPattern matches ANSI escape sequences (SGR color codes, cursor
// movement) that Git's progress output uses when it detects a terminal.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes terminal escape sequences so progress lines handed to
// ProgressBus are plain text; renderers re-apply their own styling.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
