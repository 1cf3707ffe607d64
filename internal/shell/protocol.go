// Package shell holds the stdout protocol shared by the jmp binary and its
// shell wrapper, and renders the wrapper for each supported shell.
package shell

// Sentinel prefixes the single stdout line that asks the wrapper to cd.
const Sentinel = "bash: "

// Previous is the cd target that returns to the previous directory.
const Previous = "-"

// ChdirLine returns the protocol line for path, without a trailing newline.
func ChdirLine(path string) string {
	return Sentinel + path
}
