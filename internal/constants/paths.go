// Package constants contains names for files and directories used by jmp.
package constants

const (
	// AppName is the directory name used under the XDG config and data homes.
	AppName = "jmp"

	// PadDir is the default store directory name, relative to the home directory.
	PadDir = ".jmp_pad"

	// TableBasename is the store file name without its backend extension.
	TableBasename = "jmp_table"

	// LockSuffix is appended to the store file name to form the advisory lock file.
	LockSuffix = ".lock"

	// LogFilename is the default log file name for jmp.
	LogFilename = "jmp.log"

	// ConfigFilename is the config file name inside the XDG config directory.
	ConfigFilename = "config.yml"
)
