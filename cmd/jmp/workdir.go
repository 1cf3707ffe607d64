package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// currentDir returns the shell's working directory. $PWD is preferred when
// it names the same directory as the process cwd, so bookmarks keep the
// symlinked path the user typed instead of the resolved one.
func currentDir(getenv func(string) string, getwd func() (string, error)) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	pwd := getenv("PWD")
	if pwd == "" || !filepath.IsAbs(pwd) || pwd == cwd {
		return cwd, nil
	}

	pwdInfo, err := os.Stat(pwd)
	if err != nil {
		return cwd, nil
	}
	cwdInfo, err := os.Stat(cwd)
	if err != nil {
		return cwd, nil
	}
	if !os.SameFile(pwdInfo, cwdInfo) {
		return cwd, nil
	}
	return filepath.Clean(pwd), nil
}
