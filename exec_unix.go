//go:build unix

package unarchive

import "golang.org/x/sys/unix"

// markExecutable sets the executable bits on the provisioned binary.
func markExecutable(path string) error {
	return unix.Chmod(path, 0755)
}
