//go:build !unix

package unarchive

// markExecutable is a no-op where the executable bit does not exist.
func markExecutable(path string) error {
	return nil
}
