package util

import "os"

// IsRunningInDocker reports whether the process runs inside a container.
// Used to refuse creating a fresh sqlite file that should be a volume mount
func IsRunningInDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
