package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var ErrNotFound = errors.New("ffmpeg not found")

// Locate returns the ffmpeg binary to run. An explicit path must point
// to an existing file; otherwise ffmpeg is looked up on PATH.
func Locate(override string) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, override)
		}
		return override, nil
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf(
			"%w on PATH: install ffmpeg or pass --ffmpeg",
			ErrNotFound,
		)
	}
	return path, nil
}
