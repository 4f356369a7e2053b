package events

import (
	"fmt"
	"io"
	"os"
)

// OpenFeed opens the event feed at path. "-" reads standard input.
func OpenFeed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event feed: %w", err)
	}
	return f, nil
}
