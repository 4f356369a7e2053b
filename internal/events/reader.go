package events

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Reader parses a line-oriented event feed.
type Reader struct {
	src    io.Reader
	logger zerolog.Logger
}

func NewReader(src io.Reader, logger zerolog.Logger) *Reader {
	return &Reader{src: src, logger: logger.With().Str("component", "feed").Logger()}
}

// Run sends every parsed event to out until the feed ends or ctx is done.
// Malformed lines are logged and skipped. Run does not close out.
func (r *Reader) Run(ctx context.Context, out chan<- domain.Event) error {
	scanner := bufio.NewScanner(r.src)
	scanner.Buffer(make([]byte, 0, 4096), constants.MaxFeedLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ev, err := Parse(scanner.Text())
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			r.logger.Warn().Err(err).Int("line", lineNo).Msg("skipping feed line")
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event feed: %w", err)
	}
	r.logger.Info().Int("lines", lineNo).Msg("event feed ended")
	return nil
}
