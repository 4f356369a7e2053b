package server

import (
	"context"
	"errors"
	"io"

	"duel-tracker/internal/events"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Worker is a background loop that runs for as long as the host does.
type Worker interface {
	Run(ctx context.Context) error
}

// Host reads the event feed into the dispatcher. It stops once the feed is
// exhausted and every queued event has been handled, or when ctx is done.
type Host struct {
	dispatcher *Dispatcher
	feed       io.Reader
	workers    []Worker
	logger     zerolog.Logger
}

func NewHost(dispatcher *Dispatcher, feed io.Reader, logger zerolog.Logger, workers ...Worker) *Host {
	return &Host{
		dispatcher: dispatcher,
		feed:       feed,
		workers:    workers,
		logger:     logger,
	}
}

func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	inbox := h.dispatcher.Events()
	reader := events.NewReader(h.feed, h.logger)

	g.Go(func() error {
		defer close(inbox)
		return reader.Run(gCtx, inbox)
	})
	g.Go(func() error {
		defer cancel()
		return h.dispatcher.Run(gCtx)
	})
	for _, w := range h.workers {
		g.Go(func() error {
			return w.Run(gCtx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	h.logger.Info().Err(err).Msg("host stopped")
	return err
}
