package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/waste-pickup/internal/apperror"
	"github.com/iliyamo/waste-pickup/internal/queue"
)

// fixedNow is "today" for every test in this package.
var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []queue.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.BookingEvent(nil), p.events...)
}

func codeOf(err error) string {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func detailsOf(err error) map[string]string {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		return ae.Details
	}
	return nil
}
