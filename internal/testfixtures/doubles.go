package testfixtures

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/service"
)

// Publisher records published booking events.
type Publisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
	Err    error
}

// Publish records e, or returns Err when set.
func (p *Publisher) Publish(_ context.Context, e model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, e)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *Publisher) Events() []model.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.BookingEvent{}, p.events...)
}

// Images is an in-memory image store.
type Images struct {
	mu        sync.Mutex
	files     map[string][]byte
	seq       int
	SaveErr   error
	RemoveErr error
}

// NewImages returns an empty image store.
func NewImages() *Images {
	return &Images{files: make(map[string][]byte)}
}

// SaveUpload stores the upload under a sequential URL.
func (i *Images) SaveUpload(u service.Upload) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.SaveErr != nil {
		return "", i.SaveErr
	}
	data, err := io.ReadAll(u.File)
	if err != nil {
		return "", err
	}
	i.seq++
	url := fmt.Sprintf("/uploads/image-%d.png", i.seq)
	i.files[url] = data
	return url, nil
}

// Remove deletes url, or returns RemoveErr when set.
func (i *Images) Remove(url string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.RemoveErr != nil {
		return i.RemoveErr
	}
	delete(i.files, url)
	return nil
}

// Has reports whether url is currently stored.
func (i *Images) Has(url string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.files[url]
	return ok
}

// Count returns the number of stored images.
func (i *Images) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.files)
}

// Counter is an in-memory fixed-window counter for rate-limit tests.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int64
	Err    error
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int64)}
}

// Incr bumps key and returns the new value. The window is ignored.
func (c *Counter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	c.counts[key]++
	return c.counts[key], nil
}
