package relation

import (
	"context"
	"sync"
	"time"

	"github.com/wanderkit/cms/internal/schema"
)

const DefaultDebounce = 350 * time.Millisecond

// Searcher debounces option searches for one field. Only the most recent
// term is fetched; a superseded request is cancelled and its result, if it
// arrives anyway, is discarded rather than delivered.
type Searcher struct {
	resolver *Resolver
	field    schema.Field
	delay    time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	cancel context.CancelFunc
}

func NewSearcher(resolver *Resolver, field schema.Field, delay time.Duration) *Searcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Searcher{resolver: resolver, field: field, delay: delay}
}

// Search schedules a page-1 fetch for term after the debounce window.
// deliver runs with the fetched options only if no newer search has been
// issued meanwhile.
func (s *Searcher) Search(term string, deliver func([]Option)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.delay, func() {
		ctx, cancel := context.WithCancel(context.Background())

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			cancel()
			return
		}
		s.cancel = cancel
		s.mu.Unlock()

		options, _, err := s.resolver.FetchOptions(ctx, s.field, Query{Page: 1, Search: term})

		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()

		// Cancellation of a superseded search is silent, not an error.
		if stale || err != nil {
			return
		}
		if deliver != nil {
			deliver(options)
		}
	})
}

// Flush cancels any scheduled fetch; used when the owning view unmounts.
func (s *Searcher) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
