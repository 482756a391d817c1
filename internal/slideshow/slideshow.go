package slideshow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
	"github.com/gustafedn/atelier/internal/jobs"
)

// DefaultInterval is the time each photo stays on screen.
const DefaultInterval = 10 * time.Second

// Frame is one displayed photo. Slot alternates 0 and 1 so the consumer
// can crossfade between two stacked image pairs, one pair for desktop and
// one for mobile.
type Frame struct {
	Photo collection.Photo
	Index int
	Slot  int
}

// Preloader warms an image URL ahead of display. Failures are logged and
// otherwise ignored; the rotation never stalls on a preload.
type Preloader func(ctx context.Context, src string) error

// FrameFunc receives each frame as it becomes current.
type FrameFunc func(frame Frame)

// Slideshow advances through a playlist on a fixed interval, preloading
// the next two photos after each frame.
type Slideshow struct {
	playlist []collection.Photo
	interval time.Duration
	logger   *slog.Logger
	preload  Preloader
	onFrame  FrameFunc
	metrics  *jobs.Metrics

	// newTicker is swappable in tests.
	newTicker func(d time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	index   int
	slot    int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a Slideshow over a playlist. preload and onFrame may be nil.
func New(playlist []collection.Photo, interval time.Duration, preload Preloader, onFrame FrameFunc, logger *slog.Logger) *Slideshow {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Slideshow{
		playlist: playlist,
		interval: interval,
		logger:   logger,
		preload:  preload,
		onFrame:  onFrame,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// SetMetrics attaches background-task metrics. Call before Start.
func (s *Slideshow) SetMetrics(m *jobs.Metrics) {
	s.metrics = m
}

// Start shows the first photo and begins the rotation. Starting an empty
// or already running slideshow is a no-op.
func (s *Slideshow) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running || len(s.playlist) == 0 {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.index = 0
	s.slot = 0
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	s.show(ctx, 0, 0)

	go func() {
		defer close(done)
		ticks, cancel := s.newTicker(s.interval)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticks:
				s.advance(ctx)
			}
		}
	}()
}

// Stop halts the rotation and waits for the ticker goroutine to exit.
// The current frame stays on screen.
func (s *Slideshow) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the rotation is active.
func (s *Slideshow) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Current returns the index of the photo on screen.
func (s *Slideshow) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Slideshow) advance(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.index = (s.index + 1) % len(s.playlist)
	s.slot = 1 - s.slot
	index, slot := s.index, s.slot
	s.mu.Unlock()

	s.show(ctx, index, slot)
}

func (s *Slideshow) show(ctx context.Context, index, slot int) {
	start := time.Now()
	photo := s.playlist[index]
	if s.onFrame != nil {
		s.onFrame(Frame{Photo: photo, Index: index, Slot: slot})
	}
	if s.metrics != nil {
		s.metrics.IncJobsTotal(jobs.JobTypeSlideshowAdvance, jobs.StatusSuccess)
		s.metrics.ObserveJobDuration(jobs.JobTypeSlideshowAdvance, time.Since(start).Seconds())
	}

	n := len(s.playlist)
	if s.preload == nil || n < 2 {
		return
	}
	for _, ahead := range []int{1, 2} {
		next := s.playlist[(index+ahead)%n]
		if err := s.preload(ctx, next.Src); err != nil {
			s.logger.Warn("failed to preload slideshow photo", "src", next.Src, "error", err)
			if s.metrics != nil {
				s.metrics.IncJobErrors(jobs.JobTypePhotoPreload, "preload_failed")
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.IncJobsTotal(jobs.JobTypePhotoPreload, jobs.StatusSuccess)
		}
	}
}
