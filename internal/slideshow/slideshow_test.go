package slideshow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gustafedn/atelier/internal/collection"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) record(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *frameRecorder) all() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func manualTicker() (chan time.Time, func(d time.Duration) (<-chan time.Time, func())) {
	ticks := make(chan time.Time)
	return ticks, func(d time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}
}

func threePhotoPlaylist() []collection.Photo {
	return []collection.Photo{{Src: "a.jpg"}, {Src: "b.jpg"}, {Src: "c.jpg"}}
}

func TestSlideshowAdvancesPerTick(t *testing.T) {
	rec := &frameRecorder{}
	s := New(threePhotoPlaylist(), DefaultInterval, nil, rec.record, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	// Two intervals elapse within a 25 second window.
	ticks <- time.Now()
	ticks <- time.Now()
	s.Stop()

	frames := rec.all()
	if len(frames) != 3 {
		t.Fatalf("Expected initial frame plus 2 advances, got %d frames", len(frames))
	}
	if frames[0].Index != 0 || frames[1].Index != 1 || frames[2].Index != 2 {
		t.Errorf("Expected indexes 0,1,2, got %+v", frames)
	}
}

func TestSlideshowSlotsAlternate(t *testing.T) {
	rec := &frameRecorder{}
	s := New(threePhotoPlaylist(), DefaultInterval, nil, rec.record, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	ticks <- time.Now()
	ticks <- time.Now()
	ticks <- time.Now()
	s.Stop()

	frames := rec.all()
	want := []int{0, 1, 0, 1}
	if len(frames) != len(want) {
		t.Fatalf("Expected %d frames, got %d", len(want), len(frames))
	}
	for i, slot := range want {
		if frames[i].Slot != slot {
			t.Errorf("Expected slot %d at frame %d, got %d", slot, i, frames[i].Slot)
		}
	}
}

func TestSlideshowWrapsPlaylist(t *testing.T) {
	rec := &frameRecorder{}
	s := New([]collection.Photo{{Src: "a.jpg"}, {Src: "b.jpg"}}, DefaultInterval, nil, rec.record, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	ticks <- time.Now()
	ticks <- time.Now()
	s.Stop()

	frames := rec.all()
	if frames[len(frames)-1].Index != 0 {
		t.Errorf("Expected wrap back to first photo, got index %d", frames[len(frames)-1].Index)
	}
}

func TestSlideshowPreloadsNextTwo(t *testing.T) {
	var (
		mu       sync.Mutex
		preloads []string
	)
	preload := func(ctx context.Context, src string) error {
		mu.Lock()
		preloads = append(preloads, src)
		mu.Unlock()
		return nil
	}
	s := New(threePhotoPlaylist(), DefaultInterval, preload, nil, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	s.Stop()
	_ = ticks

	mu.Lock()
	defer mu.Unlock()
	if len(preloads) != 2 || preloads[0] != "b.jpg" || preloads[1] != "c.jpg" {
		t.Errorf("Expected preload of next two photos, got %v", preloads)
	}
}

func TestSlideshowPreloadFailureDoesNotStall(t *testing.T) {
	rec := &frameRecorder{}
	preload := func(ctx context.Context, src string) error {
		return errors.New("network down")
	}
	s := New(threePhotoPlaylist(), DefaultInterval, preload, rec.record, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	ticks <- time.Now()
	s.Stop()

	if len(rec.all()) != 2 {
		t.Errorf("Expected rotation to continue past preload failures, got %d frames", len(rec.all()))
	}
}

func TestSlideshowEmptyPlaylistNoOp(t *testing.T) {
	s := New(nil, DefaultInterval, nil, func(Frame) {
		t.Error("Expected no frames from empty playlist")
	}, nil)

	s.Start(context.Background())
	if s.Running() {
		t.Error("Expected empty slideshow not to run")
	}
	s.Stop()
}

func TestSlideshowStopIsIdempotent(t *testing.T) {
	s := New(threePhotoPlaylist(), DefaultInterval, nil, nil, nil)
	_, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("Expected slideshow stopped")
	}
}

func TestSlideshowDoubleStartKeepsOneRotation(t *testing.T) {
	rec := &frameRecorder{}
	s := New(threePhotoPlaylist(), DefaultInterval, nil, rec.record, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker

	s.Start(context.Background())
	s.Start(context.Background())
	ticks <- time.Now()
	s.Stop()

	frames := rec.all()
	if len(frames) != 2 {
		t.Errorf("Expected one initial frame and one advance, got %d", len(frames))
	}
}

func TestSlideshowContextCancelStopsRotation(t *testing.T) {
	s := New(threePhotoPlaylist(), DefaultInterval, nil, nil, nil)
	ticks, newTicker := manualTicker()
	s.newTicker = newTicker
	_ = ticks

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	// The goroutine exits on its own; Stop must not hang.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected Stop to return after context cancellation")
	}
}
