package render

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/brightlane/school-cms/internal/blocks"
)

func carouselConfig(n int, loop, autoplay bool) blocks.CarouselProps {
	slides := make([]blocks.Slide, n)
	for i := range slides {
		slides[i] = blocks.Slide{URL: "slide.jpg"}
	}
	return blocks.CarouselProps{
		Slides:        slides,
		Autoplay:      autoplay,
		AutoplaySpeed: 3000,
		Loop:          loop,
	}
}

func TestCarouselAdvanceLoops(t *testing.T) {
	c := NewCarousel(carouselConfig(3, true, true))

	want := []int{1, 2, 0, 1}
	for _, expected := range want {
		if got := c.Advance(); got != expected {
			t.Fatalf("expected index %d, got %d", expected, got)
		}
	}
}

func TestCarouselAdvanceClampsWithoutLoop(t *testing.T) {
	const n = 4
	c := NewCarousel(carouselConfig(n, false, true))

	// Well past n advances the index must sit at the last slide.
	for i := 0; i < n*3; i++ {
		c.Advance()
	}
	if got := c.Index(); got != n-1 {
		t.Fatalf("expected clamp at %d, got %d", n-1, got)
	}
	if got := c.Advance(); got != n-1 {
		t.Fatalf("expected further advances to stay at %d, got %d", n-1, got)
	}
}

func TestCarouselManualNavigationWrapsAlways(t *testing.T) {
	c := NewCarousel(carouselConfig(3, false, false))

	// Prev from the first slide wraps to the last even when loop is off.
	if got := c.Prev(); got != 2 {
		t.Fatalf("expected wrap to 2, got %d", got)
	}
	if got := c.Next(); got != 0 {
		t.Fatalf("expected wrap to 0, got %d", got)
	}

	if got := c.Select(1); got != 1 {
		t.Fatalf("expected select 1, got %d", got)
	}
	if got := c.Select(99); got != 1 {
		t.Fatalf("expected out-of-range select ignored, got %d", got)
	}
}

func TestCarouselEmptyIsInert(t *testing.T) {
	c := NewCarousel(carouselConfig(0, true, true))
	if c.Advance() != 0 || c.Next() != 0 || c.Prev() != 0 {
		t.Fatalf("expected empty carousel to stay at 0")
	}
	c.Start()
	c.Stop()
}

func TestCarouselAutoplayTimerLifecycle(t *testing.T) {
	ticks := make(chan time.Time, 1)
	var cancelled atomic.Bool

	c := NewCarousel(carouselConfig(3, true, true), WithTickerFactory(func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { cancelled.Store(true) }
	}))

	c.Start()
	ticks <- time.Now()

	deadline := time.After(2 * time.Second)
	for c.Index() != 1 {
		select {
		case <-deadline:
			t.Fatalf("autoplay tick never advanced the index")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	c.Stop()
	for !cancelled.Load() {
		select {
		case <-deadline:
			t.Fatalf("stop did not release the timer")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCarouselStartIsNoOpWhenAutoplayDisabled(t *testing.T) {
	var started atomic.Bool
	c := NewCarousel(carouselConfig(3, true, false), WithTickerFactory(func(time.Duration) (<-chan time.Time, func()) {
		started.Store(true)
		return make(chan time.Time), func() {}
	}))

	c.Start()
	time.Sleep(5 * time.Millisecond)
	if started.Load() {
		t.Fatalf("timer started despite autoplay being off")
	}
}

func TestCarouselConfigureEnablesAutoplayWhileDisplayed(t *testing.T) {
	var starts atomic.Int32
	factory := func(time.Duration) (<-chan time.Time, func()) {
		starts.Add(1)
		return make(chan time.Time), func() {}
	}

	c := NewCarousel(carouselConfig(3, true, false), WithTickerFactory(factory))
	c.Start() // on display, autoplay still off

	c.Configure(carouselConfig(3, true, true))

	deadline := time.After(2 * time.Second)
	for starts.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("enabling autoplay via Configure never started the timer")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	c.Stop()

	// Off display, the same reconfiguration must not start anything.
	idle := NewCarousel(carouselConfig(3, true, false), WithTickerFactory(factory))
	before := starts.Load()
	idle.Configure(carouselConfig(3, true, true))
	time.Sleep(5 * time.Millisecond)
	if starts.Load() != before {
		t.Fatalf("timer started for a carousel that is not on display")
	}
}

func TestCarouselConfigureDisablesAutoplay(t *testing.T) {
	ticks := make(chan time.Time)
	var cancels atomic.Int32

	c := NewCarousel(carouselConfig(3, true, true), WithTickerFactory(func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { cancels.Add(1) }
	}))
	c.Start()

	c.Configure(carouselConfig(3, true, false))

	deadline := time.After(2 * time.Second)
	for cancels.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("disabling autoplay did not cancel the timer")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCarouselConfigureRestartsTimerAndClampsIndex(t *testing.T) {
	ticks := make(chan time.Time)
	var cancels atomic.Int32

	c := NewCarousel(carouselConfig(5, true, true), WithTickerFactory(func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() { cancels.Add(1) }
	}))
	c.Start()
	c.Select(4)

	// Shrinking the deck restarts the timer and pulls the index into range.
	c.Configure(carouselConfig(2, true, true))

	deadline := time.After(2 * time.Second)
	for cancels.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("configure did not cancel the previous timer")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if got := c.Index(); got != 1 {
		t.Fatalf("expected index clamped to 1, got %d", got)
	}

	c.Stop()
}
