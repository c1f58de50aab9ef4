package render

import (
	"sync"
	"time"

	"github.com/brightlane/school-cms/internal/blocks"
)

// TickerFactory builds the autoplay tick source. The returned cancel func
// must release the underlying timer.
type TickerFactory func(interval time.Duration) (<-chan time.Time, func())

func defaultTicker(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Carousel owns the active-slide state machine for one rendered carousel
// block. Each instance holds its own index and timer; nothing is shared
// across carousels.
type Carousel struct {
	mu        sync.Mutex
	config    blocks.CarouselProps
	index     int
	displayed bool
	running   bool
	stop      chan struct{}
	ticker    TickerFactory
}

// CarouselOption configures a carousel instance.
type CarouselOption func(*Carousel)

// WithTickerFactory overrides the autoplay tick source.
func WithTickerFactory(factory TickerFactory) CarouselOption {
	return func(c *Carousel) {
		if factory != nil {
			c.ticker = factory
		}
	}
}

// NewCarousel constructs a carousel over the given configuration. The timer
// does not start until Start is called.
func NewCarousel(config blocks.CarouselProps, opts ...CarouselOption) *Carousel {
	c := &Carousel{
		config: config,
		ticker: defaultTicker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index returns the active slide index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Advance performs one autoplay step: wrap when looping, clamp at the last
// slide otherwise. Returns the resulting index.
func (c *Carousel) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.config.Slides)
	if n == 0 {
		return c.index
	}
	if c.config.Loop {
		c.index = (c.index + 1) % n
	} else if c.index < n-1 {
		c.index++
	}
	return c.index
}

// Next moves to the following slide. Manual navigation wraps regardless of
// the loop setting.
func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.config.Slides)
	if n == 0 {
		return c.index
	}
	c.index = (c.index + 1) % n
	return c.index
}

// Prev moves to the preceding slide, wrapping to the end from the first.
func (c *Carousel) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.config.Slides)
	if n == 0 {
		return c.index
	}
	if c.index > 0 {
		c.index--
	} else {
		c.index = n - 1
	}
	return c.index
}

// Select jumps to a slide directly (dot navigation). Out-of-range indexes
// are ignored.
func (c *Carousel) Select(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.config.Slides) {
		c.index = index
	}
	return c.index
}

// Start puts the carousel on display and launches the autoplay timer. The
// timer itself is skipped when autoplay is disabled, already running, or
// there is nothing to advance to.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = true
	c.startLocked()
}

func (c *Carousel) startLocked() {
	if c.running || !c.config.Autoplay || len(c.config.Slides) < 2 {
		return
	}
	interval := time.Duration(c.config.AutoplaySpeed) * time.Millisecond
	if interval <= 0 {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	c.running = true

	go func() {
		ticks, cancel := c.ticker(interval)
		defer cancel()
		for {
			select {
			case <-stop:
				return
			case <-ticks:
				c.Advance()
			}
		}
	}()
}

// Stop takes the carousel off display and cancels the autoplay timer. Safe
// to call repeatedly; must be called when the carousel leaves the display so
// no timer leaks.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = false
	c.stopLocked()
}

func (c *Carousel) stopLocked() {
	if !c.running {
		return
	}
	close(c.stop)
	c.stop = nil
	c.running = false
}

// Configure replaces the carousel configuration. While the carousel is on
// display, a change to any field that affects timing restarts the timer,
// including switching autoplay on for the first time; the active index is
// clamped into the new slide range.
func (c *Carousel) Configure(config blocks.CarouselProps) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timingChanged := config.Autoplay != c.config.Autoplay ||
		config.AutoplaySpeed != c.config.AutoplaySpeed ||
		config.Loop != c.config.Loop ||
		len(config.Slides) != len(c.config.Slides)

	c.config = config
	if n := len(config.Slides); n == 0 {
		c.index = 0
	} else if c.index >= n {
		c.index = n - 1
	}

	if timingChanged && c.displayed {
		c.stopLocked()
		c.startLocked()
	}
}
