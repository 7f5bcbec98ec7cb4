// Package playback drives player state for a horizontally paged video
// list. Scroll position decides which item gets presentational emphasis;
// actual playback starts only on an explicit user tap.
package playback

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VisibilityEntry reports one item's visibility after a scroll settles.
type VisibilityEntry struct {
	ItemID  uuid.UUID
	Visible bool
}

// Controller keeps two separate pieces of state per list: the emphasized
// item (scroll-driven) and the playing item (tap-driven). Items never
// auto-play. Playback is exclusive: starting one item evicts whichever
// item was playing before.
type Controller struct {
	logger zerolog.Logger

	mu      sync.Mutex
	active  uuid.UUID
	playing uuid.UUID
	onEvict func(uuid.UUID)
}

type Options struct {
	Logger zerolog.Logger
	// OnEvict is called with the item whose playback was stopped because
	// another item started. Called outside the controller lock. Optional.
	OnEvict func(itemID uuid.UUID)
}

func New(opts Options) *Controller {
	return &Controller{
		logger:  opts.Logger.With().Str("component", "playback").Logger(),
		onEvict: opts.OnEvict,
	}
}

// OnVisibilityChanged applies one batch of visibility entries. The first
// visible entry becomes the emphasized item; the earliest item crossing
// the threshold wins ties because it is reported first. An empty batch
// changes nothing.
func (c *Controller) OnVisibilityChanged(entries []VisibilityEntry) {
	for _, e := range entries {
		if !e.Visible {
			continue
		}
		c.mu.Lock()
		c.active = e.ItemID
		c.mu.Unlock()
		return
	}
}

// ActiveItem returns the emphasized item, if any.
func (c *Controller) ActiveItem() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != uuid.Nil
}

func (c *Controller) IsActive(itemID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return itemID != uuid.Nil && c.active == itemID
}

// RequestPlay starts playback of itemID in response to a user tap and
// stops whichever item was playing before.
func (c *Controller) RequestPlay(itemID uuid.UUID) {
	if itemID == uuid.Nil {
		return
	}

	c.mu.Lock()
	evicted := c.playing
	c.playing = itemID
	c.mu.Unlock()

	if evicted != uuid.Nil && evicted != itemID {
		c.logger.Debug().
			Str("evicted", evicted.String()).
			Str("playing", itemID.String()).
			Msg("playback switched")
		if c.onEvict != nil {
			c.onEvict(evicted)
		}
	}
}

// OnPlaybackEnded resets itemID's play state when its stream reaches
// end-of-stream. Other items are unaffected.
func (c *Controller) OnPlaybackEnded(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing == itemID {
		c.playing = uuid.Nil
	}
}

func (c *Controller) IsPlaying(itemID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return itemID != uuid.Nil && c.playing == itemID
}

func (c *Controller) PlayingItem() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing, c.playing != uuid.Nil
}
