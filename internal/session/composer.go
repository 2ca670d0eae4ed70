package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/ops"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Composer stacks filters from one catalog. Every change replays the whole
// list from the baseline.
type Composer struct {
	s         *Session
	catalog   ops.Catalog
	baseline  *raster.Image
	applied   []ops.FilterID
	candidate *raster.Image
	staging   bool
}

// NewComposer returns an inactive controller over the named catalog.
func (s *Session) NewComposer(catalog string) (*Composer, error) {
	c, err := ops.LookupCatalog(catalog)
	if err != nil {
		return nil, err
	}
	return &Composer{s: s, catalog: c}, nil
}

func (c *Composer) name() string { return "filter:" + c.catalog.Name }

func (c *Composer) abort() {
	c.staging = false
	c.baseline = nil
	c.candidate = nil
	c.applied = nil
}

// Catalog returns the catalog the composer draws from.
func (c *Composer) Catalog() ops.Catalog { return c.catalog }

// Staging reports whether the composition is open.
func (c *Composer) Staging() bool { return c.staging }

// Applied returns the stacked filters in order.
func (c *Composer) Applied() []ops.FilterID { return slices.Clone(c.applied) }

// Begin opens the composition. A grayscale baseline is promoted to RGB for
// the filters; Reset still restores the unpromoted image.
func (c *Composer) Begin() error {
	if c.staging {
		return ErrInteractionActive
	}
	base, err := c.s.open(c)
	if err != nil {
		return err
	}
	c.baseline = base.ToRGB()
	c.candidate = c.baseline
	c.applied = nil
	c.staging = true
	return nil
}

// Add stacks id and renders the replayed candidate. A filter outside the
// catalog returns ErrUnknownFilter and leaves the stack unchanged.
func (c *Composer) Add(id ops.FilterID) (*raster.Image, error) {
	if !c.staging {
		return nil, ErrNotStaging
	}
	if !c.catalog.Contains(id) {
		return nil, fmt.Errorf("%w: %s is not in the %s catalog", ErrUnknownFilter, id, c.catalog.Name)
	}
	applied := append(slices.Clone(c.applied), id)
	out, err := ops.ApplyFilters(c.baseline, applied)
	if err != nil {
		return nil, err
	}
	c.applied = applied
	c.candidate = out
	c.s.renderer.Render(out, EventPreview)
	return out, nil
}

// Clear empties the stack and renders the baseline.
func (c *Composer) Clear() error {
	if !c.staging {
		return ErrNotStaging
	}
	c.applied = nil
	c.candidate = c.baseline
	c.s.renderer.Render(c.candidate, EventPreview)
	return nil
}

// Apply commits the candidate and closes the composer. With no filters
// stacked it closes without a commit and returns a nil image.
func (c *Composer) Apply() (*raster.Image, error) {
	if !c.staging {
		return nil, ErrNotStaging
	}
	out, applied := c.candidate, c.applied
	c.s.close(c)
	c.abort()
	if len(applied) == 0 {
		c.s.renderer.Render(c.s.current, EventCancel)
		return nil, nil
	}
	if err := c.s.commit(out, filterLabel(applied)); err != nil {
		return nil, err
	}
	c.s.renderer.Render(out, EventApply)
	return out, nil
}

// Reset clears the stack and shows the baseline as it was before promotion.
// The composer stays open.
func (c *Composer) Reset() error {
	if !c.staging {
		return ErrNotStaging
	}
	c.applied = nil
	c.candidate = c.baseline
	c.s.restore()
	return nil
}

// Cancel closes the composer without changing the session.
func (c *Composer) Cancel() error {
	if !c.staging {
		return ErrNotStaging
	}
	c.s.close(c)
	c.abort()
	c.s.renderer.Render(c.s.current, EventCancel)
	return nil
}

func filterLabel(ids []ops.FilterID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return "filters: " + strings.Join(names, ", ")
}
