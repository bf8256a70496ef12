package tui

import (
	"context"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

// AddressLookup finds address candidates for a free-text query.
type AddressLookup interface {
	Ready() bool
	Search(ctx context.Context, query string) ([]postcode.Completion, error)
}

// Picker is the terminal address picker. The model draws it as a modal
// while it is open.
type Picker struct {
	lookup     AddressLookup
	onComplete func(address string)
}

var _ finder.AddressPicker = (*Picker)(nil)

// NewPicker builds a picker backed by lookup; a nil lookup is never ready.
func NewPicker(lookup AddressLookup) *Picker {
	return &Picker{lookup: lookup}
}

// IsReady reports whether the lookup has what it needs to run.
func (p *Picker) IsReady() bool {
	return p != nil && p.lookup != nil && p.lookup.Ready()
}

// OpenPicker opens the modal; onComplete is called at most once, on Select.
func (p *Picker) OpenPicker(onComplete func(address string)) {
	p.onComplete = onComplete
}

// IsOpen reports whether a completion is pending.
func (p *Picker) IsOpen() bool {
	return p != nil && p.onComplete != nil
}

// Search queries the lookup.
func (p *Picker) Search(ctx context.Context, query string) ([]postcode.Completion, error) {
	return p.lookup.Search(ctx, query)
}

// Select completes the open cycle with c.
func (p *Picker) Select(c postcode.Completion) {
	if !p.IsOpen() {
		return
	}
	onComplete := p.onComplete
	p.onComplete = nil
	onComplete(c.FullAddress())
}

// Close dismisses the modal without a completion.
func (p *Picker) Close() {
	p.onComplete = nil
}
