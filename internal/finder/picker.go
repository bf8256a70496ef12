package finder

import (
	"sync"
)

// AddressPicker is the postal-code picker collaborator. When opened it
// calls onComplete exactly once per open/select cycle with the chosen full
// address.
type AddressPicker interface {
	IsReady() bool
	OpenPicker(onComplete func(address string))
}

// SearchBar owns the address field text. Both triggers, typed submit and
// picker completion, funnel into one ordered stream of finalized
// addresses read with Drain.
type SearchBar struct {
	picker AddressPicker

	mu        sync.Mutex
	text      string
	finalized []string
}

// NewSearchBar builds a search bar; picker may be nil when none is wired.
func NewSearchBar(picker AddressPicker) *SearchBar {
	return &SearchBar{picker: picker}
}

// SetText replaces the field text.
func (b *SearchBar) SetText(text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()
}

// Text returns the field text.
func (b *SearchBar) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SubmitTyped finalizes the trimmed field text. A blank field returns
// ErrAddressRequired and finalizes nothing.
func (b *SearchBar) SubmitTyped() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	address := TrimAddress(b.text)
	if address == "" {
		return ErrAddressRequired
	}
	b.finalized = append(b.finalized, address)
	return nil
}

// OpenPicker opens the picker. Its completion replaces the field text and
// finalizes the chosen address. Returns ErrPickerNotReady when the picker
// is missing or still loading.
func (b *SearchBar) OpenPicker() error {
	if b.picker == nil || !b.picker.IsReady() {
		return ErrPickerNotReady
	}

	b.picker.OpenPicker(b.completePicker)
	return nil
}

func (b *SearchBar) completePicker(address string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text = address
	b.finalized = append(b.finalized, address)
}

// Drain returns and clears the finalized addresses, oldest first.
func (b *SearchBar) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.finalized
	b.finalized = nil
	return out
}
