package finder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePicker struct {
	ready  bool
	choice string
	opened int
}

func (p *fakePicker) IsReady() bool { return p.ready }

func (p *fakePicker) OpenPicker(onComplete func(address string)) {
	p.opened++
	onComplete(p.choice)
}

func TestSearchBarSubmitTyped(t *testing.T) {
	bar := NewSearchBar(nil)
	bar.SetText("  서울시 강남구  ")
	require.NoError(t, bar.SubmitTyped())
	require.Equal(t, []string{"서울시 강남구"}, bar.Drain())
	require.Empty(t, bar.Drain())
}

func TestSearchBarSubmitBlank(t *testing.T) {
	bar := NewSearchBar(nil)
	bar.SetText("   ")
	err := bar.SubmitTyped()
	require.ErrorIs(t, err, ErrAddressRequired)
	require.Equal(t, PromptAddressRequired, Prompt(err))
	require.Empty(t, bar.Drain())
}

func TestSearchBarPickerCompletion(t *testing.T) {
	picker := &fakePicker{ready: true, choice: "서울 강남구 테헤란로 152 (역삼동, 강남파이낸스센터)"}
	bar := NewSearchBar(picker)
	bar.SetText("테헤란")

	require.NoError(t, bar.OpenPicker())
	require.Equal(t, 1, picker.opened)
	require.Equal(t, picker.choice, bar.Text())
	require.Equal(t, []string{picker.choice}, bar.Drain())
}

func TestSearchBarPickerNotReady(t *testing.T) {
	for _, bar := range []*SearchBar{NewSearchBar(nil), NewSearchBar(&fakePicker{})} {
		err := bar.OpenPicker()
		require.ErrorIs(t, err, ErrPickerNotReady)
		require.Equal(t, PromptPickerNotReady, Prompt(err))
		require.Empty(t, bar.Drain())
	}
}

func TestSearchBarMixedTriggersKeepOrder(t *testing.T) {
	bar := NewSearchBar(&fakePicker{ready: true, choice: "B"})
	bar.SetText("A")
	require.NoError(t, bar.SubmitTyped())
	require.NoError(t, bar.OpenPicker())
	require.NoError(t, bar.SubmitTyped())
	require.Equal(t, []string{"A", "B", "B"}, bar.Drain())
}
