package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dsg/pharmacy-finder/internal/finder"
	"github.com/dsg/pharmacy-finder/library/browser"
	"github.com/dsg/pharmacy-finder/library/postcode"
)

// ViewState represents the current view state of the TUI
type ViewState int

const (
	// ViewSearch is the address bar with the results below it
	ViewSearch ViewState = iota
	// ViewPicker is the postal-code picker modal
	ViewPicker
)

// focus is which part of ViewSearch receives keys.
type focus int

const (
	focusInput focus = iota
	focusResults
)

const defaultCardWidth = 60

// searchDoneMsg carries the response of one search back to the tea loop.
type searchDoneMsg struct {
	out finder.Outcome
}

// candidatesMsg carries picker lookup results.
type candidatesMsg struct {
	query      string
	candidates []postcode.Completion
	err        error
}

// openedMsg reports an attempt to open a URL in the browser.
type openedMsg struct {
	url string
	err error
}

// candidateItem is one picker candidate (implements list.Item)
type candidateItem struct {
	c postcode.Completion
}

// Title returns the address forwarded on selection
func (i candidateItem) Title() string { return i.c.FullAddress() }

// Description returns the alternative address form and zone code
func (i candidateItem) Description() string {
	parts := make([]string, 0, 2)
	if i.c.AddressType == postcode.AddressTypeRoad && i.c.JibunAddress != "" {
		parts = append(parts, "지번 "+i.c.JibunAddress)
	} else if i.c.RoadAddress != "" {
		parts = append(parts, "도로명 "+i.c.RoadAddress)
	}
	if i.c.Zonecode != "" {
		parts = append(parts, i.c.Zonecode)
	}
	return strings.Join(parts, " · ")
}

// FilterValue returns the filter value (implements list.Item)
func (i candidateItem) FilterValue() string { return i.c.FullAddress() }

// Config wires the model to the finder.
type Config struct {
	Controller *finder.Controller
	Resolver   *finder.DirectionResolver
	Picker     *Picker
	// Opener opens road view links; directions go through Resolver.
	Opener browser.Opener
}

// Model is the main TUI model following the Bubble Tea architecture
type Model struct {
	ctx   context.Context
	state ViewState
	focus focus

	controller *finder.Controller
	resolver   *finder.DirectionResolver
	picker     *Picker
	bar        *finder.SearchBar
	opener     browser.Opener

	input       textinput.Model
	pickerInput textinput.Model
	candidates  list.Model
	spinner     spinner.Model

	// cursor is the selected card
	cursor int
	// prompt is the current validation prompt, cleared on the next key
	prompt string
	// status is a one-line note about the last browser action
	status string

	width    int
	height   int
	quitting bool
}

// keyMap defines the key bindings for the TUI
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Tab      key.Binding
	Picker   key.Binding
	RoadView key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search / 길찾기"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "results"),
	),
	Picker: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "주소 검색"),
	),
	RoadView: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "로드뷰"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// NewModel creates a TUI model on top of an idle controller.
func NewModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "주소를 입력하세요"
	input.Focus()
	input.CharLimit = 256
	input.Width = 50
	input.Prompt = "📍 "
	input.PromptStyle = GetInputLabelStyle()

	pickerInput := textinput.New()
	pickerInput.Placeholder = "도로명, 지번, 건물명"
	pickerInput.CharLimit = 128
	pickerInput.Width = 40
	pickerInput.Prompt = "🔎 "
	pickerInput.PromptStyle = GetInputLabelStyle()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(primaryColor).
		BorderForeground(primaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(secondaryColor)

	candidates := list.New(nil, delegate, defaultCardWidth, 12)
	candidates.Title = "주소 검색"
	candidates.SetShowStatusBar(false)
	candidates.SetFilteringEnabled(false)
	candidates.SetShowHelp(false)
	candidates.Styles.Title = GetHeaderStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = GetProgressStyle()

	return Model{
		ctx:         ctx,
		state:       ViewSearch,
		focus:       focusInput,
		controller:  cfg.Controller,
		resolver:    cfg.Resolver,
		picker:      cfg.Picker,
		bar:         finder.NewSearchBar(cfg.Picker),
		opener:      cfg.Opener,
		input:       input,
		pickerInput: pickerInput,
		candidates:  candidates,
		spinner:     sp,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidates.SetSize(min(msg.Width-8, 80), max(msg.Height-12, 5))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.prompt = ""
		switch m.state {
		case ViewPicker:
			return m.handlePicker(msg)
		default:
			return m.handleSearch(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		if _, applied := m.controller.Complete(msg.out); applied {
			m.cursor = 0
		}
		return m, nil

	case candidatesMsg:
		if msg.err != nil {
			m.status = "주소 검색에 실패했습니다."
			m.candidates.SetItems(nil)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.candidates))
		for _, c := range msg.candidates {
			items = append(items, candidateItem{c: c})
		}
		m.status = ""
		if len(items) > 0 {
			m.pickerInput.Blur()
		}
		return m, m.candidates.SetItems(items)

	case openedMsg:
		// failures are logged by the resolver; the user sees no error
		if msg.err == nil {
			m.status = "열림: " + msg.url
		}
		return m, nil
	}

	return m, nil
}

// handleSearch handles key events on the address bar and the results.
func (m Model) handleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Picker) {
		if err := m.bar.OpenPicker(); err != nil {
			m.prompt = finder.Prompt(err)
			return m, nil
		}
		m.state = ViewPicker
		m.input.Blur()
		m.pickerInput.SetValue(m.input.Value())
		m.pickerInput.Focus()
		m.candidates.SetItems(nil)
		return m, textinput.Blink
	}

	if m.focus == focusResults {
		return m.handleResults(msg)
	}

	switch {
	case key.Matches(msg, keys.Enter):
		m.bar.SetText(m.input.Value())
		if err := m.bar.SubmitTyped(); err != nil {
			m.prompt = finder.Prompt(err)
			return m, nil
		}
		return m.startSearches()

	case key.Matches(msg, keys.Tab):
		if len(m.controller.View().Cards) > 0 {
			m.focus = focusResults
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResults handles key events while a card is selected.
func (m Model) handleResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.controller.View().Cards

	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Tab):
		m.focus = focusInput
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(cards)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if m.cursor < len(cards) {
			return m, m.openDirection(cards[m.cursor])
		}

	case key.Matches(msg, keys.RoadView):
		if m.cursor < len(cards) {
			return m, m.openRoadView(cards[m.cursor])
		}
	}

	return m, nil
}

// handlePicker handles key events in the picker modal.
func (m Model) handlePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.picker.Close()
		m.state = ViewSearch
		m.status = ""
		m.pickerInput.Blur()
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		if item, ok := m.candidates.SelectedItem().(candidateItem); ok && !m.pickerInput.Focused() {
			m.picker.Select(item.c)
			m.state = ViewSearch
			m.input.SetValue(m.bar.Text())
			m.input.Focus()
			return m.startSearches()
		}
		return m, m.lookupCandidates(m.pickerInput.Value())

	case key.Matches(msg, keys.Tab):
		if m.pickerInput.Focused() {
			m.pickerInput.Blur()
		} else {
			m.pickerInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.pickerInput.Focused() {
		m.pickerInput, cmd = m.pickerInput.Update(msg)
	} else {
		m.candidates, cmd = m.candidates.Update(msg)
	}
	return m, cmd
}

// startSearches begins one search per finalized address. State changes
// happen here and in Update; only the network call runs in a tea.Cmd.
func (m Model) startSearches() (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 1)
	for _, address := range m.bar.Drain() {
		req, err := m.controller.Begin(address)
		if err != nil {
			m.prompt = finder.Prompt(err)
			continue
		}
		cmds = append(cmds, m.search(req))
	}

	m.focus = focusInput
	m.cursor = 0
	m.status = ""
	return m, tea.Batch(cmds...)
}

func (m Model) search(req *finder.Request) tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return searchDoneMsg{out: controller.Execute(ctx, req)}
	}
}

func (m Model) lookupCandidates(query string) tea.Cmd {
	picker, ctx := m.picker, m.ctx
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return func() tea.Msg {
		candidates, err := picker.Search(ctx, query)
		return candidatesMsg{query: query, candidates: candidates, err: err}
	}
}

func (m Model) openDirection(card finder.Card) tea.Cmd {
	resolver, ctx := m.resolver, m.ctx
	return func() tea.Msg {
		target, err := resolver.Open(ctx, card.Direction)
		return openedMsg{url: target, err: err}
	}
}

func (m Model) openRoadView(card finder.Card) tea.Cmd {
	opener := m.opener
	if opener == nil || card.RoadViewURL == "" {
		return nil
	}
	return func() tea.Msg {
		return openedMsg{url: card.RoadViewURL, err: opener.Open(card.RoadViewURL)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return subtitleStyle.Render("안녕히 가세요 👋\n")
	}

	if m.state == ViewPicker {
		return m.renderPicker()
	}
	return m.renderSearch()
}

// renderSearch renders the address bar and the results region.
func (m Model) renderSearch() string {
	var sb strings.Builder

	sb.WriteString(GetHeaderStyle().Render("가까운 약국 찾기") + "\n")
	sb.WriteString(m.input.View() + "\n")
	if m.prompt != "" {
		sb.WriteString(promptStyle.Render(m.prompt) + "\n")
	}

	sb.WriteString(m.renderResults())

	if m.status != "" {
		sb.WriteString("\n" + subtitleStyle.Render(m.status))
	}

	help := "enter: 검색 • ctrl+f: 주소 검색 • tab: 결과 • ctrl+c: quit"
	if m.focus == focusResults {
		help = "↑/↓: 이동 • enter: 길찾기 • r: 로드뷰 • esc: 주소 입력"
	}
	sb.WriteString(helpStyle.Render(help))

	return sb.String()
}

// renderResults renders finder.ResultsView as terminal cards.
func (m Model) renderResults() string {
	view := m.controller.View()
	if !view.Visible {
		return ""
	}

	width := m.cardWidth()
	var sb strings.Builder
	header := view.Header
	if view.Loading {
		header = m.spinner.View() + " " + header
	}
	sb.WriteString(resultsHeaderStyle.Render(header) + "\n")

	for range view.Placeholders {
		sb.WriteString(skeletonStyle.Width(width).Render(
			strings.Repeat("░", width/2)+"\n"+strings.Repeat("░", width/3)) + "\n")
	}

	for i, card := range view.Cards {
		selected := m.focus == focusResults && i == m.cursor
		sb.WriteString(GetCardStyle(selected).Width(width).Render(renderCard(card, width)) + "\n")
	}

	return sb.String()
}

// renderCard lays out one card body, truncating by display width.
func renderCard(card finder.Card, width int) string {
	inner := max(width-4, 10)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(runewidth.Truncate(card.Name, inner, "…")),
		subtitleStyle.Render(runewidth.Truncate(card.Address, inner, "…")),
		subtitleStyle.Render(card.Distance),
		fmt.Sprintf("[%s] [%s]", "길찾기", "로드뷰"),
	}
	return strings.Join(lines, "\n")
}

// renderPicker renders the picker modal.
func (m Model) renderPicker() string {
	var sb strings.Builder
	sb.WriteString(GetInputLabelStyle().Render("주소를 검색하세요") + "\n")
	sb.WriteString(m.pickerInput.View() + "\n\n")
	if len(m.candidates.Items()) > 0 {
		sb.WriteString(m.candidates.View() + "\n")
	}
	if m.status != "" {
		sb.WriteString(promptStyle.Render(m.status) + "\n")
	}
	sb.WriteString(helpStyle.Render("enter: 검색/선택 • tab: 목록 • esc: 닫기"))

	return boxStyle.Render(sb.String())
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return defaultCardWidth
	}
	return min(max(m.width-4, 24), 100)
}
