package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixcart/internal/cart"
	"github.com/desertthunder/mixcart/internal/models"
	"github.com/desertthunder/mixcart/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultsView
	CartView
	ConfirmView
	CommitView
	ResultView
)

// Searcher is the search surface the TUI needs, satisfied by
// [services.ProxyClient].
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Track, error)
}

// Model represents the TUI application state.
//
// The cart lives only as long as the TUI session. While a commit is in
// flight all inputs except quit are ignored, so overlapping commits against
// the same cart are impossible.
type Model struct {
	ctx        context.Context
	view       ViewState
	searcher   Searcher
	committer  *tasks.Committer
	cart       *cart.Cart
	width      int
	height     int
	searchIn   textinput.Model
	nameIn     textinput.Model
	resultList list.Model
	cartList   list.Model
	results    []models.Track
	progress   tasks.ProgressUpdate
	progressCh chan tasks.ProgressUpdate
	result     *tasks.CommitResult
	err        error
	committing bool
	help       help.Model
	keys       keyMap
}

type searchCompleteMsg struct {
	tracks []models.Track
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type commitCompleteMsg struct {
	result *tasks.CommitResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, searcher Searcher, committer *tasks.Committer, c *cart.Cart) *Model {
	searchIn := textinput.New()
	searchIn.Placeholder = "e.g. 90s hip-hop, Nina Simone, rainy day jazz"
	searchIn.Focus()
	searchIn.CharLimit = 200
	searchIn.Width = 60

	nameIn := textinput.New()
	nameIn.Placeholder = tasks.DefaultPlaylistName
	nameIn.CharLimit = 100
	nameIn.Width = 40

	if c == nil {
		c = cart.New()
	}

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "Results"
	cartList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	cartList.Title = "Cart"

	return &Model{
		ctx:        ctx,
		view:       SearchView,
		searcher:   searcher,
		committer:  committer,
		cart:       c,
		searchIn:   searchIn,
		nameIn:     nameIn,
		resultList: resultList,
		cartList:   cartList,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.cartList.Width() == 0 {
			m.cartList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case CartView:
			return m.handleCartKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case CommitView:
			// A commit is outstanding; only quit is honored.
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case searchCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SearchView
			return m, nil
		}
		m.err = nil
		m.results = msg.tracks
		m.resultList = list.New(m.resultItems(), list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Results for '%s'", m.searchIn.Value())
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ResultsView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case commitCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.committing = false
		m.view = ResultView
		m.progressCh = nil
		return m, nil
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ResultsView:
		return m.renderResults()
	case CartView:
		return m.renderCart()
	case ConfirmView:
		return m.renderConfirm()
	case CommitView:
		return m.renderCommit()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.cart.Len() > 0 {
			m.openCart()
			return m, nil
		}
	case "enter":
		query := m.searchIn.Value()
		if query != "" {
			return m, m.doSearch(query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchIn, cmd = m.searchIn.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = SearchView
		m.searchIn.Focus()
		return m, textinput.Blink
	case "c", "tab":
		m.openCart()
		return m, nil
	case "a", "enter":
		if selected, ok := m.resultList.SelectedItem().(trackItem); ok {
			// Second add of the same track is a no-op.
			m.cart.Add(selected.track)
			m.resultList.SetItems(m.resultItems())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.results) > 0 {
			m.view = ResultsView
		} else {
			m.view = SearchView
			m.searchIn.Focus()
		}
		return m, nil
	case "x", "backspace":
		if selected, ok := m.cartList.SelectedItem().(trackItem); ok {
			m.cart.Remove(selected.track.ID)
			m.cartList.SetItems(m.cartItems())
		}
		return m, nil
	case "enter":
		if m.cart.Len() == 0 {
			return m, nil
		}
		m.view = ConfirmView
		m.nameIn.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.cartList, cmd = m.cartList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CartView
		return m, nil
	case "enter":
		if m.committing {
			return m, nil
		}
		m.view = CommitView
		return m, m.startCommit()
	}

	var cmd tea.Cmd
	m.nameIn, cmd = m.nameIn.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		// Back to search; a successful commit empties the cart first.
		if m.err == nil && m.result != nil {
			m.cart.Clear()
		}
		m.view = SearchView
		m.result = nil
		m.err = nil
		m.searchIn.Reset()
		m.searchIn.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.searchIn, cmd = m.searchIn.Update(msg)
	case ResultsView:
		m.resultList, cmd = m.resultList.Update(msg)
	case CartView:
		m.cartList, cmd = m.cartList.Update(msg)
	case ConfirmView:
		m.nameIn, cmd = m.nameIn.Update(msg)
	}
	return m, cmd
}

func (m *Model) openCart() {
	m.cartList = list.New(m.cartItems(), list.NewDefaultDelegate(), 0, 0)
	m.cartList.Title = fmt.Sprintf("Cart (%d tracks)", m.cart.Len())
	m.cartList.SetSize(m.width-4, m.height-8)
	m.view = CartView
}

func (m *Model) resultItems() []list.Item {
	staged := make(map[string]struct{}, m.cart.Len())
	for _, t := range m.cart.Tracks() {
		staged[t.ID] = struct{}{}
	}

	items := make([]list.Item, len(m.results))
	for i, track := range m.results {
		_, inCart := staged[track.ID]
		items[i] = trackItem{track: track, inCart: inCart}
	}
	return items
}

func (m *Model) cartItems() []list.Item {
	tracks := m.cart.Tracks()
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	return items
}

func (m *Model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.searcher.Search(m.ctx, query)
		return searchCompleteMsg{tracks: tracks, err: err}
	}
}

func (m *Model) startCommit() tea.Cmd {
	m.committing = true
	m.progressCh = make(chan tasks.ProgressUpdate, 16)

	tracks := m.cart.Tracks()
	name := m.nameIn.Value()
	ch := m.progressCh

	go func() {
		result, err := m.committer.Commit(m.ctx, name, tracks, ch)
		m.result = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressCh == nil {
			return commitCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressCh
		if !ok {
			return commitCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("mixcart · search for tracks")
	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("\n%v\n", m.err))
	}

	cartLine := ""
	if n := m.cart.Len(); n > 0 {
		cartLine = styles.ok.Render(fmt.Sprintf("\n%d tracks in cart (tab to view)", n))
	}

	helpView := styles.help.Render("enter: search • tab: cart • ctrl+c: quit")
	return fmt.Sprintf("%s\n\n%s\n%s%s\n\n%s", title, m.searchIn.View(), errLine, cartLine, helpView)
}

func (m *Model) renderResults() string {
	helpKeys := []key.Binding{m.keys.add, m.keys.cart, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

func (m *Model) renderCart() string {
	helpKeys := []key.Binding{m.keys.commit, m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.cartList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Commit %d tracks as a new playlist?", m.cart.Len()))
	prompt := fmt.Sprintf("\nPlaylist name (blank for '%s'):\n\n%s\n", tasks.DefaultPlaylistName, m.nameIn.View())
	helpView := styles.help.Render("enter: commit • esc: back • ctrl+c: quit")
	return fmt.Sprintf("%s\n%s\n%s", title, prompt, helpView)
}

func (m *Model) renderCommit() string {
	title := styles.title.Render("Committing Cart")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveIdentity:
		phase = "Resolving your identity..."
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	case tasks.AttachTracks:
		phase = "Adding tracks..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := styles.help.Render("r: new search • q: quit")

	if m.err != nil {
		if m.result != nil && m.result.Partial {
			warning := styles.warn.Render(fmt.Sprintf(
				"Playlist '%s' was created but no tracks were added.\nIt exists in your account, empty.",
				m.result.Playlist.Name,
			))
			return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s",
				styles.err.Render("✗ Commit partially failed"), warning, m.err, helpView)
		}
		return fmt.Sprintf("%s\n\n%v\n\n%s", styles.err.Render("✗ Commit failed"), m.err, helpView)
	}

	if m.result == nil || m.result.Playlist == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Playlist created!")
	info := fmt.Sprintf("\nName: %s\nTracks: %d", m.result.Playlist.Name, m.result.TrackCount)
	if m.result.Playlist.URL != "" {
		info += fmt.Sprintf("\nLink: %s", m.result.Playlist.URL)
	}
	if m.result.Skipped > 0 {
		info += "\n" + styles.warn.Render(fmt.Sprintf("%d tracks had no playable URI and were skipped", m.result.Skipped))
	}

	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}
