package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/grid"
	"github.com/casthub/catadm/pkg/ui"
)

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid [category]",
	Short: "Open the interactive asset grid",
	Long: `Open a full-screen interactive grid for managing a category's assets.

Edits are optimistic: the change shows immediately, is debounced, and is
reverted if the backend rejects it. Large collections are virtualized so
only the visible cards are rendered and only their media is fetched.

Keyboard Shortcuts:
  Navigation:
    ←↓↑→ / hjkl  Move cursor
    g / G        Jump to start / end
    [ / ]        Previous / next page

  Editing:
    p            Toggle premium (selection: mark premium)
    + / -        Increment / decrement count
    e            Edit prompt
    c            Edit country
    d            Delete asset (with confirmation)

  Selection & Reorder:
    space        Toggle selection
    a            Select all
    x            Clear selection
    D            Delete selection (with confirmation)
    m            Pick up / drop card (reorder)

  Other:
    y            Copy media URL
    /            Search
    r            Refresh from backend
    ?            Help
    q            Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrid,
}

func runGrid(cmd *cobra.Command, args []string) error {
	category, err := pickCategory(args)
	if err != nil {
		return err
	}

	m := newGridModel(getContext(), *category)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running grid: %w", err)
	}

	return nil
}

// Grid view modes
type gridMode int

const (
	gridBrowse gridMode = iota
	gridSearch
	gridEditPrompt
	gridEditCountry
	gridConfirmDelete
	gridHelp
)

type gridModel struct {
	ctx      context.Context
	category domain.Category

	assets     []domain.Asset // canonical page, server order
	pagination domain.Pagination
	page       int

	cursor    int // index into the visible (filtered) collection
	scrollTop int // rows of content scrolled past
	layout    grid.Layout

	overlay    *grid.Overlay
	dispatcher *grid.Dispatcher
	selection  *grid.Selection
	reorderer  *grid.Reorderer
	bulk       *grid.Bulk
	cells      *grid.CellPool
	drag       grid.DragSession

	mode        gridMode
	searchInput textinput.Model
	editInput   textinput.Model
	editTarget  string   // asset id receiving prompt/country edits
	deleteIDs   []string // pending confirmation

	// events carries callbacks from the engine's goroutines into the
	// bubbletea loop
	events chan tea.Msg

	keys   gridKeyMap
	width  int
	height int
	ready  bool

	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	statusTTL     time.Duration
}

type gridKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Premium  key.Binding
	CountUp  key.Binding
	CountDn  key.Binding
	Prompt   key.Binding
	Country  key.Binding
	Delete   key.Binding
	Select   key.Binding
	SelAll   key.Binding
	SelClear key.Binding
	BulkDel  key.Binding
	Move     key.Binding
	Copy     key.Binding
	Search   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

var gridKeys = gridKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
	Premium:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "premium")),
	CountUp:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "count +1")),
	CountDn:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "count -1")),
	Prompt:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit prompt")),
	Country:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "edit country")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Select:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
	SelClear: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
	BulkDel:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selection")),
	Move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up/drop")),
	Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy URL")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),
}

func newGridModel(ctx context.Context, category domain.Category) *gridModel {
	si := textinput.New()
	si.Placeholder = "Search assets..."
	si.CharLimit = 100
	si.Width = 40

	ei := textinput.New()
	ei.CharLimit = 500
	ei.Width = 60

	events := make(chan tea.Msg, 16)

	overlay := grid.NewOverlay()
	dispatcher := grid.NewDispatcher(ctx, overlay, grid.DispatcherConfig{
		Update: func(ctx context.Context, assetID string, change domain.FieldChange) error {
			_, err := apiClient.UpdateAsset(ctx, category.ID, assetID, change)
			return err
		},
		Delay:       time.Duration(appConfig.DebounceMS) * time.Millisecond,
		PromptDelay: time.Duration(appConfig.PromptDebounceMS) * time.Millisecond,
		OnSettle: func(ev grid.SettleEvent) {
			events <- gridSettledMsg{ev: ev}
		},
		Refresh: func() {
			events <- gridRefreshMsg{}
		},
	})

	refresh := func() { events <- gridRefreshMsg{} }

	reorderer := grid.NewReorderer(func(ctx context.Context, ordering []domain.OrderEntry) error {
		return apiClient.ReorderAssets(ctx, category.ID, ordering)
	}, refresh)

	bulk := grid.NewBulk(func(ctx context.Context, assetID string) error {
		return apiClient.DeleteAsset(ctx, category.ID, assetID)
	}, func(ctx context.Context, assetID string, change domain.FieldChange) error {
		_, err := apiClient.UpdateAsset(ctx, category.ID, assetID, change)
		return err
	}, refresh)

	cells := grid.NewCellPool(apiClient.FetchMedia, func() {
		events <- gridRepaintMsg{}
	})

	return &gridModel{
		ctx:        ctx,
		category:   category,
		page:       1,
		overlay:    overlay,
		dispatcher: dispatcher,
		selection:  grid.NewSelection(),
		reorderer:  reorderer,
		bulk:       bulk,
		cells:      cells,
		drag:       grid.NoDrag,
		searchInput: si,
		editInput:   ei,
		events:      events,
		keys:        gridKeys,
		layout: grid.Layout{
			ItemHeight:      appConfig.CardHeight,
			Columns:         appConfig.GridColumns,
			ViewportHeight:  20,
			BypassThreshold: appConfig.GridBypassThreshold,
		},
		statusTTL: time.Duration(appConfig.StatusTimeMS) * time.Millisecond,
	}
}

// Messages

// gridEventMsg wraps a message delivered through the events channel; the
// handler re-arms the channel listener before processing the inner message
type gridEventMsg struct{ inner tea.Msg }

type gridAssetsMsg struct {
	page *domain.AssetPage
	err  error
}

type gridSettledMsg struct{ ev grid.SettleEvent }

type gridRefreshMsg struct{}

type gridRepaintMsg struct{}

type gridStatusMsg struct {
	message string
	style   lipgloss.Style
}

type gridClearStatusMsg struct{}

type gridBulkDoneMsg struct {
	verb string
	res  grid.BulkResult
}

type gridReorderDoneMsg struct{ err error }

func (m *gridModel) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return gridEventMsg{inner: <-m.events}
	}
}

func (m *gridModel) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.loadAssets())
}

func (m *gridModel) loadAssets() tea.Cmd {
	page := m.page
	return func() tea.Msg {
		resp, err := apiClient.ListAssets(m.ctx, m.category.ID, page, appConfig.PageSize)
		return gridAssetsMsg{page: resp, err: err}
	}
}

func (m *gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gridEventMsg:
		model, cmd := m.Update(msg.inner)
		return model, tea.Batch(m.listenEvents(), cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout.ViewportHeight = msg.Height - chromeRows
		if m.layout.ViewportHeight < m.layout.ItemHeight {
			m.layout.ViewportHeight = m.layout.ItemHeight
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case gridSearch:
			return m.updateSearch(msg)
		case gridEditPrompt, gridEditCountry:
			return m.updateEdit(msg)
		case gridConfirmDelete:
			return m.updateConfirmDelete(msg)
		case gridHelp:
			return m.updateHelp(msg)
		default:
			return m.updateBrowse(msg)
		}

	case gridAssetsMsg:
		if msg.err != nil {
			return m, m.status("Load failed: "+msg.err.Error(), ui.StyleError)
		}
		m.assets = msg.page.Items
		m.pagination = msg.page.Pagination
		m.clampCursor()
		return m, nil

	case gridSettledMsg:
		if msg.ev.Err != nil {
			return m, m.status(fmt.Sprintf("%s update failed: %v (reverted)",
				msg.ev.Field.String(), msg.ev.Err), ui.StyleError)
		}
		return m, nil

	case gridRefreshMsg:
		return m, m.loadAssets()

	case gridRepaintMsg:
		// A lazy cell settled; View picks up the new state
		return m, nil

	case gridStatusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(m.statusTTL)
		return m, tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
			return gridClearStatusMsg{}
		})

	case gridClearStatusMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case gridBulkDoneMsg:
		m.selection.Clear()
		if msg.res.Failed > 0 {
			return m, m.status(fmt.Sprintf("%s: %d ok, %d failed (%v)",
				msg.verb, msg.res.Succeeded, msg.res.Failed, msg.res.FirstErr), ui.StyleWarning)
		}
		return m, m.status(fmt.Sprintf("%s: %d assets", msg.verb, msg.res.Succeeded), ui.StyleSuccess)

	case gridReorderDoneMsg:
		if msg.err != nil {
			return m, m.status(msg.err.Error(), ui.StyleError)
		}
		return m, m.status("Order saved", ui.StyleSuccess)
	}

	return m, nil
}

func (m *gridModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleAssets()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.dispatcher.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.layout.Columns, len(visible))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.layout.Columns, len(visible))
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, len(visible))
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, len(visible))

	case key.Matches(msg, m.keys.Top):
		m.setCursor(0, len(visible))
	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(len(visible)-1, len(visible))

	case key.Matches(msg, m.keys.PrevPage):
		if m.drag.Active() {
			return m, nil
		}
		if m.page > 1 {
			m.page--
			return m, m.changePage()
		}
	case key.Matches(msg, m.keys.NextPage):
		if m.drag.Active() {
			return m, nil
		}
		// Until the first load settles TotalPages is 0; stay put
		if m.pagination.TotalPages > 0 && m.page < m.pagination.TotalPages {
			m.page++
			return m, m.changePage()
		}

	case key.Matches(msg, m.keys.Move):
		return m.toggleDrag(visible)

	case key.Matches(msg, m.keys.Escape):
		if m.drag.Active() {
			m.drag = grid.NoDrag
			return m, m.status("Reorder cancelled", ui.StyleMuted)
		}
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Select):
		if a := m.cursorAsset(visible); a != nil {
			m.selection.Toggle(a.ID)
		}
	case key.Matches(msg, m.keys.SelAll):
		m.selection.SelectAll(domain.IDs(m.assets))
	case key.Matches(msg, m.keys.SelClear):
		m.selection.Clear()

	case key.Matches(msg, m.keys.Premium):
		if m.selection.Count() > 0 {
			return m, m.runBulkPremium()
		}
		if a := m.cursorAsset(visible); a != nil {
			return m, m.submit(*a, domain.Premium(!a.IsPremium))
		}

	case key.Matches(msg, m.keys.CountUp):
		if a := m.cursorAsset(visible); a != nil {
			return m, m.submit(*a, domain.CountOf(a.Count+1))
		}
	case key.Matches(msg, m.keys.CountDn):
		if a := m.cursorAsset(visible); a != nil {
			if a.Count <= 1 {
				return m, m.status("Count cannot go below 1", ui.StyleWarning)
			}
			return m, m.submit(*a, domain.CountOf(a.Count-1))
		}

	case key.Matches(msg, m.keys.Prompt):
		if a := m.cursorAsset(visible); a != nil {
			m.mode = gridEditPrompt
			m.editTarget = a.ID
			m.editInput.Placeholder = "Prompt"
			m.editInput.SetValue(a.Prompt)
			m.editInput.Focus()
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Country):
		if a := m.cursorAsset(visible); a != nil {
			m.mode = gridEditCountry
			m.editTarget = a.ID
			m.editInput.Placeholder = "Country code"
			m.editInput.SetValue(a.Country)
			m.editInput.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.BulkDel):
		if m.selection.Count() == 0 {
			return m, m.status("Nothing selected", ui.StyleMuted)
		}
		m.deleteIDs = m.selection.IDs()
		m.mode = gridConfirmDelete
	case key.Matches(msg, m.keys.Delete):
		if a := m.cursorAsset(visible); a != nil {
			m.deleteIDs = []string{a.ID}
			m.mode = gridConfirmDelete
		}

	case key.Matches(msg, m.keys.Copy):
		if a := m.cursorAsset(visible); a != nil {
			if err := clipboard.WriteAll(a.MediaURL); err != nil {
				return m, m.status("Clipboard access failed", ui.StyleWarning)
			}
			return m, m.status("URL copied", ui.StyleSuccess)
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = gridSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadAssets()

	case key.Matches(msg, m.keys.Help):
		m.mode = gridHelp
	}

	return m, nil
}

func (m *gridModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = gridBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.clampCursor()
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = gridBrowse
		m.searchInput.Blur()
		return m, nil

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.clampCursor()
		return m, cmd
	}
}

// updateEdit feeds every keystroke through the dispatcher; the debounce is
// what turns the burst into one backend call
func (m *gridModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), msg.Type == tea.KeyEnter:
		m.mode = gridBrowse
		m.editInput.Blur()
		m.editTarget = ""
		return m, nil

	default:
		var cmd tea.Cmd
		before := m.editInput.Value()
		m.editInput, cmd = m.editInput.Update(msg)
		value := m.editInput.Value()
		if value == before {
			return m, cmd
		}

		asset := m.assetByID(m.editTarget)
		if asset == nil {
			return m, cmd
		}
		var change domain.FieldChange
		if m.mode == gridEditPrompt {
			change = domain.PromptOf(value)
		} else {
			change = domain.CountryOf(strings.ToLower(value))
		}
		return m, tea.Batch(cmd, m.submit(*asset, change))
	}
}

func (m *gridModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		ids := m.deleteIDs
		m.deleteIDs = nil
		m.mode = gridBrowse
		return m, m.runBulkDelete(ids)

	case key.Matches(msg, m.keys.Cancel):
		m.deleteIDs = nil
		m.mode = gridBrowse
	}
	return m, nil
}

func (m *gridModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = gridBrowse
	}
	return m, nil
}

// Commands

func (m *gridModel) submit(asset domain.Asset, change domain.FieldChange) tea.Cmd {
	if err := m.dispatcher.Submit(asset, change); err != nil {
		return m.status(err.Error(), ui.StyleError)
	}
	return nil
}

func (m *gridModel) status(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return gridStatusMsg{message: message, style: style}
	}
}

func (m *gridModel) runBulkDelete(ids []string) tea.Cmd {
	return func() tea.Msg {
		res := m.bulk.Delete(m.ctx, ids)
		return gridBulkDoneMsg{verb: "Deleted", res: res}
	}
}

func (m *gridModel) runBulkPremium() tea.Cmd {
	ids := m.selection.IDs()
	return func() tea.Msg {
		res := m.bulk.SetField(m.ctx, ids, domain.Premium(true))
		return gridBulkDoneMsg{verb: "Marked premium", res: res}
	}
}

func (m *gridModel) toggleDrag(visible []domain.Asset) (tea.Model, tea.Cmd) {
	if m.searchInput.Value() != "" {
		return m, m.status("Clear the search filter before reordering", ui.StyleWarning)
	}
	if len(visible) == 0 {
		return m, nil
	}

	if !m.drag.Active() {
		m.drag = grid.DragSession{Source: m.cursor, Target: m.cursor}
		return m, m.status("Reordering: move with arrows, drop with m, cancel with esc", ui.StyleInfo)
	}

	// Drop: show the optimistic order immediately and commit in the
	// background; a failed commit triggers a canonical refetch.
	session := m.drag
	assets := m.assets
	m.drag = grid.NoDrag

	if session.Source != session.Target {
		m.assets = grid.ApplyPlan(assets, grid.ReorderPlan(assets, session.Source, session.Target))
		m.cursor = session.Target
	}

	return m, func() tea.Msg {
		_, err := m.reorderer.Commit(m.ctx, assets, session)
		return gridReorderDoneMsg{err: err}
	}
}

func (m *gridModel) changePage() tea.Cmd {
	// Per-page state does not survive page changes
	m.cursor = 0
	m.scrollTop = 0
	m.selection.Clear()
	m.cells.Reset()
	return m.loadAssets()
}

// State helpers

// visibleAssets returns the filtered collection with pending overlay values
// projected on top. Canonical records are never mutated.
func (m *gridModel) visibleAssets() []domain.Asset {
	assets := m.assets
	if m.drag.Active() {
		perm := grid.MoveIndex(len(assets), m.drag.Source, m.drag.Target)
		rearranged := make([]domain.Asset, len(perm))
		for pos, idx := range perm {
			rearranged[pos] = assets[idx]
		}
		assets = rearranged
	}

	query := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	out := make([]domain.Asset, 0, len(assets))
	for _, a := range assets {
		if query != "" && !assetMatches(a, query) {
			continue
		}
		out = append(out, m.overlay.Project(a))
	}
	return out
}

func assetMatches(a domain.Asset, query string) bool {
	return strings.Contains(strings.ToLower(a.ID), query) ||
		strings.Contains(strings.ToLower(a.Prompt), query) ||
		strings.Contains(strings.ToLower(a.Country), query)
}

func (m *gridModel) cursorAsset(visible []domain.Asset) *domain.Asset {
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return &visible[m.cursor]
}

func (m *gridModel) assetByID(id string) *domain.Asset {
	for i := range m.assets {
		if m.assets[i].ID == id {
			return &m.assets[i]
		}
	}
	return nil
}

func (m *gridModel) moveCursor(delta, count int) {
	m.setCursor(m.cursor+delta, count)
}

func (m *gridModel) setCursor(pos, count int) {
	if count == 0 {
		m.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > count-1 {
		pos = count - 1
	}
	m.cursor = pos
	if m.drag.Active() {
		m.drag.Target = pos
	}
	m.scrollTop = grid.ScrollTo(m.cursor, m.scrollTop, m.layout)
}

func (m *gridModel) clampCursor() {
	count := len(m.visibleAssets())
	if m.cursor > count-1 {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollTop = grid.ScrollTo(m.cursor, m.scrollTop, m.layout)
}
