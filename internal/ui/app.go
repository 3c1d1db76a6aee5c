package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtorres/slate/internal/filter"
	"github.com/mtorres/slate/internal/metrics"
	"github.com/mtorres/slate/internal/model"
)

// Callbacks are the only way the board talks to the rest of the system.
// IMPORTANT: App does NOT hold the coordinator or the gateway - it hands
// (id, from, to) triples consistent with the rendered snapshot to these
// closures and re-reads the snapshot afterwards.
type Callbacks struct {
	// LoadBoard performs the initial full read and returns a BoardLoaded.
	LoadBoard func() tea.Msg
	// Snapshot re-reads the current local board state.
	Snapshot func() map[model.Stage][]model.ContentItem
	// Advance/Retreat are the one-step keyboard transitions.
	Advance func(id string)
	Retreat func(id string)
	// Transition is the direct jump gesture: any stage to any stage.
	Transition func(id string, from, to model.Stage)
	// Delete moves an item to the trash (virtual deleted state).
	Delete func(id string, from model.Stage)
	// Create and Edit return structural validation errors synchronously.
	Create func(item model.ContentItem) error
	Edit   func(item model.ContentItem) error
	// FetchMetrics loads the engagement snapshot and returns MetricsLoaded.
	FetchMetrics func() tea.Msg
}

// uiMode selects what the keyboard drives.
type uiMode int

const (
	modeBoard uiMode = iota
	modeSearch
	modeForm
	modeMetrics
)

// App is the root Bubble Tea model: five stage columns, a focus cursor,
// a search box, and an item form.
type App struct {
	cb Callbacks

	snapshot map[model.Stage][]model.ContentItem
	view     filter.View
	query    string
	sortMode filter.SortMode

	stages []model.Stage
	col    int
	row    int

	mode        uiMode
	searchInput textinput.Model
	form        *form

	metricsStats []metrics.ProfileStats

	status  string
	err     error
	width   int
	height  int
	ready   bool
	loading bool
}

// NewApp creates the board model.
func NewApp(cb Callbacks) App {
	search := textinput.New()
	search.Placeholder = "search title and description"
	search.CharLimit = 80

	return App{
		cb:          cb,
		stages:      model.Stages(),
		searchInput: search,
		snapshot:    map[model.Stage][]model.ContentItem{},
	}
}

// WithSortMode sets the initial sort order.
func (a App) WithSortMode(mode filter.SortMode) App {
	a.sortMode = mode
	return a
}

// Init loads the board.
func (a App) Init() tea.Cmd {
	if a.cb.LoadBoard != nil {
		a.loading = true
		return a.cb.LoadBoard
	}
	return nil
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case BoardLoaded:
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.setSnapshot(msg.Snapshot)
		return a, nil

	case BoardResynced:
		if msg.Err != nil {
			a.status = "sync failed, will retry on next change"
			return a, nil
		}
		a.status = "board re-synced"
		a.setSnapshot(msg.Snapshot)
		return a, nil

	case ItemSaved:
		a.status = "saved"
		return a, nil

	case MetricsLoaded:
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.metricsStats = msg.Stats
		a.mode = modeMetrics
		return a, nil

	}

	return a, nil
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeForm:
		return a.handleFormKey(msg)
	case modeMetrics:
		// Any key leaves the metrics overlay.
		a.mode = modeBoard
		return a, nil
	}
	return a.handleBoardKey(msg)
}

func (a App) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if a.row < len(a.focusedList())-1 {
			a.row++
		}
		return a, nil

	case "k", "up":
		if a.row > 0 {
			a.row--
		}
		return a, nil

	case "H", "shift+tab":
		if a.col > 0 {
			a.col--
			a.clampRow()
		}
		return a, nil

	case "L", "tab":
		if a.col < len(a.stages)-1 {
			a.col++
			a.clampRow()
		}
		return a, nil

	case "l", "right":
		if item, ok := a.focusedItem(); ok && a.cb.Advance != nil {
			a.cb.Advance(item.ID)
			a.refresh()
		}
		return a, nil

	case "h", "left":
		if item, ok := a.focusedItem(); ok && a.cb.Retreat != nil {
			a.cb.Retreat(item.ID)
			a.refresh()
		}
		return a, nil

	case "1", "2", "3", "4", "5":
		// Direct jump: drop the focused item on an arbitrary column.
		target := a.stages[int(key[0]-'1')]
		if item, ok := a.focusedItem(); ok && a.cb.Transition != nil && item.Stage != target {
			a.cb.Transition(item.ID, item.Stage, target)
			a.refresh()
		}
		return a, nil

	case "x", "backspace":
		if item, ok := a.focusedItem(); ok && a.cb.Delete != nil {
			a.cb.Delete(item.ID, item.Stage)
			a.refresh()
		}
		return a, nil

	case "n":
		a.form = newForm(model.ContentItem{}, false)
		a.mode = modeForm
		return a, textinput.Blink

	case "enter", " ":
		if item, ok := a.focusedItem(); ok {
			a.form = newForm(item, true)
			a.mode = modeForm
			return a, textinput.Blink
		}
		return a, nil

	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue(a.query)
		a.searchInput.Focus()
		return a, textinput.Blink

	case "s":
		if a.sortMode == filter.SortDueDate {
			a.sortMode = filter.SortTitle
		} else {
			a.sortMode = filter.SortDueDate
		}
		a.project()
		return a, nil

	case "m":
		if a.cb.FetchMetrics != nil {
			a.loading = true
			return a, a.cb.FetchMetrics
		}
		return a, nil

	case "r":
		if a.cb.LoadBoard != nil {
			a.loading = true
			return a, a.cb.LoadBoard
		}
		return a, nil
	}

	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.query = a.searchInput.Value()
		a.mode = modeBoard
		a.project()
		return a, nil
	case "esc":
		a.mode = modeBoard
		a.searchInput.SetValue(a.query)
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Live filtering: project on every keystroke.
	a.query = a.searchInput.Value()
	a.project()
	return a, cmd
}

func (a App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		a.mode = modeBoard
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.form = nil
		a.mode = modeBoard
		return a, nil

	case "enter":
		item, err := a.form.item()
		if err != nil {
			a.form.err = err
			return a, nil
		}
		if a.form.editing {
			err = a.callEdit(item)
		} else {
			err = a.callCreate(item)
		}
		if err != nil {
			// Structural validation: keep the form open showing the error.
			a.form.err = err
			return a, nil
		}
		a.form = nil
		a.mode = modeBoard
		a.status = "saved"
		a.refresh()
		return a, nil

	case "tab", "down":
		a.form.next()
		return a, nil
	case "shift+tab", "up":
		a.form.prev()
		return a, nil
	}

	var cmd tea.Cmd
	*a.form, cmd = a.form.update(msg)
	return a, cmd
}

func (a *App) callCreate(item model.ContentItem) error {
	if a.cb.Create == nil {
		return nil
	}
	return a.cb.Create(item)
}

func (a *App) callEdit(item model.ContentItem) error {
	if a.cb.Edit == nil {
		return nil
	}
	return a.cb.Edit(item)
}

// setSnapshot replaces the rendered state and re-projects.
func (a *App) setSnapshot(snapshot map[model.Stage][]model.ContentItem) {
	if snapshot == nil {
		snapshot = map[model.Stage][]model.ContentItem{}
	}
	a.snapshot = snapshot
	a.project()
}

// refresh re-reads the board after a local mutation.
func (a *App) refresh() {
	if a.cb.Snapshot != nil {
		a.setSnapshot(a.cb.Snapshot())
	}
}

// project recomputes the filtered/sorted view and clamps the cursor.
func (a *App) project() {
	a.view = filter.Project(a.snapshot, a.query, a.sortMode)
	a.clampRow()
}

func (a *App) clampRow() {
	n := len(a.focusedList())
	if a.row >= n {
		a.row = n - 1
	}
	if a.row < 0 {
		a.row = 0
	}
}

func (a App) focusedList() []model.ContentItem {
	return a.view.Lists[a.stages[a.col]]
}

// focusedItem returns the item under the cursor in the rendered view.
func (a App) focusedItem() (model.ContentItem, bool) {
	list := a.focusedList()
	if a.row < 0 || a.row >= len(list) {
		return model.ContentItem{}, false
	}
	return list[a.row], true
}

// FocusedID returns the id under the cursor (for testing).
func (a App) FocusedID() string {
	item, ok := a.focusedItem()
	if !ok {
		return ""
	}
	return item.ID
}

// Counts returns the rendered per-stage counts (for testing).
func (a App) Counts() map[model.Stage]int {
	return a.view.Counts
}
