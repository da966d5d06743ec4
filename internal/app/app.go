// Package app contains the root dashboard model.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/chartwell/internal/chart"
	"github.com/zjrosen/chartwell/internal/charts"
	"github.com/zjrosen/chartwell/internal/config"
	"github.com/zjrosen/chartwell/internal/dataset"
	"github.com/zjrosen/chartwell/internal/engine"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/keys"
	"github.com/zjrosen/chartwell/internal/log"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/orchestrator"
	"github.com/zjrosen/chartwell/internal/pubsub"
	"github.com/zjrosen/chartwell/internal/registry"
	"github.com/zjrosen/chartwell/internal/scheduler"
	"github.com/zjrosen/chartwell/internal/ui/styles"
	"github.com/zjrosen/chartwell/internal/watcher"
)

// Services are the collaborators the dashboard drives.
type Services struct {
	Charts *charts.Service
	Loop   *scheduler.Loop
	Source *dataset.Source
	Global *globaloption.Store
}

// panel is one dataset file shown as one chart.
type panel struct {
	id    registry.Identity
	path  string
	title string
	chart *chart.Chart
	raw   option.Option
}

// pendingUpdate is a refresh waiting for its registry lookup to resolve.
type pendingUpdate struct {
	id     registry.Identity
	raw    option.Option
	lookup *scheduler.Future[engine.Instance]
}

// loadResult is the outcome of reading one dataset file.
type loadResult struct {
	path string
	ds   *dataset.Dataset
	err  error
}

type datasetsMsg struct {
	results []loadResult
	listErr error
}

type filesChangedMsg struct {
	paths []string
}

// turnMsg asks the model to run one scheduler turn.
type turnMsg struct{}

// zonePrefix marks chart panels for mouse selection.
const zonePrefix = "chart-"

// Model is the root dashboard state.
type Model struct {
	svc    *charts.Service
	loop   *scheduler.Loop
	source *dataset.Source
	global *globaloption.Store
	cfg    config.Config

	panels   []*panel
	byPath   map[string]*panel
	pending  []pendingUpdate
	selected int
	cursor   int

	width  int
	height int

	status   string
	help     help.Model
	showHelp bool
	showLog  bool
	lastLog  string

	ctx            context.Context
	cancel         context.CancelFunc
	chartListener  *pubsub.ContinuousListener[registry.Change]
	logListener    *log.LogListener
	watcherHandle  *watcher.Watcher
	watcherChanges <-chan []string
}

// New creates the dashboard. When cfg.AutoRefresh is set the dataset
// directory is watched for changes.
func New(services Services, cfg config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.UI.ChartWidth <= 0 {
		cfg.UI.ChartWidth = chart.DefaultWidth
	}
	if cfg.UI.ChartHeight <= 0 {
		cfg.UI.ChartHeight = chart.DefaultHeight
	}

	m := Model{
		svc:           services.Charts,
		loop:          services.Loop,
		source:        services.Source,
		global:        services.Global,
		cfg:           cfg,
		byPath:        make(map[string]*panel),
		help:          help.New(),
		ctx:           ctx,
		cancel:        cancel,
		chartListener: pubsub.NewContinuousListener(ctx, services.Charts.Events()),
		logListener:   log.NewListener(ctx),
	}

	if cfg.AutoRefresh {
		wcfg := watcher.DefaultConfig(services.Source.Dir())
		if cfg.Cache.Debounce > 0 {
			wcfg.DebounceDur = cfg.Cache.Debounce
		}
		w, err := watcher.New(wcfg)
		if err == nil {
			changes, startErr := w.Start()
			if startErr == nil {
				m.watcherHandle = w
				m.watcherChanges = changes
			} else {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", startErr)
			}
		} else {
			log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", err)
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadAll(), m.chartListener.Listen()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.watcherChanges != nil {
		cmds = append(cmds, waitForChanges(m.watcherChanges))
	}
	return tea.Batch(cmds...)
}

// Close stops the watcher and the event listeners.
func (m Model) Close() {
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			log.Warn(log.CatWatcher, "Stopping watcher", "error", err)
		}
	}
	m.cancel()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			for i, p := range m.panels {
				if z := zone.Get(zonePrefix + p.id.String()); z != nil && z.InBounds(msg) {
					m.selected = i
					m.cursor = 0
					break
				}
			}
		}
		return m, nil

	case datasetsMsg:
		return m.handleDatasets(msg)

	case filesChangedMsg:
		m.source.Invalidate(m.ctx, msg.paths...)
		log.Debug(log.CatWatcher, "Datasets changed", "paths", len(msg.paths))
		return m, tea.Batch(m.load(msg.paths), waitForChanges(m.watcherChanges))

	case turnMsg:
		m.loop.RunTurn()
		m.resolvePending()
		return m, m.turnCmd()

	case pubsub.Event[registry.Change]:
		if msg.Type == pubsub.DeletedEvent {
			log.Debug(log.CatRegistry, "Chart removed", "identity", msg.Payload.Identity, "size", msg.Payload.Size)
		}
		return m, m.chartListener.Listen()

	case log.LogEvent:
		m.lastLog = strings.TrimSpace(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Dashboard.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Dashboard.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, keys.Dashboard.ToggleLog):
		m.showLog = !m.showLog

	case key.Matches(msg, keys.Dashboard.Right):
		if len(m.panels) > 0 {
			m.selected = (m.selected + 1) % len(m.panels)
			m.cursor = 0
		}

	case key.Matches(msg, keys.Dashboard.Left):
		if len(m.panels) > 0 {
			m.selected = (m.selected - 1 + len(m.panels)) % len(m.panels)
			m.cursor = 0
		}

	case key.Matches(msg, keys.Dashboard.Down):
		if p := m.current(); p != nil && m.cursor < len(p.chart.Categories())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Dashboard.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Dashboard.Refresh):
		log.Debug(log.CatRegistry, "Refreshing charts", "identities", m.svc.Identities())
		m.source.Reset(m.ctx)
		m.status = "reloading"
		return m, m.loadAll()

	case key.Matches(msg, keys.Dashboard.Drift):
		if p := m.current(); p != nil {
			m.svc.DriftPalette(p.chart, true)
			m.status = "palette drifted"
			return m, m.turnCmd()
		}

	case key.Matches(msg, keys.Dashboard.Theme):
		return m.cycleTheme()
	}
	return m, nil
}

func (m Model) handleDatasets(msg datasetsMsg) (tea.Model, tea.Cmd) {
	if msg.listErr != nil {
		m.status = "cannot list datasets: " + msg.listErr.Error()
		log.ErrorErr(log.CatDataset, "Listing datasets failed", msg.listErr)
	}

	for _, res := range msg.results {
		existing := m.byPath[res.path]
		switch {
		case res.err != nil && errors.Is(res.err, fs.ErrNotExist):
			if existing != nil {
				m.removePanel(existing)
			}
		case res.err != nil:
			m.status = res.err.Error()
			log.ErrorErr(log.CatDataset, "Loading dataset failed", res.err, "path", res.path)
		case existing != nil:
			existing.raw = res.ds.Raw
			existing.title = res.ds.Title()
			m.pending = append(m.pending, pendingUpdate{
				id:     existing.id,
				raw:    res.ds.Raw,
				lookup: m.svc.Query(existing.id),
			})
		default:
			m.addPanel(res.ds)
		}
	}

	return m, m.turnCmd()
}

func (m *Model) addPanel(ds *dataset.Dataset) {
	c := chart.New(m.global.Theme(), chart.WithSize(m.cfg.UI.ChartWidth, m.cfg.UI.ChartHeight))
	p := &panel{
		id:    m.svc.GenerateIdentity(),
		path:  ds.Path,
		title: ds.Title(),
		chart: c,
		raw:   ds.Raw,
	}

	m.svc.Register(p.id, c)
	state := m.svc.Update(m.ctx, p.id, ds.Raw)
	m.svc.DriftPalette(c, m.global.DriftPalette())

	selected := m.current()
	m.panels = append(m.panels, p)
	slices.SortFunc(m.panels, func(a, b *panel) int { return strings.Compare(a.path, b.path) })
	if selected != nil {
		m.selected = slices.Index(m.panels, selected)
	}
	m.byPath[p.path] = p

	log.Info(log.CatUI, "Added chart", "path", p.path, "identity", p.id, "state", state)
}

func (m *Model) removePanel(p *panel) {
	m.svc.Remove(p.id)
	delete(m.byPath, p.path)
	m.panels = slices.DeleteFunc(m.panels, func(other *panel) bool { return other == p })
	if m.selected >= len(m.panels) {
		m.selected = max(len(m.panels)-1, 0)
	}
	m.cursor = 0
	m.status = "removed " + p.title
}

// resolvePending applies refreshes whose lookups have settled.
func (m *Model) resolvePending() {
	remaining := m.pending[:0]
	for _, pu := range m.pending {
		if !pu.lookup.Settled() {
			remaining = append(remaining, pu)
			continue
		}
		if _, err := pu.lookup.Result(); err != nil {
			log.Debug(log.CatUpdate, "Dropping refresh", "identity", pu.id, "error", err)
			continue
		}
		m.svc.Update(m.ctx, pu.id, pu.raw)
	}
	m.pending = remaining
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	names := chart.ThemeNames()
	next := names[(slices.Index(names, m.global.Theme())+1)%len(names)]
	theme, err := chart.LookupTheme(next)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.svc.SetGlobalOption(option.Option{globaloption.KeyTheme: next})
	for _, p := range m.panels {
		p.chart.SetOption(option.Option{option.KeyColor: slices.Clone(theme.Palette)})
		m.svc.Update(m.ctx, p.id, p.raw)
		m.svc.DriftPalette(p.chart, m.global.DriftPalette())
	}

	m.status = "theme " + next
	if path := m.cfg.GlobalOptionFile; path != "" {
		if err := config.SaveKey(path, globaloption.KeyTheme, next); err != nil {
			m.status = "theme not saved: " + err.Error()
			log.ErrorErr(log.CatConfig, "Saving theme failed", err, "path", path)
		}
	}
	return m, m.turnCmd()
}

func (m Model) current() *panel {
	if m.selected < 0 || m.selected >= len(m.panels) {
		return nil
	}
	return m.panels[m.selected]
}

func (m Model) turnCmd() tea.Cmd {
	if m.loop.Pending() == 0 && len(m.pending) == 0 {
		return nil
	}
	return func() tea.Msg { return turnMsg{} }
}

func (m Model) loadAll() tea.Cmd {
	source := m.source
	ctx := m.ctx
	known := make([]string, 0, len(m.byPath))
	for path := range m.byPath {
		known = append(known, path)
	}

	return func() tea.Msg {
		paths, err := source.List()
		if err != nil {
			return datasetsMsg{listErr: err}
		}
		// Known paths missing from the listing resolve to not-exist errors.
		for _, path := range known {
			if !slices.Contains(paths, path) {
				paths = append(paths, path)
			}
		}
		return datasetsMsg{results: loadPaths(ctx, source, paths)}
	}
}

func (m Model) load(paths []string) tea.Cmd {
	source := m.source
	ctx := m.ctx
	return func() tea.Msg {
		return datasetsMsg{results: loadPaths(ctx, source, paths)}
	}
}

func loadPaths(ctx context.Context, source *dataset.Source, paths []string) []loadResult {
	results := make([]loadResult, 0, len(paths))
	for _, path := range paths {
		ds, err := source.Load(ctx, path)
		results = append(results, loadResult{path: path, ds: ds, err: err})
	}
	return results
}

func waitForChanges(ch <-chan []string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		paths, ok := <-ch
		if !ok {
			return nil
		}
		return filesChangedMsg{paths: paths}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	if len(m.panels) == 0 {
		sections = append(sections, styles.StatusBarStyle.Render(
			fmt.Sprintf("no datasets in %s", m.source.Dir())))
	} else {
		sections = append(sections, m.renderGrid())
	}

	if m.cfg.UI.ShowTooltip {
		if p := m.current(); p != nil {
			if tip := p.chart.Tooltip(m.cursor); tip != "" {
				sections = append(sections, styles.TooltipStyle.Render(tip))
			}
		}
	}

	if m.showLog && m.lastLog != "" {
		line := m.lastLog
		if m.width > 4 && ansi.StringWidth(line) > m.width-2 {
			line = ansi.Truncate(line, m.width-2, "…")
		}
		sections = append(sections, styles.LogLineStyle.Render(line))
	}

	if m.cfg.UI.ShowStatusBar {
		sections = append(sections, m.renderStatusBar())
	}
	sections = append(sections, m.help.View(keys.Dashboard))

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderGrid() string {
	boxWidth := m.cfg.UI.ChartWidth + 2
	columns := 1
	if m.width > 0 {
		columns = max(m.width/boxWidth, 1)
	}

	var rows []string
	for start := 0; start < len(m.panels); start += columns {
		end := min(start+columns, len(m.panels))
		boxes := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			boxes = append(boxes, m.renderPanel(m.panels[i], i == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPanel(p *panel, focused bool) string {
	width, height := p.chart.LayoutSize()
	box := styles.Panel(p.chart.View(), p.title, width+2, height+2, focused, stateColor(m.svc.State(p.id)))
	return zone.Mark(zonePrefix+p.id.String(), box)
}

func (m Model) renderStatusBar() string {
	parts := []string{
		"chartwell",
		fmt.Sprintf("%d charts", m.svc.Size()),
		"theme " + m.global.Theme(),
	}
	if p := m.current(); p != nil {
		parts = append(parts, string(m.svc.State(p.id)))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return styles.StatusBarStyle.Render(strings.Join(parts, " · "))
}

func stateColor(state orchestrator.State) lipgloss.TerminalColor {
	switch state {
	case orchestrator.StateRendered:
		return styles.StateRenderedColor
	case orchestrator.StateLoading:
		return styles.StateLoadingColor
	case orchestrator.StateStale:
		return styles.StateErrorColor
	default:
		return styles.TextSecondaryColor
	}
}
