package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/runtara-monitor/internal/cache"
	"github.com/yourusername/runtara-monitor/internal/datasource"
	"github.com/yourusername/runtara-monitor/internal/i18n"
	"github.com/yourusername/runtara-monitor/internal/model"
	"github.com/yourusername/runtara-monitor/internal/nav"
	"go.uber.org/zap"
)

// staleFactor is how many refresh intervals a snapshot may age before it is marked stale
const staleFactor = 3

// SnapshotFetcher fetches the periodic collections as one unit
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, q model.Query) (*model.Snapshot, error)
}

// Options configures the UI model
type Options struct {
	ServerAddress   string
	TenantID        string
	RefreshInterval time.Duration
	Locale          string
	Version         string
}

// Model is the main UI model
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	fetcher   SnapshotFetcher
	client    datasource.Client
	logger    *zap.Logger
	localizer *i18n.Localizer // Translator for i18n support
	opts      Options
	keys      KeyMap
	now       func() time.Time

	view      nav.ViewState
	store     *cache.DataStore
	scheduler *cache.Scheduler
	results   chan snapshotMsg // Single slot, written by the background fetch
	spinner   spinner.Model

	width    int
	height   int
	quitting bool

	// On-demand data for the checkpoint views
	checkpoints        []model.Checkpoint
	checkpointsErr     error
	checkpointsLoading bool
	checkpointData     *model.CheckpointData
	checkpointDataErr  error
	checkpointLoading  bool

	statusMessage string // Copy/export feedback
	statusIsError bool

	clipboardWrite func(string) error
	exportDir      func() (string, error)
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, fetcher SnapshotFetcher, client datasource.Client, logger *zap.Logger, opts Options) *Model {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = cache.DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleHighlight

	return &Model{
		ctx:            ctx,
		cancel:         cancel,
		fetcher:        fetcher,
		client:         client,
		logger:         logger,
		localizer:      i18n.NewLocalizer(opts.Locale),
		opts:           opts,
		keys:           DefaultKeyMap(),
		now:            time.Now,
		view:           nav.New(),
		store:          cache.NewDataStore(staleFactor*opts.RefreshInterval, logger),
		scheduler:      cache.NewScheduler(opts.RefreshInterval, logger),
		results:        make(chan snapshotMsg, 1),
		spinner:        sp,
		clipboardWrite: writeClipboard,
		exportDir:      getExportDir,
	}
}

// T translates a message by its ID
func (m *Model) T(messageID string) string {
	return m.localizer.T(messageID)
}

// TP translates a message with pluralization
func (m *Model) TP(messageID string, count int) string {
	return m.localizer.TP(messageID, count)
}

// TF translates a message with template data
func (m *Model) TF(messageID string, templateData map[string]interface{}) string {
	return m.localizer.TF(messageID, templateData)
}

// SetConnected seeds the connection indicator, typically from the startup probe
func (m *Model) SetConnected(connected bool) {
	m.store.SetConnected(connected)
}

// ViewState returns the current navigation state
func (m *Model) ViewState() nav.ViewState {
	return m.view
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.waitForSnapshot(),
		m.scheduleTick(),
		m.spinner.Tick,
	}
	if m.scheduler.Begin(m.now()) {
		m.startFetch()
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.MouseMsg:
		return m, nil

	case tea.KeyMsg:
		k := m.keys.Resolve(msg)
		if k == nav.KeyNone {
			return m, nil
		}
		return m, m.handleKey(k)

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		if m.scheduler.Tick(m.now()) {
			m.startFetch()
		}
		return m, m.scheduleTick()

	case snapshotMsg:
		return m, m.handleSnapshot(msg)

	case checkpointsMsg:
		m.handleCheckpoints(msg)
		return m, nil

	case checkpointDataMsg:
		m.handleCheckpointData(msg)
		return m, nil

	case statusMsg:
		m.statusMessage = msg.text
		m.statusIsError = msg.isError
		return m, clearStatusAfter(3 * time.Second)

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey runs the dispatcher and executes the resulting command
func (m *Model) handleKey(k nav.Key) tea.Cmd {
	next, cmd := nav.Dispatch(m.view, k)
	if next.Mode() != m.view.Mode() {
		m.logger.Debug("View mode changed",
			zap.Stringer("from", m.view.Mode()),
			zap.Stringer("to", next.Mode()))
	}
	m.view = next
	m.clampScroll()
	return m.execute(cmd)
}

// execute turns a dispatcher command into side effects
func (m *Model) execute(cmd nav.Command) tea.Cmd {
	switch cmd.Kind {
	case nav.CmdQuit:
		m.quitting = true
		m.cancel()
		return tea.Quit

	case nav.CmdRefresh:
		if m.scheduler.RequestNow(m.now()) {
			m.startFetch()
		}
		return nil

	case nav.CmdFetchCheckpoints:
		m.checkpoints = nil
		m.checkpointsErr = nil
		m.checkpointsLoading = true
		return m.fetchCheckpoints(cmd.InstanceID)

	case nav.CmdFetchCheckpointData:
		m.checkpointData = nil
		m.checkpointDataErr = nil
		m.checkpointLoading = true
		return m.fetchCheckpointData(cmd.InstanceID, cmd.CheckpointID)

	case nav.CmdCopy:
		return m.copyToClipboard(cmd.Text)

	case nav.CmdExport:
		return m.exportList(cmd.Tab)

	default:
		return nil
	}
}

// query captures the parameters of the next periodic fetch
func (m *Model) query() model.Query {
	return model.Query{
		TenantID:    m.opts.TenantID,
		Status:      m.view.Filter().Status(),
		Granularity: m.view.Granularity(),
		Limit:       datasource.DefaultListLimit,
	}
}

// startFetch runs one periodic fetch in the background.
// The goroutine only sees the immutable query and reports through the results channel.
func (m *Model) startFetch() {
	q := m.query()
	ctx := m.ctx
	fetcher := m.fetcher
	results := m.results
	logger := m.logger

	go func() {
		snapshot, err := fetcher.FetchSnapshot(ctx, q)
		if err != nil {
			logger.Debug("Background fetch failed", zap.Stringer("query", q), zap.Error(err))
		}
		results <- snapshotMsg{snapshot: snapshot, query: q, err: err}
	}()
}

// waitForSnapshot delivers the next background fetch result to the loop
func (m *Model) waitForSnapshot() tea.Cmd {
	results := m.results
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case msg := <-results:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// scheduleTick drives the countdown once per second
func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// handleSnapshot applies a finished periodic fetch
func (m *Model) handleSnapshot(msg snapshotMsg) tea.Cmd {
	now := m.now()
	if msg.err != nil {
		m.store.Fail(msg.err, now)
		m.logger.Warn("Refresh failed", zap.Stringer("query", msg.query), zap.Error(msg.err))
	} else {
		m.store.Apply(msg.snapshot, now)
		m.syncLists()
	}

	if m.scheduler.Complete(now) {
		m.startFetch()
	}
	return m.waitForSnapshot()
}

// syncLists re-clamps every list cursor against the current snapshot
func (m *Model) syncLists() {
	snap := m.store.Snapshot()
	if snap == nil {
		return
	}

	rows := make([]nav.InstanceRow, len(snap.Instances))
	for i, inst := range snap.Instances {
		rows[i] = nav.InstanceRow{ID: inst.ID, Status: inst.Status}
	}

	imageIDs := make([]string, len(snap.Images))
	for i, img := range snap.Images {
		imageIDs[i] = img.ID
	}

	var bucketKeys []string
	if snap.Metrics != nil {
		bucketKeys = make([]string, len(snap.Metrics.Buckets))
		for i, b := range snap.Metrics.Buckets {
			bucketKeys[i] = b.Key()
		}
	}

	m.view = m.view.
		WithInstances(rows).
		WithList(nav.ListImages, imageIDs).
		WithList(nav.ListMetrics, bucketKeys)
}

// fetchCheckpoints loads the checkpoints of one instance
func (m *Model) fetchCheckpoints(instanceID string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		checkpoints, err := client.ListCheckpoints(ctx, instanceID)
		return checkpointsMsg{instanceID: instanceID, checkpoints: checkpoints, err: err}
	}
}

// fetchCheckpointData loads and decodes one checkpoint blob
func (m *Model) fetchCheckpointData(instanceID, checkpointID string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		raw, err := client.GetCheckpointData(ctx, instanceID, checkpointID)
		if err != nil {
			return checkpointDataMsg{instanceID: instanceID, checkpointID: checkpointID, err: err}
		}
		return checkpointDataMsg{
			instanceID:   instanceID,
			checkpointID: checkpointID,
			data:         model.DecodeCheckpointData(instanceID, checkpointID, raw),
		}
	}
}

// handleCheckpoints applies a checkpoint list if the user is still looking at it
func (m *Model) handleCheckpoints(msg checkpointsMsg) {
	top, ok := m.view.Top()
	if !ok || top.Mode != nav.ModeCheckpointsList || top.InstanceID != msg.instanceID {
		m.logger.Debug("Dropping checkpoints for a view that is no longer shown",
			zap.String("instance", msg.instanceID))
		return
	}

	m.checkpointsLoading = false
	if msg.err != nil {
		m.checkpointsErr = msg.err
		m.logger.Warn("Failed to list checkpoints", zap.String("instance", msg.instanceID), zap.Error(msg.err))
		return
	}

	m.checkpoints = msg.checkpoints
	ids := make([]string, len(msg.checkpoints))
	for i, cp := range msg.checkpoints {
		ids[i] = cp.ID
	}
	m.view = m.view.WithList(nav.ListCheckpoints, ids)
}

// handleCheckpointData applies checkpoint data if the user is still looking at it
func (m *Model) handleCheckpointData(msg checkpointDataMsg) {
	top, ok := m.view.Top()
	if !ok || top.Mode != nav.ModeCheckpointDetail || top.CheckpointID != msg.checkpointID {
		m.logger.Debug("Dropping checkpoint data for a view that is no longer shown",
			zap.String("checkpoint", msg.checkpointID))
		return
	}

	m.checkpointLoading = false
	if msg.err != nil {
		m.checkpointDataErr = msg.err
		m.logger.Warn("Failed to get checkpoint data", zap.String("checkpoint", msg.checkpointID), zap.Error(msg.err))
		return
	}
	m.checkpointData = msg.data
}

// visibleInstances returns the instances matching the current filter, in list order
func (m *Model) visibleInstances() []model.Instance {
	snap := m.store.Snapshot()
	if snap == nil {
		return nil
	}
	return model.FilterByStatus(snap.Instances, m.view.Filter().Status())
}

// findInstance looks an instance up in the current snapshot
func (m *Model) findInstance(id string) (model.Instance, bool) {
	snap := m.store.Snapshot()
	if snap == nil {
		return model.Instance{}, false
	}
	for _, inst := range snap.Instances {
		if inst.ID == id {
			return inst, true
		}
	}
	return model.Instance{}, false
}

// findCheckpoint looks a checkpoint up in the loaded list
func (m *Model) findCheckpoint(id string) (model.Checkpoint, bool) {
	for _, cp := range m.checkpoints {
		if cp.ID == id {
			return cp, true
		}
	}
	return model.Checkpoint{}, false
}

// Messages
type snapshotMsg struct {
	snapshot *model.Snapshot
	query    model.Query
	err      error
}

type checkpointsMsg struct {
	instanceID  string
	checkpoints []model.Checkpoint
	err         error
}

type checkpointDataMsg struct {
	instanceID   string
	checkpointID string
	data         *model.CheckpointData
	err          error
}

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
