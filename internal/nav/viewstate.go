// Package nav holds the dashboard's navigation state and the pure key dispatcher.
// Nothing in this package performs I/O; side effects are returned as Commands.
package nav

import (
	"github.com/yourusername/runtara-monitor/internal/model"
)

// MaxDepth is the maximum number of frames above the List base
const MaxDepth = 3

// Tab is a top-level section of the dashboard
type Tab int

const (
	TabInstances Tab = iota
	TabImages
	TabMetrics
	TabHealth
	tabCount
)

// Tabs returns all tabs in display order
func Tabs() []Tab {
	return []Tab{TabInstances, TabImages, TabMetrics, TabHealth}
}

// String returns the tab's display name
func (t Tab) String() string {
	switch t {
	case TabInstances:
		return "Instances"
	case TabImages:
		return "Images"
	case TabMetrics:
		return "Metrics"
	case TabHealth:
		return "Health"
	default:
		return "Unknown"
	}
}

// ViewMode is the current screen
type ViewMode int

const (
	ModeList ViewMode = iota
	ModeInstanceDetail
	ModeCheckpointsList
	ModeCheckpointDetail
)

// String returns the mode name
func (m ViewMode) String() string {
	switch m {
	case ModeList:
		return "List"
	case ModeInstanceDetail:
		return "InstanceDetail"
	case ModeCheckpointsList:
		return "CheckpointsList"
	case ModeCheckpointDetail:
		return "CheckpointDetail"
	default:
		return "Unknown"
	}
}

// StatusFilter restricts the instances list to one status
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterRunning
	FilterCompleted
	FilterFailed
	FilterPending
	FilterSuspended
	filterCount
)

// Filters returns every filter value in cycle order
func Filters() []StatusFilter {
	return []StatusFilter{FilterAll, FilterRunning, FilterCompleted, FilterFailed, FilterPending, FilterSuspended}
}

// Next returns the following filter, wrapping after Suspended
func (f StatusFilter) Next() StatusFilter {
	return (f + 1) % filterCount
}

// Status returns the instance status the filter selects, empty for All
func (f StatusFilter) Status() model.InstanceStatus {
	switch f {
	case FilterRunning:
		return model.StatusRunning
	case FilterCompleted:
		return model.StatusCompleted
	case FilterFailed:
		return model.StatusFailed
	case FilterPending:
		return model.StatusPending
	case FilterSuspended:
		return model.StatusSuspended
	default:
		return ""
	}
}

// String returns the filter's display name
func (f StatusFilter) String() string {
	if f == FilterAll {
		return "All"
	}
	return string(f.Status())
}

// ListID names a selectable list
type ListID int

const (
	ListInstances ListID = iota
	ListImages
	ListMetrics
	ListCheckpoints
	listCount
)

// listForTab returns the list shown on a tab; Health has none
func listForTab(t Tab) (ListID, bool) {
	switch t {
	case TabInstances:
		return ListInstances, true
	case TabImages:
		return ListImages, true
	case TabMetrics:
		return ListMetrics, true
	default:
		return 0, false
	}
}

// Cursor is the selection within one list.
// Index is -1 exactly when the list is empty.
type Cursor struct {
	IDs   []string
	Index int
}

// emptyCursor has no items and no selection
func emptyCursor() Cursor {
	return Cursor{Index: -1}
}

// Len returns the number of items
func (c Cursor) Len() int {
	return len(c.IDs)
}

// Selected returns the selected item's identity
func (c Cursor) Selected() (string, bool) {
	if c.Index < 0 || c.Index >= len(c.IDs) {
		return "", false
	}
	return c.IDs[c.Index], true
}

// Valid reports whether the cursor satisfies the selection invariant
func (c Cursor) Valid() bool {
	if len(c.IDs) == 0 {
		return c.Index == -1
	}
	return c.Index >= 0 && c.Index < len(c.IDs)
}

// reclamp points the cursor at a new list, keeping the selected item by identity,
// else by position clamped to the new length, else none.
func (c Cursor) reclamp(ids []string) Cursor {
	next := Cursor{IDs: ids, Index: -1}
	if len(ids) == 0 {
		return next
	}
	if id, ok := c.Selected(); ok {
		for i, candidate := range ids {
			if candidate == id {
				next.Index = i
				return next
			}
		}
	}
	pos := c.Index
	if pos < 0 {
		pos = 0
	}
	if pos >= len(ids) {
		pos = len(ids) - 1
	}
	next.Index = pos
	return next
}

// first selects the first item, or none when empty
func (c Cursor) first() Cursor {
	if len(c.IDs) == 0 {
		return Cursor{IDs: c.IDs, Index: -1}
	}
	return Cursor{IDs: c.IDs, Index: 0}
}

// move shifts the selection by delta, wrapping at both ends
func (c Cursor) move(delta int) Cursor {
	n := len(c.IDs)
	if n == 0 {
		return c
	}
	idx := c.Index
	if idx < 0 {
		idx = 0
	}
	idx = ((idx+delta)%n + n) % n
	return Cursor{IDs: c.IDs, Index: idx}
}

// Frame is one pushed screen above the List base
type Frame struct {
	Mode         ViewMode
	InstanceID   string
	CheckpointID string
	Scroll       int
}

// InstanceRow is the part of an instance the navigation state needs for filtering
type InstanceRow struct {
	ID     string
	Status model.InstanceStatus
}

// ViewState is the navigation position, independent of fetched data.
// It is a value: every transition returns a new ViewState and never mutates the receiver.
type ViewState struct {
	tab          Tab
	stack        []Frame
	cursors      [listCount]Cursor
	instanceRows []InstanceRow
	filter       StatusFilter
	granularity  model.Granularity
}

// New returns the initial state: List mode on the Instances tab
func New() ViewState {
	v := ViewState{
		tab:         TabInstances,
		filter:      FilterAll,
		granularity: model.GranularityHourly,
	}
	for i := range v.cursors {
		v.cursors[i] = emptyCursor()
	}
	return v
}

// Tab returns the active tab
func (v ViewState) Tab() Tab { return v.tab }

// Filter returns the active status filter
func (v ViewState) Filter() StatusFilter { return v.filter }

// Granularity returns the active metrics granularity
func (v ViewState) Granularity() model.Granularity { return v.granularity }

// Depth returns the number of frames above List
func (v ViewState) Depth() int { return len(v.stack) }

// Mode returns the current view mode
func (v ViewState) Mode() ViewMode {
	if top, ok := v.Top(); ok {
		return top.Mode
	}
	return ModeList
}

// Top returns the innermost frame
func (v ViewState) Top() (Frame, bool) {
	if len(v.stack) == 0 {
		return Frame{}, false
	}
	return v.stack[len(v.stack)-1], true
}

// Frames returns a copy of the navigation stack, outermost first
func (v ViewState) Frames() []Frame {
	out := make([]Frame, len(v.stack))
	copy(out, v.stack)
	return out
}

// Cursor returns the selection of a list
func (v ViewState) Cursor(list ListID) Cursor {
	if list < 0 || list >= listCount {
		return emptyCursor()
	}
	return v.cursors[list]
}

// ActiveCursor returns the cursor of the active tab's list
func (v ViewState) ActiveCursor() (Cursor, bool) {
	list, ok := listForTab(v.tab)
	if !ok {
		return emptyCursor(), false
	}
	return v.cursors[list], true
}

// CurrentInstanceID returns the instance the navigation stack is rooted at
func (v ViewState) CurrentInstanceID() string {
	if len(v.stack) == 0 {
		return ""
	}
	return v.stack[0].InstanceID
}

// WithInstances replaces the unfiltered instance rows and re-clamps the
// instances cursor against the rows visible under the active filter.
func (v ViewState) WithInstances(rows []InstanceRow) ViewState {
	v.instanceRows = rows
	v.cursors[ListInstances] = v.cursors[ListInstances].reclamp(v.visibleInstanceIDs())
	return v
}

// WithList replaces the identities of a list and re-clamps its cursor.
// Instances go through WithInstances so the filter is applied; ListInstances is ignored here.
func (v ViewState) WithList(list ListID, ids []string) ViewState {
	if list == ListInstances || list < 0 || list >= listCount {
		return v
	}
	v.cursors[list] = v.cursors[list].reclamp(ids)
	return v
}

// visibleInstanceIDs applies the status filter to the instance rows
func (v ViewState) visibleInstanceIDs() []string {
	status := v.filter.Status()
	ids := make([]string, 0, len(v.instanceRows))
	for _, row := range v.instanceRows {
		if status == "" || row.Status == status {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

// Valid reports whether every invariant holds
func (v ViewState) Valid() bool {
	if len(v.stack) > MaxDepth || v.tab < 0 || v.tab >= tabCount {
		return false
	}
	for _, c := range v.cursors {
		if !c.Valid() {
			return false
		}
	}
	for i, f := range v.stack {
		// Frame i must hold mode i+1 along the single allowed path
		if f.Mode != ViewMode(i+1) || f.Scroll < 0 {
			return false
		}
	}
	return true
}

// push adds a frame, refusing beyond MaxDepth. The stack is copied so earlier values stay intact.
func (v ViewState) push(f Frame) (ViewState, bool) {
	if len(v.stack) >= MaxDepth {
		return v, false
	}
	stack := make([]Frame, len(v.stack), len(v.stack)+1)
	copy(stack, v.stack)
	v.stack = append(stack, f)
	return v, true
}

// pop removes the innermost frame
func (v ViewState) pop() ViewState {
	if len(v.stack) == 0 {
		return v
	}
	popped := v.stack[len(v.stack)-1]
	stack := make([]Frame, len(v.stack)-1)
	copy(stack, v.stack[:len(v.stack)-1])
	v.stack = stack
	if popped.Mode == ModeCheckpointsList {
		v.cursors[ListCheckpoints] = emptyCursor()
	}
	return v
}

// scroll adjusts the innermost frame's scroll offset, never below zero
func (v ViewState) scroll(delta int) ViewState {
	if len(v.stack) == 0 {
		return v
	}
	stack := v.Frames()
	top := &stack[len(stack)-1]
	top.Scroll += delta
	if top.Scroll < 0 {
		top.Scroll = 0
	}
	v.stack = stack
	return v
}

// ClampScroll limits the innermost frame's scroll offset to [0, limit].
// The UI calls it once the rendered content length is known.
func (v ViewState) ClampScroll(limit int) ViewState {
	top, ok := v.Top()
	if !ok {
		return v
	}
	if limit < 0 {
		limit = 0
	}
	if top.Scroll <= limit {
		return v
	}
	return v.scroll(limit - top.Scroll)
}
