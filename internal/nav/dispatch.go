package nav

// Key is an abstract input, already decoded from the terminal event
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyBack
	KeyNextTab
	KeyPrevTab
	KeyTab1
	KeyTab2
	KeyTab3
	KeyTab4
	KeyUp
	KeyDown
	KeyOpen
	KeyCheckpoints
	KeyFilter
	KeyGranularity
	KeyRefresh
	KeyCopy
	KeyExport
	keyCount
)

// AllKeys returns every key, KeyNone included
func AllKeys() []Key {
	keys := make([]Key, 0, keyCount)
	for k := KeyNone; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// CommandKind identifies a side effect requested by a transition
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdQuit
	CmdRefresh
	CmdFetchCheckpoints
	CmdFetchCheckpointData
	CmdCopy
	CmdExport
)

// String returns the command name for logs
func (k CommandKind) String() string {
	switch k {
	case CmdNone:
		return "none"
	case CmdQuit:
		return "quit"
	case CmdRefresh:
		return "refresh"
	case CmdFetchCheckpoints:
		return "fetch-checkpoints"
	case CmdFetchCheckpointData:
		return "fetch-checkpoint-data"
	case CmdCopy:
		return "copy"
	case CmdExport:
		return "export"
	default:
		return "unknown"
	}
}

// Command is a side effect for the orchestration layer to execute
type Command struct {
	Kind         CommandKind
	InstanceID   string
	CheckpointID string
	Text         string // Clipboard payload for CmdCopy
	Tab          Tab    // Exported tab for CmdExport
}

// Dispatch maps a state and a key to the next state and an optional command.
// It is total: unknown or inapplicable keys return the state unchanged with CmdNone.
func Dispatch(v ViewState, k Key) (ViewState, Command) {
	if k == KeyRefresh {
		return v, Command{Kind: CmdRefresh}
	}

	switch v.Mode() {
	case ModeList:
		return dispatchList(v, k)
	case ModeInstanceDetail:
		return dispatchInstanceDetail(v, k)
	case ModeCheckpointsList:
		return dispatchCheckpointsList(v, k)
	case ModeCheckpointDetail:
		return dispatchCheckpointDetail(v, k)
	}
	return v, Command{}
}

func dispatchList(v ViewState, k Key) (ViewState, Command) {
	switch k {
	case KeyQuit, KeyBack:
		return v, Command{Kind: CmdQuit}

	case KeyNextTab:
		v.tab = (v.tab + 1) % tabCount
	case KeyPrevTab:
		v.tab = (v.tab + tabCount - 1) % tabCount
	case KeyTab1:
		v.tab = TabInstances
	case KeyTab2:
		v.tab = TabImages
	case KeyTab3:
		v.tab = TabMetrics
	case KeyTab4:
		v.tab = TabHealth

	case KeyUp, KeyDown:
		list, ok := listForTab(v.tab)
		if !ok {
			break
		}
		delta := 1
		if k == KeyUp {
			delta = -1
		}
		v.cursors[list] = v.cursors[list].move(delta)

	case KeyOpen:
		if v.tab != TabInstances {
			break
		}
		id, ok := v.cursors[ListInstances].Selected()
		if !ok {
			break
		}
		v, _ = v.push(Frame{Mode: ModeInstanceDetail, InstanceID: id})

	case KeyFilter:
		if v.tab != TabInstances {
			break
		}
		v.filter = v.filter.Next()
		v.cursors[ListInstances] = Cursor{IDs: v.visibleInstanceIDs()}.first()
		return v, Command{Kind: CmdRefresh}

	case KeyGranularity:
		if v.tab != TabMetrics {
			break
		}
		v.granularity = v.granularity.Toggle()
		v.cursors[ListMetrics] = v.cursors[ListMetrics].first()
		return v, Command{Kind: CmdRefresh}

	case KeyExport:
		if _, ok := listForTab(v.tab); !ok {
			break
		}
		return v, Command{Kind: CmdExport, Tab: v.tab}
	}
	return v, Command{}
}

func dispatchInstanceDetail(v ViewState, k Key) (ViewState, Command) {
	top, _ := v.Top()
	switch k {
	case KeyQuit, KeyBack:
		return v.pop(), Command{}
	case KeyUp:
		return v.scroll(-1), Command{}
	case KeyDown:
		return v.scroll(1), Command{}
	case KeyCopy:
		return v, Command{Kind: CmdCopy, Text: top.InstanceID}
	case KeyCheckpoints:
		next, ok := v.push(Frame{Mode: ModeCheckpointsList, InstanceID: top.InstanceID})
		if !ok {
			return v, Command{}
		}
		next.cursors[ListCheckpoints] = emptyCursor()
		return next, Command{Kind: CmdFetchCheckpoints, InstanceID: top.InstanceID}
	}
	return v, Command{}
}

func dispatchCheckpointsList(v ViewState, k Key) (ViewState, Command) {
	top, _ := v.Top()
	switch k {
	case KeyQuit, KeyBack:
		return v.pop(), Command{}
	case KeyUp:
		v.cursors[ListCheckpoints] = v.cursors[ListCheckpoints].move(-1)
	case KeyDown:
		v.cursors[ListCheckpoints] = v.cursors[ListCheckpoints].move(1)
	case KeyCopy:
		if id, ok := v.cursors[ListCheckpoints].Selected(); ok {
			return v, Command{Kind: CmdCopy, Text: id}
		}
	case KeyOpen:
		id, ok := v.cursors[ListCheckpoints].Selected()
		if !ok {
			break
		}
		next, pushed := v.push(Frame{Mode: ModeCheckpointDetail, InstanceID: top.InstanceID, CheckpointID: id})
		if !pushed {
			break
		}
		return next, Command{Kind: CmdFetchCheckpointData, InstanceID: top.InstanceID, CheckpointID: id}
	}
	return v, Command{}
}

func dispatchCheckpointDetail(v ViewState, k Key) (ViewState, Command) {
	top, _ := v.Top()
	switch k {
	case KeyQuit, KeyBack:
		return v.pop(), Command{}
	case KeyUp:
		return v.scroll(-1), Command{}
	case KeyDown:
		return v.scroll(1), Command{}
	case KeyCopy:
		return v, Command{Kind: CmdCopy, Text: top.CheckpointID}
	}
	return v, Command{}
}
