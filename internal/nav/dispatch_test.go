package nav

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/runtara-monitor/internal/model"
)

// deepState walks List -> InstanceDetail -> CheckpointsList -> CheckpointDetail
func deepState(t *testing.T) ViewState {
	t.Helper()
	v := New().WithInstances(rows(model.StatusRunning, model.StatusFailed))

	var cmd Command
	v, cmd = Dispatch(v, KeyOpen)
	require.Equal(t, ModeInstanceDetail, v.Mode())
	require.Equal(t, CmdNone, cmd.Kind)

	v, cmd = Dispatch(v, KeyCheckpoints)
	require.Equal(t, ModeCheckpointsList, v.Mode())
	require.Equal(t, CmdFetchCheckpoints, cmd.Kind)
	require.Equal(t, "a", cmd.InstanceID)

	v = v.WithList(ListCheckpoints, []string{"cp-1", "cp-2"})
	v, cmd = Dispatch(v, KeyDown)
	require.Equal(t, CmdNone, cmd.Kind)

	v, cmd = Dispatch(v, KeyOpen)
	require.Equal(t, ModeCheckpointDetail, v.Mode())
	require.Equal(t, CmdFetchCheckpointData, cmd.Kind)
	require.Equal(t, "a", cmd.InstanceID)
	require.Equal(t, "cp-2", cmd.CheckpointID)
	return v
}

func TestDeepestPathAndBack(t *testing.T) {
	v := deepState(t)
	assert.Equal(t, MaxDepth, v.Depth())
	assert.True(t, v.Valid())

	v, _ = Dispatch(v, KeyBack)
	assert.Equal(t, ModeCheckpointsList, v.Mode())
	assert.Equal(t, "cp-2", mustSelected(t, v.Cursor(ListCheckpoints)))

	v, _ = Dispatch(v, KeyBack)
	assert.Equal(t, ModeInstanceDetail, v.Mode())
	assert.Equal(t, 0, v.Cursor(ListCheckpoints).Len(), "leaving the checkpoints list clears it")

	v, cmd := Dispatch(v, KeyQuit)
	assert.Equal(t, ModeList, v.Mode(), "quit in a detail view behaves as back")
	assert.Equal(t, CmdNone, cmd.Kind)

	_, cmd = Dispatch(v, KeyBack)
	assert.Equal(t, CmdQuit, cmd.Kind)
}

func TestBackFromListQuits(t *testing.T) {
	for _, tab := range Tabs() {
		v := New()
		v.tab = tab
		_, cmd := Dispatch(v, KeyBack)
		assert.Equal(t, CmdQuit, cmd.Kind, tab.String())
		_, cmd = Dispatch(v, KeyQuit)
		assert.Equal(t, CmdQuit, cmd.Kind, tab.String())
	}
}

func TestPushRefusedAtMaxDepth(t *testing.T) {
	v := deepState(t)
	next, ok := v.push(Frame{Mode: ModeCheckpointDetail})
	assert.False(t, ok)
	assert.Equal(t, MaxDepth, next.Depth())
}

func TestTabKeysOnlyInList(t *testing.T) {
	v := New()
	v, _ = Dispatch(v, KeyNextTab)
	assert.Equal(t, TabImages, v.Tab())
	v, _ = Dispatch(v, KeyPrevTab)
	v, _ = Dispatch(v, KeyPrevTab)
	assert.Equal(t, TabHealth, v.Tab())
	v, _ = Dispatch(v, KeyTab3)
	assert.Equal(t, TabMetrics, v.Tab())
	assert.Equal(t, ModeList, v.Mode())

	detail := deepState(t)
	after, cmd := Dispatch(detail, KeyTab2)
	assert.Equal(t, TabInstances, after.Tab())
	assert.Equal(t, ModeCheckpointDetail, after.Mode())
	assert.Equal(t, CmdNone, cmd.Kind)
}

func TestOpenOnlyFromInstancesWithSelection(t *testing.T) {
	empty, _ := Dispatch(New(), KeyOpen)
	assert.Equal(t, ModeList, empty.Mode())

	v := New().WithInstances(rows(model.StatusRunning)).WithList(ListImages, []string{"img"})
	v, _ = Dispatch(v, KeyTab2)
	v, _ = Dispatch(v, KeyOpen)
	assert.Equal(t, ModeList, v.Mode())
}

func TestFilterOnlyOnInstancesTab(t *testing.T) {
	v := New()
	v, _ = Dispatch(v, KeyTab2)
	v, cmd := Dispatch(v, KeyFilter)
	assert.Equal(t, FilterAll, v.Filter())
	assert.Equal(t, CmdNone, cmd.Kind)
}

func TestGranularityOnlyOnMetricsTab(t *testing.T) {
	v := New()
	v, cmd := Dispatch(v, KeyGranularity)
	assert.Equal(t, model.GranularityHourly, v.Granularity())
	assert.Equal(t, CmdNone, cmd.Kind)

	v = v.WithList(ListMetrics, []string{"t1", "t2", "t3"})
	v, _ = Dispatch(v, KeyTab3)
	v, _ = Dispatch(v, KeyDown)
	v, cmd = Dispatch(v, KeyGranularity)
	assert.Equal(t, model.GranularityDaily, v.Granularity())
	assert.Equal(t, CmdRefresh, cmd.Kind)
	assert.Equal(t, 0, v.Cursor(ListMetrics).Index)

	v, _ = Dispatch(v, KeyGranularity)
	assert.Equal(t, model.GranularityHourly, v.Granularity())
}

func TestRefreshValidEverywhere(t *testing.T) {
	for _, v := range []ViewState{New(), deepState(t)} {
		next, cmd := Dispatch(v, KeyRefresh)
		assert.Equal(t, CmdRefresh, cmd.Kind)
		assert.Equal(t, v.Mode(), next.Mode())
	}
}

func TestCopyCommands(t *testing.T) {
	v := deepState(t)
	_, cmd := Dispatch(v, KeyCopy)
	assert.Equal(t, CmdCopy, cmd.Kind)
	assert.Equal(t, "cp-2", cmd.Text)

	v, _ = Dispatch(v, KeyBack)
	v, _ = Dispatch(v, KeyBack)
	_, cmd = Dispatch(v, KeyCopy)
	assert.Equal(t, "a", cmd.Text)
}

func TestExportOnlyForListTabs(t *testing.T) {
	_, cmd := Dispatch(New(), KeyExport)
	assert.Equal(t, CmdExport, cmd.Kind)
	assert.Equal(t, TabInstances, cmd.Tab)

	v, _ := Dispatch(New(), KeyTab4)
	_, cmd = Dispatch(v, KeyExport)
	assert.Equal(t, CmdNone, cmd.Kind)
}

func TestScrollNeverNegative(t *testing.T) {
	v := New().WithInstances(rows(model.StatusRunning))
	v, _ = Dispatch(v, KeyOpen)
	v, _ = Dispatch(v, KeyUp)
	v, _ = Dispatch(v, KeyUp)
	top, _ := v.Top()
	assert.Equal(t, 0, top.Scroll)
}

// seedStates covers every mode on every tab with every filter, with and without data.
func seedStates(t *testing.T) []ViewState {
	var states []ViewState
	for _, tab := range Tabs() {
		for _, f := range Filters() {
			v := New()
			v.tab = tab
			v.filter = f
			states = append(states, v)
			states = append(states, v.WithInstances(rows(model.StatusRunning, model.StatusFailed, model.StatusPending)).
				WithList(ListImages, []string{"i1"}).
				WithList(ListMetrics, []string{"m1", "m2"}))
		}
	}
	deep := deepState(t)
	for deep.Depth() > 0 {
		states = append(states, deep)
		deep = deep.pop()
	}
	return states
}

func TestDispatchIsTotal(t *testing.T) {
	for _, v := range seedStates(t) {
		for _, k := range append(AllKeys(), Key(-1), keyCount+5) {
			assert.NotPanics(t, func() {
				next, cmd := Dispatch(v, k)
				assert.True(t, next.Valid(), "mode=%s key=%d", v.Mode(), k)
				assert.LessOrEqual(t, next.Depth(), MaxDepth)
				if cmd.Kind == CmdQuit {
					assert.Equal(t, ModeList, v.Mode(), "only List may quit")
				}
			})
		}
	}
}

func TestRandomWalkKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := AllKeys()
	statuses := []model.InstanceStatus{
		model.StatusRunning, model.StatusCompleted, model.StatusFailed, model.StatusPending, model.StatusSuspended,
	}

	for walk := 0; walk < 300; walk++ {
		v := New()
		for step := 0; step < 80; step++ {
			switch rng.Intn(10) {
			case 0:
				n := rng.Intn(6)
				rs := make([]InstanceRow, n)
				for i := range rs {
					rs[i] = InstanceRow{ID: string(rune('a' + rng.Intn(8))), Status: statuses[rng.Intn(len(statuses))]}
				}
				v = v.WithInstances(rs)
			case 1:
				ids := make([]string, rng.Intn(4))
				for i := range ids {
					ids[i] = string(rune('p' + i))
				}
				v = v.WithList(ListID(rng.Intn(int(listCount))), ids)
			default:
				var cmd Command
				prev := v
				v, cmd = Dispatch(v, keys[rng.Intn(len(keys))])
				if cmd.Kind == CmdQuit {
					require.Equal(t, ModeList, prev.Mode())
				}
			}
			require.True(t, v.Valid(), "walk %d step %d", walk, step)
			require.LessOrEqual(t, v.Depth(), MaxDepth)
		}
	}
}
