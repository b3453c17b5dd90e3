package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/GriffinCanCode/showcase/internal/domain/deprecation"
	"github.com/GriffinCanCode/showcase/internal/domain/reconcile"
	"github.com/GriffinCanCode/showcase/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/showcase/internal/shared/types"
	"github.com/GriffinCanCode/showcase/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrap(tag string) types.Decorator {
	return func(next types.RenderFunc) types.RenderFunc {
		return func(args types.Args) interface{} {
			return tag + "(" + next(args).(string) + ")"
		}
	}
}

func label(args types.Args) interface{} {
	s, _ := args["label"].(string)
	return s
}

func TestCreateOrGetGroup(t *testing.T) {
	m := NewMemory(nil)

	m.CreateOrGetGroup("Button")
	m.CreateOrGetGroup("Card")
	m.CreateOrGetGroup("Button")

	groups := m.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Button", groups[0].Title)
	assert.Equal(t, "Card", groups[1].Title)
}

func TestAddEntryAndRender(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")
	g.SetParameters(types.GroupParams{
		Framework:  "blueprint",
		Args:       types.Args{"label": "group", "size": "md"},
		Parameters: types.Parameters{"layout": "centered"},
	})
	g.AddDecorator(wrap("g1"))
	g.AddDecorator(wrap("g2"))

	err := g.AddEntry("Primary", label, types.EntryParams{
		ID:         "button--primary",
		Args:       types.Args{"label": "entry"},
		Parameters: types.Parameters{"docs": true},
		Decorators: []types.Decorator{wrap("e1"), wrap("e2")},
	})
	require.NoError(t, err)

	entry, ok := m.Entry("button--primary")
	require.True(t, ok)
	assert.Equal(t, "Primary", entry.Name)
	assert.Equal(t, "Button", entry.Group)
	assert.Equal(t, types.Args{"label": "entry", "size": "md"}, entry.Args())
	assert.Equal(t, types.Parameters{"layout": "centered", "docs": true}, entry.Parameters())

	// Entry decorators are innermost, then group, then globals.
	assert.Equal(t, "x(g2(g1(e2(e1(entry)))))", entry.Render(nil, wrap("x")))
	assert.Equal(t, "g2(g1(e2(e1(call))))", entry.Render(types.Args{"label": "call"}))
}

func TestSetParametersIsIdempotent(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")

	for i := 0; i < 2; i++ {
		g.SetParameters(types.GroupParams{Framework: "blueprint"})
		g.AddDecorator(wrap("g"))
	}
	require.NoError(t, g.AddEntry("Primary", label, types.EntryParams{ID: "button--primary", Args: types.Args{"label": "x"}}))

	entry, ok := m.Entry("button--primary")
	require.True(t, ok)
	assert.Equal(t, "g(x)", entry.Render(nil))
}

func TestDefaultRender(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")
	g.SetParameters(types.GroupParams{Component: "button"})
	require.NoError(t, g.AddEntry("Primary", nil, types.EntryParams{ID: "button--primary"}))

	entry, _ := m.Entry("button--primary")
	out := entry.Render(types.Args{"label": "Go"}).(map[string]interface{})
	assert.Equal(t, "button", out["component"])
	assert.Equal(t, types.Args{"label": "Go"}, out["args"])
}

func TestAddEntryErrors(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")

	err := g.AddEntry("Primary", label, types.EntryParams{})
	assert.True(t, errors.Is(err, ErrEmptyEntryID))

	m.RemoveGroup("Button")
	err = g.AddEntry("Primary", label, types.EntryParams{ID: "button--primary"})
	assert.True(t, errors.Is(err, ErrGroupRemoved))
}

func TestDuplicateEntryIDReplaces(t *testing.T) {
	logger, logs := testutil.NewObservedLogger()
	m := NewMemory(logger)
	first := m.CreateOrGetGroup("Button")
	second := m.CreateOrGetGroup("Other")

	require.NoError(t, first.AddEntry("Primary", label, types.EntryParams{ID: "button--primary"}))
	require.NoError(t, second.AddEntry("Primary again", label, types.EntryParams{ID: "button--primary"}))

	entry, ok := m.Entry("button--primary")
	require.True(t, ok)
	assert.Equal(t, "Other", entry.Group)

	groups, entries := m.Len()
	assert.Equal(t, 2, groups)
	assert.Equal(t, 1, entries)
	assert.Empty(t, m.Entries("Button"))
	assert.Equal(t, 1, logs.FilterMessage("duplicate entry id; replacing earlier entry").Len())
}

func TestRemoveGroup(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")
	require.NoError(t, g.AddEntry("Primary", label, types.EntryParams{ID: "button--primary"}))
	m.CreateOrGetGroup("Card")

	m.RemoveGroup("Button")
	m.RemoveGroup("Missing")

	_, ok := m.Entry("button--primary")
	assert.False(t, ok)
	_, ok = m.Group("Button")
	assert.False(t, ok)
	assert.Equal(t, []string{"Card"}, m.Titles())
}

func TestGroupView(t *testing.T) {
	m := NewMemory(nil)
	g := m.CreateOrGetGroup("Button")
	g.SetParameters(types.GroupParams{Framework: "blueprint", FileName: "button.stories.yaml", Component: "button"})
	require.NoError(t, g.AddEntry("B", label, types.EntryParams{ID: "button--b"}))
	require.NoError(t, g.AddEntry("A", label, types.EntryParams{ID: "button--a"}))

	view, ok := m.Group("Button")
	require.True(t, ok)
	assert.Equal(t, "button.stories.yaml", view.FileName)
	assert.Equal(t, 2, view.EntryCount)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "button--b", view.Entries[0].ID)
	assert.Equal(t, "button--a", view.Entries[1].ID)
}

func TestStats(t *testing.T) {
	m := NewMemory(nil)
	assert.Nil(t, m.Stats().LastUpdated)

	m.CreateOrGetGroup("Button").SetParameters(types.GroupParams{Framework: "blueprint"})
	m.CreateOrGetGroup("Card").SetParameters(types.GroupParams{Framework: "blueprint"})
	m.CreateOrGetGroup("Legacy").SetParameters(types.GroupParams{Framework: "html"})

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalGroups)
	assert.Equal(t, map[string]int{"blueprint": 2, "html": 1}, stats.Frameworks)
	assert.NotNil(t, stats.LastUpdated)
}

func TestMetrics(t *testing.T) {
	metrics := monitoring.NewMetricsWithRegistry(prometheus.NewRegistry())
	m := NewMemory(nil).WithMetrics(metrics)

	g := m.CreateOrGetGroup("Button")
	require.NoError(t, g.AddEntry("Primary", label, types.EntryParams{ID: "button--primary"}))
	require.NoError(t, g.AddEntry("Secondary", label, types.EntryParams{ID: "button--secondary"}))

	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.CatalogGroups))
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.CatalogEntries))

	m.RemoveGroup("Button")
	assert.Equal(t, 0.0, promtest.ToFloat64(metrics.CatalogEntries))
}

func TestConcurrentReadersDuringWrites(t *testing.T) {
	m := NewMemory(nil)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			g := m.CreateOrGetGroup("Button")
			g.SetParameters(types.GroupParams{})
			_ = g.AddEntry("Primary", label, types.EntryParams{ID: "button--primary"})
			m.RemoveGroup("Button")
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Groups()
				m.Entries("")
				m.Stats()
			}
		}()
	}
	wg.Wait()
}

func TestReconcileIntoMemory(t *testing.T) {
	m := NewMemory(nil)
	engine := reconcile.NewEngine(m, deprecation.New(nil), nil)

	button := testutil.Unit("button", testutil.NewExports("Button", "primary", "secondary"))
	card := testutil.Unit("card", testutil.NewExports("Card", "basic"))

	_, err := engine.Reconcile("blueprint", types.Snapshot{}, []types.Unit{button, card})
	require.NoError(t, err)
	assert.Equal(t, []string{"Button", "Card"}, m.Titles())

	_, err = engine.Reconcile("blueprint", types.NewSnapshot([]types.Unit{button, card}), []types.Unit{card})
	require.NoError(t, err)
	assert.Equal(t, []string{"Card"}, m.Titles())

	entry, ok := m.Entry("card--basic")
	require.True(t, ok)
	assert.Equal(t, "basic", entry.Render(nil))
}
