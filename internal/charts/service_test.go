package charts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chartwell/internal/chart"
	"github.com/zjrosen/chartwell/internal/engine/enginetest"
	"github.com/zjrosen/chartwell/internal/globaloption"
	"github.com/zjrosen/chartwell/internal/option"
	"github.com/zjrosen/chartwell/internal/orchestrator"
	"github.com/zjrosen/chartwell/internal/pubsub"
	"github.com/zjrosen/chartwell/internal/registry"
	"github.com/zjrosen/chartwell/internal/scheduler"
)

func newService(t *testing.T, opts ...Option) (*Service, *scheduler.Loop) {
	t.Helper()
	loop := scheduler.NewLoop()
	svc := New(loop, globaloption.New(), opts...)
	t.Cleanup(svc.Close)
	return svc, loop
}

func TestService_RegisterThenQuerySameTurn(t *testing.T) {
	svc, loop := newService(t)
	inst := enginetest.New(nil)
	id := svc.GenerateIdentity()

	future := svc.Query(id)
	svc.Register(id, inst)
	require.False(t, future.Settled())

	loop.RunTurn()
	got, err := future.Result()
	require.NoError(t, err)
	require.Same(t, inst, got)
}

func TestService_QueryMissRejects(t *testing.T) {
	svc, loop := newService(t)

	future := svc.Query(registry.Identity("never"))
	loop.RunTurn()

	_, err := future.Result()
	require.True(t, errors.Is(err, registry.ErrNotRegistered))
}

func TestService_RemoveIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	id := svc.GenerateIdentity()
	svc.Register(id, enginetest.New(nil))
	require.True(t, svc.Has(id))
	require.Equal(t, 1, svc.Size())
	require.Equal(t, []registry.Identity{id}, svc.Identities())

	svc.Remove(id)
	svc.Remove(id)
	require.False(t, svc.Has(id))
	require.Zero(t, svc.Size())
	require.Empty(t, svc.Identities())
	require.Equal(t, orchestrator.StateUnknown, svc.State(id))
}

func TestService_UpdateWithTerminalChart(t *testing.T) {
	svc, _ := newService(t)
	c := chart.New("macarons", chart.WithSize(50, 4))
	id := svc.GenerateIdentity()
	svc.Register(id, c)

	state := svc.Update(context.Background(), id, option.Option{
		option.KeyDynamic: true,
		option.KeyXAxis:   option.Option{option.KeyData: []any{"a", "b", "c", "d", "e", "f"}},
		option.KeySeries: []any{
			option.Option{option.KeyName: "flow", option.KeyType: "waterfall", option.KeyData: []any{5, 3, -2, 4, -1, 2}},
		},
	})

	require.Equal(t, orchestrator.StateRendered, state)
	require.False(t, c.Loading())
	_, h := c.LayoutSize()
	require.Equal(t, 9, h, "dynamic chart grows with its rows")
	require.Contains(t, c.View(), "flow")
	require.NotContains(t, c.View(), "flow (base)")
	require.Equal(t, "b\nflow: 3", c.Tooltip(1))

	state = svc.Update(context.Background(), id, option.Option{option.KeySeries: []any{}})
	require.Equal(t, orchestrator.StateLoading, state)
	require.True(t, c.Loading())
	require.Len(t, c.GetOption().Series(), 2)
}

func TestService_SetGlobalOptionReachesUpdates(t *testing.T) {
	svc, _ := newService(t)
	inst := enginetest.New(nil)
	id := svc.GenerateIdentity()
	svc.Register(id, inst)

	svc.SetGlobalOption(option.Option{"legend": option.Option{"top": "bottom"}})
	require.Equal(t, "bottom", svc.GlobalOption().Map("legend")["top"])

	svc.Update(context.Background(), id, option.Option{option.KeySeries: []any{option.Option{option.KeyData: []any{1}}}})
	calls := inst.Calls()
	committed := calls[len(calls)-1].Option
	require.Equal(t, "bottom", committed.Map("legend")["top"])
	require.Equal(t, "center", committed.Map("legend")["left"])
}

func TestService_DriftPaletteUsesRegistrySize(t *testing.T) {
	svc, loop := newService(t)
	first := chart.New("default")
	second := chart.New("default")
	svc.Register(svc.GenerateIdentity(), first)
	svc.Register(svc.GenerateIdentity(), second)

	svc.DriftPalette(second, true)
	require.Equal(t, chart.ClassicTheme.Palette, second.GetOption()[option.KeyColor], "drift waits for the next turn")

	loop.RunTurn()
	require.Equal(t, ComputeDrift(chart.ClassicTheme.Palette, 2), second.GetOption()[option.KeyColor])
}

func TestService_Events(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Events().Subscribe(ctx)

	id := svc.GenerateIdentity()
	svc.Register(id, enginetest.New(nil))
	svc.Remove(id)

	created := <-events
	require.Equal(t, pubsub.CreatedEvent, created.Type)
	require.Equal(t, 1, created.Payload.Size)

	deleted := <-events
	require.Equal(t, pubsub.DeletedEvent, deleted.Type)
	require.Equal(t, id, deleted.Payload.Identity)
}

func TestService_Metrics(t *testing.T) {
	plain, _ := newService(t)
	require.Nil(t, plain.Metrics())

	svc, loop := newService(t, WithMetrics())
	inst := chart.New("macarons")
	id := svc.GenerateIdentity()
	svc.Register(id, inst)

	svc.Update(context.Background(), id, option.Option{option.KeySeries: []any{option.Option{option.KeyData: []any{1}}}})
	svc.Update(context.Background(), registry.Identity("gone"), option.Option{})
	svc.Query(registry.Identity("gone"))
	svc.DriftPalette(inst, true)
	loop.RunTurn()

	rec := httptest.NewRecorder()
	svc.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	require.Contains(t, body, `chartwell_updates_total{state="rendered"} 1`)
	require.Contains(t, body, `chartwell_updates_total{state="stale"} 1`)
	require.Contains(t, body, "chartwell_query_failures_total 1")
	require.Contains(t, body, "chartwell_palette_drifts_total 1")
	require.Contains(t, body, "chartwell_registered_instances 1")
}
