package speech

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/errhandler"
)

type recordingDispatcher struct {
	calls []string
	reply string
	err   error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, name, argsJSON string) (string, error) {
	d.calls = append(d.calls, name)
	return d.reply, d.err
}

func TestScriptedProvider(t *testing.T) {
	disp := &recordingDispatcher{reply: "done"}
	p := NewScriptedProvider(disp, func(utterance string) []Invocation {
		if strings.Contains(utterance, "room") {
			return []Invocation{{Function: "provide_room_number", ArgsJSON: `{"room_number":"412"}`}}
		}
		return nil
	})

	reply, err := p.Respond(context.Background(), "my room is 412")
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Equal(t, []string{"provide_room_number"}, disp.calls)

	reply, err = p.Respond(context.Background(), "mumble")
	require.NoError(t, err)
	assert.Contains(t, reply, "didn't catch")
}

type fakeProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	resets  int
	toolSet bool
}

func (p *fakeProvider) Name() string                      { return p.name }
func (p *fakeProvider) RegisterTools(tools []openai.Tool) { p.toolSet = true }
func (p *fakeProvider) Reset()                            { p.resets++ }
func (p *fakeProvider) Respond(ctx context.Context, utterance string) (string, error) {
	p.calls++
	return p.reply, p.err
}

func TestFallbackProviderSticksOnTransient(t *testing.T) {
	primary := &fakeProvider{name: "a", err: errhandler.NewTransientError("speech", "hiccup", nil)}
	secondary := &fakeProvider{name: "b", reply: "ok"}
	f := NewFallbackProvider([]Provider{primary, secondary})

	_, err := f.Respond(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, "a", f.Name())
	assert.Zero(t, secondary.calls)
}

func TestFallbackProviderAdvancesOnFatal(t *testing.T) {
	primary := &fakeProvider{name: "a", err: errhandler.NewFatalError("speech", "api key invalid", nil)}
	secondary := &fakeProvider{name: "b", reply: "ok"}
	f := NewFallbackProvider([]Provider{primary, secondary})

	reply, err := f.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, "b", f.Name())

	// The failed provider is never consulted again.
	_, err = f.Respond(context.Background(), "hello again")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackProviderClassifiesRawErrors(t *testing.T) {
	primary := &fakeProvider{name: "a", err: errors.New("401 unauthorized")}
	secondary := &fakeProvider{name: "b", reply: "ok"}
	f := NewFallbackProvider([]Provider{primary, secondary})

	reply, err := f.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestFallbackProviderPropagatesCancellation(t *testing.T) {
	primary := &fakeProvider{name: "a", err: context.Canceled}
	secondary := &fakeProvider{name: "b", reply: "ok"}
	f := NewFallbackProvider([]Provider{primary, secondary})

	_, err := f.Respond(context.Background(), "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, secondary.calls)
}

func TestFallbackProviderBroadcastsToolsAndReset(t *testing.T) {
	a := &fakeProvider{name: "a"}
	b := &fakeProvider{name: "b"}
	f := NewFallbackProvider([]Provider{a, b})

	f.RegisterTools([]openai.Tool{{Type: openai.ToolTypeFunction}})
	f.Reset()

	assert.True(t, a.toolSet)
	assert.True(t, b.toolSet)
	assert.Equal(t, 1, a.resets)
	assert.Equal(t, 1, b.resets)
}

func TestNewProviderSkipsUnconstructable(t *testing.T) {
	cfg := &config.Config{Providers: []string{"openai", "scripted"}}

	// No API key: openai is skipped, scripted carries the chain.
	p, err := NewProvider(cfg, &recordingDispatcher{}, func(string) []Invocation { return nil })
	require.NoError(t, err)
	assert.Equal(t, "scripted", p.Name())
}

func TestNewProviderFailsWhenNothingConstructs(t *testing.T) {
	cfg := &config.Config{Providers: []string{"openai"}}
	_, err := NewProvider(cfg, &recordingDispatcher{}, nil)
	assert.Error(t, err)
}
