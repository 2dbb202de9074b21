package speech

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Invocation is one function call produced from an utterance.
type Invocation struct {
	Function string
	ArgsJSON string
}

// ScriptFunc maps a guest utterance to zero or more function invocations.
type ScriptFunc func(utterance string) []Invocation

// ScriptedProvider replays a fixed utterance-to-function mapping. It backs
// development mode and tests, where no reasoning backend is available.
type ScriptedProvider struct {
	dispatcher Dispatcher
	script     ScriptFunc
}

func NewScriptedProvider(dispatcher Dispatcher, script ScriptFunc) *ScriptedProvider {
	return &ScriptedProvider{dispatcher: dispatcher, script: script}
}

func (p *ScriptedProvider) Name() string { return "scripted" }

func (p *ScriptedProvider) RegisterTools(tools []openai.Tool) {}

func (p *ScriptedProvider) Reset() {}

func (p *ScriptedProvider) Respond(ctx context.Context, utterance string) (string, error) {
	invocations := p.script(utterance)
	if len(invocations) == 0 {
		return "I'm sorry, I didn't catch that. Could you say it again?", nil
	}
	var last string
	for _, inv := range invocations {
		reply, err := p.dispatcher.Dispatch(ctx, inv.Function, inv.ArgsJSON)
		if err != nil {
			return "", err
		}
		last = reply
	}
	return last, nil
}
