package speech

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Dispatcher runs one function invocation named by the provider.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, argsJSON string) (string, error)
}

// Provider turns recognized guest utterances into assistant replies,
// invoking order functions through the dispatcher along the way.
type Provider interface {
	// Name identifies the provider for logs and fallback decisions.
	Name() string

	// RegisterTools makes the call's function surface available.
	RegisterTools(tools []openai.Tool)

	// Respond processes one guest utterance and returns what to say back.
	Respond(ctx context.Context, utterance string) (string, error)

	// Reset clears conversation history at the start of a call.
	Reset()
}
