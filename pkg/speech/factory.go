package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/errhandler"
	"github.com/grandplaza/roomvoice/pkg/logger"
)

// NewProvider builds the reasoning provider chain from the ordered candidate
// list in configuration. Candidates whose construction fails are skipped with
// a warning; at least one must construct.
func NewProvider(cfg *config.Config, dispatcher Dispatcher, script ScriptFunc) (Provider, error) {
	var built []Provider
	for _, candidate := range cfg.Providers {
		name := strings.ToLower(strings.TrimSpace(candidate))
		var p Provider
		var err error
		switch name {
		case "openai":
			p, err = NewOpenAIProvider(name, cfg.LLMApiKey, cfg.LLMBaseURL, cfg.LLMModel, dispatcher)
		case "scripted":
			if script == nil {
				err = fmt.Errorf("scripted provider requires a script")
			} else {
				p = NewScriptedProvider(dispatcher, script)
			}
		default:
			err = fmt.Errorf("unknown provider %q", candidate)
		}
		if err != nil {
			logger.Warn("skipping provider", zap.String("provider", candidate), zap.Error(err))
			continue
		}
		built = append(built, p)
	}

	switch len(built) {
	case 0:
		return nil, fmt.Errorf("no usable provider among %v", cfg.Providers)
	case 1:
		return built[0], nil
	default:
		return NewFallbackProvider(built), nil
	}
}

// FallbackProvider tries providers in order, advancing past one permanently
// when it fails with a fatal-classified error. Transient errors stay with the
// current provider so the turn can simply be retried.
type FallbackProvider struct {
	providers []Provider
	active    int
	classify  *errhandler.Handler
}

func NewFallbackProvider(providers []Provider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
		classify:  errhandler.NewHandler(logger.L()),
	}
}

func (f *FallbackProvider) Name() string {
	return f.providers[f.active].Name()
}

func (f *FallbackProvider) RegisterTools(tools []openai.Tool) {
	for _, p := range f.providers {
		p.RegisterTools(tools)
	}
}

func (f *FallbackProvider) Reset() {
	for _, p := range f.providers {
		p.Reset()
	}
}

func (f *FallbackProvider) Respond(ctx context.Context, utterance string) (string, error) {
	for f.active < len(f.providers) {
		reply, err := f.providers[f.active].Respond(ctx, utterance)
		if err == nil {
			return reply, nil
		}
		if errhandler.IsCancellation(err) {
			return "", err
		}
		if f.classify.Classify(err, f.Name()).Type != errhandler.ErrorTypeFatal {
			return "", err
		}
		logger.Warn("provider failed fatally, falling back",
			zap.String("provider", f.providers[f.active].Name()), zap.Error(err))
		f.active++
	}
	return "", fmt.Errorf("all providers exhausted")
}
