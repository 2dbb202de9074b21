package speech

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/grandplaza/roomvoice/pkg/errhandler"
	"github.com/grandplaza/roomvoice/pkg/logger"
)

const systemPrompt = `You are a hotel room service assistant on a phone call.
Keep replies short and natural for speech. Always use the provided functions
to look up the menu and manage the order; never invent menu items or prices.
Ask for the guest's room number before taking any order.`

// maxToolRounds bounds tool-call loops within one guest turn.
const maxToolRounds = 5

// OpenAIProvider drives the conversation through an OpenAI-compatible chat
// completion API with function tools.
type OpenAIProvider struct {
	name       string
	client     *openai.Client
	model      string
	dispatcher Dispatcher

	tools    []openai.Tool
	messages []openai.ChatCompletionMessage
}

func NewOpenAIProvider(name, apiKey, baseURL, model string, dispatcher Dispatcher) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errhandler.NewFatalError("speech", "api key not configured", nil)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	p := &OpenAIProvider{
		name:       name,
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		dispatcher: dispatcher,
	}
	p.Reset()
	return p, nil
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) RegisterTools(tools []openai.Tool) {
	p.tools = tools
}

func (p *OpenAIProvider) Reset() {
	p.messages = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}
}

func (p *OpenAIProvider) Respond(ctx context.Context, utterance string) (string, error) {
	p.messages = append(p.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: utterance,
	})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    p.model,
			Messages: p.messages,
			Tools:    p.tools,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}

		msg := resp.Choices[0].Message
		p.messages = append(p.messages, msg)

		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			result, err := p.dispatcher.Dispatch(ctx, call.Function.Name, call.Function.Arguments)
			if err != nil {
				logger.Warn("tool call failed",
					zap.String("function", call.Function.Name), zap.Error(err))
				result = "Something went wrong with that request. Apologize briefly and offer to try again."
			}
			p.messages = append(p.messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}
	return "", fmt.Errorf("tool call loop exceeded %d rounds", maxToolRounds)
}
