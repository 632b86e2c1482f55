package extract

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// Shot is one few-shot example exchanged with the model.
type Shot struct {
	User      string
	Assistant string
}

// ChatClient is the minimal language-model surface the pipeline needs.
// The JSON-object response format is always requested.
type ChatClient interface {
	Complete(ctx context.Context, system string, shots []Shot, user string) (string, error)
}

// OpenAIClient adapts the OpenAI chat completions API to ChatClient.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, shots []Shot, user string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2+2*len(shots))
	messages = append(messages, openai.SystemMessage(system))
	for _, shot := range shots {
		messages = append(messages, openai.UserMessage(shot.User), openai.AssistantMessage(shot.Assistant))
	}
	messages = append(messages, openai.UserMessage(user))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("llm: empty completion")
	}
	return completion.Choices[0].Message.Content, nil
}

var _ ChatClient = (*OpenAIClient)(nil)
