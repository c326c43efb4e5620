package grading

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"coding-club/internal/config"

	"github.com/hashicorp/go-multierror"
	openai "github.com/sashabaranov/go-openai"
)

var ErrNoProviders = errors.New("no AI providers configured")

// Completer 回傳單一 prompt 的模型回覆
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider 是有名稱的 Completer，用於 Chain 的錯誤訊息
type Provider interface {
	Completer
	Name() string
}

// OpenAIProvider 呼叫 OpenAI 相容的 chat completions API
type OpenAIProvider struct {
	name   string
	model  string
	client *openai.Client
}

func NewOpenAIProvider(p config.Provider) *OpenAIProvider {
	cfg := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	return &OpenAIProvider{
		name:   p.Name,
		model:  p.Model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// NewProviders 依設定順序建立供應商
func NewProviders(cfgs []config.Provider) []Provider {
	ps := make([]Provider, 0, len(cfgs))
	for _, c := range cfgs {
		ps = append(ps, NewOpenAIProvider(c))
	}
	return ps
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		FrequencyPenalty: 1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// StatusCode 取出供應商錯誤的 HTTP 狀態碼，無法判斷時回傳 0
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func isClientError(err error) bool {
	code := StatusCode(err)
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

// Chain 依序嘗試供應商
// 4xx 錯誤 (金鑰無效、額度用盡) 換下一個供應商，其他錯誤直接中止
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Complete(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProviders
	}
	var errs *multierror.Error
	for _, p := range c.providers {
		text, err := p.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		err = fmt.Errorf("%s: %w", p.Name(), err)
		if !isClientError(err) {
			return "", err
		}
		errs = multierror.Append(errs, err)
	}
	return "", errs.ErrorOrNil()
}
