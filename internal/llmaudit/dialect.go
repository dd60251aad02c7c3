package llmaudit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// wireRequest is the dialect-agnostic shape call builds from, generalised
// from the teacher's internal/llmproxy.Dialect request-rewriting split
// (headers/body shape differ per dialect, the orchestrator's call site does
// not).
type wireRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// buildRequest renders one HTTP request for the given provider/model/system
// prompt/user message, dispatching on ProviderType the way the teacher's
// RequestRewriter dispatches on Dialect.
func buildRequest(p Provider, apiKey, modelName, system, user string) (wireRequest, error) {
	switch p.Type {
	case ProviderTypeAnthropic:
		return buildAnthropicRequest(p, apiKey, modelName, system, user)
	case ProviderTypeGemini:
		return buildGeminiRequest(p, apiKey, modelName, system, user)
	default:
		return buildOpenAICompatRequest(p, apiKey, modelName, system, user)
	}
}

func buildAnthropicRequest(p Provider, apiKey, modelName, system, user string) (wireRequest, error) {
	body, err := json.Marshal(map[string]any{
		"model":      modelName,
		"max_tokens": 8192,
		"system":     system,
		"messages": []map[string]string{
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return wireRequest{}, err
	}
	return wireRequest{
		Method: http.MethodPost,
		URL:    p.BaseURL + "/v1/messages",
		Headers: map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": "2023-06-01",
			"Content-Type":      "application/json",
		},
		Body: body,
	}, nil
}

func buildGeminiRequest(p Provider, apiKey, modelName, system, user string) (wireRequest, error) {
	body, err := json.Marshal(map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]string{{"text": system}},
		},
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": user}}},
		},
	})
	if err != nil {
		return wireRequest{}, err
	}
	return wireRequest{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.BaseURL, modelName, apiKey),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: body,
	}, nil
}

func buildOpenAICompatRequest(p Provider, apiKey, modelName, system, user string) (wireRequest, error) {
	body, err := json.Marshal(map[string]any{
		"model": modelName,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return wireRequest{}, err
	}
	return wireRequest{
		Method: http.MethodPost,
		URL:    p.BaseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Content-Type":  "application/json",
		},
		Body: body,
	}, nil
}

// parsedResponse is the dialect-normalised shape extracted from a raw HTTP
// response body: the assistant's text content plus whether the provider
// signalled truncation, plus token counts when the provider reports them.
type parsedResponse struct {
	Text            string
	Truncated       bool
	PromptTokens    int
	CompletionTokens int
}

// parseResponse dispatches on ProviderType to pull the assistant text and
// truncation flag out of dialect-specific response envelopes. It never
// fails: a body that is not JSON is returned whole as Text, so the caller's
// JSON extractor still sees it; a JSON body of an unrecognised shape yields
// an empty Text.
func parseResponse(p Provider, body []byte) parsedResponse {
	switch p.Type {
	case ProviderTypeAnthropic:
		return parseAnthropicResponse(body)
	case ProviderTypeGemini:
		return parseGeminiResponse(body)
	default:
		return parseOpenAICompatResponse(body)
	}
}

func parseAnthropicResponse(body []byte) parsedResponse {
	var env struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return parsedResponse{Text: string(body)}
	}
	var text bytes.Buffer
	for _, c := range env.Content {
		text.WriteString(c.Text)
	}
	return parsedResponse{
		Text:             text.String(),
		Truncated:        env.StopReason == "max_tokens",
		PromptTokens:     env.Usage.InputTokens,
		CompletionTokens: env.Usage.OutputTokens,
	}
}

func parseGeminiResponse(body []byte) parsedResponse {
	var env struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return parsedResponse{Text: string(body)}
	}
	var text bytes.Buffer
	truncated := false
	for _, c := range env.Candidates {
		for _, part := range c.Content.Parts {
			text.WriteString(part.Text)
		}
		if c.FinishReason == "MAX_TOKENS" {
			truncated = true
		}
	}
	return parsedResponse{
		Text:             text.String(),
		Truncated:        truncated,
		PromptTokens:     env.UsageMetadata.PromptTokenCount,
		CompletionTokens: env.UsageMetadata.CandidatesTokenCount,
	}
}

func parseOpenAICompatResponse(body []byte) parsedResponse {
	var env struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return parsedResponse{Text: string(body)}
	}
	var text bytes.Buffer
	truncated := false
	for _, c := range env.Choices {
		text.WriteString(c.Message.Content)
		if c.FinishReason == "length" {
			truncated = true
		}
	}
	return parsedResponse{
		Text:             text.String(),
		Truncated:        truncated,
		PromptTokens:     env.Usage.PromptTokens,
		CompletionTokens: env.Usage.CompletionTokens,
	}
}
