package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"smartcareer-backend/pkg/logger"
)

// OpenAIAnalyzer asks a chat model for the requirements and recommendations.
// Scores are still computed locally. Any model failure falls back to the keyword matcher.
type OpenAIAnalyzer struct {
	client   *openai.Client
	model    string
	fallback Analyzer
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewOpenAIAnalyzer(cfg OpenAIConfig, fallback Analyzer) *OpenAIAnalyzer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if fallback == nil {
		fallback = NewKeywordAnalyzer()
	}
	return &OpenAIAnalyzer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		fallback: fallback,
	}
}

const analyzePrompt = `Ты помогаешь соискателю. Проанализируй вакансию и навыки кандидата.
Верни JSON вида {"requiredSkills": ["..."], "recommendations": ["..."]}.
requiredSkills: короткие названия технологий и навыков из вакансии.
recommendations: 2-4 совета кандидату на русском языке.`

const adaptPrompt = `Ты помогаешь соискателю адаптировать резюме под вакансию.
Не выдумывай опыт, только переформулируй и расставь акценты.
Верни JSON вида {"content": "...", "adaptations": ["..."]}.
content: полный текст адаптированного резюме. adaptations: список внесённых изменений на русском языке.`

type analyzeReply struct {
	RequiredSkills  []string `json:"requiredSkills"`
	Recommendations []string `json:"recommendations"`
}

type adaptReply struct {
	Content     string   `json:"content"`
	Adaptations []string `json:"adaptations"`
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	var reply analyzeReply
	if err := a.complete(ctx, analyzePrompt, describe(req), &reply); err != nil {
		logger.Log.Warn("openai analyze failed, using keyword matcher", "error", err)
		return a.fallback.Analyze(ctx, req)
	}

	required := dedupe(reply.RequiredSkills)
	matching, missing := Compare(required, req.Skills)
	return &Result{
		RequiredSkills:  required,
		MatchingSkills:  matching,
		MissingSkills:   missing,
		MatchScore:      Score(len(matching), len(required)),
		Recommendations: nonNil(reply.Recommendations),
		Source:          SourceOpenAI,
	}, nil
}

func (a *OpenAIAnalyzer) Adapt(ctx context.Context, req AdaptRequest) (*Adaptation, error) {
	res, err := a.Analyze(ctx, req.Request)
	if err != nil {
		return nil, err
	}
	if res.Source != SourceOpenAI {
		return adaptFromResult(req, res), nil
	}

	user := describe(req.Request) + "\n\nРезюме «" + req.ResumeName + "»:\n" + req.ResumeContent
	var reply adaptReply
	if err := a.complete(ctx, adaptPrompt, user, &reply); err != nil || strings.TrimSpace(reply.Content) == "" {
		logger.Log.Warn("openai adapt failed, using keyword rewrite", "error", err)
		return adaptFromResult(req, res), nil
	}

	local := adaptFromResult(req, res)
	return &Adaptation{
		Content:     strings.TrimSpace(reply.Content),
		Skills:      local.Skills,
		Adaptations: nonNil(reply.Adaptations),
		MatchScore:  res.MatchScore,
		Source:      SourceOpenAI,
	}, nil
}

func (a *OpenAIAnalyzer) complete(ctx context.Context, system, user string, out interface{}) error {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
		MaxTokens:   1200,
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return errors.New("openai: empty response")
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("openai: decode reply: %w", err)
	}
	return nil
}

func describe(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Вакансия: %s\n", req.Title)
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Теги: %s\n", strings.Join(req.Tags, ", "))
	}
	if req.Text != "" {
		fmt.Fprintf(&b, "Описание:\n%s\n", req.Text)
	}
	fmt.Fprintf(&b, "Навыки кандидата: %s", strings.Join(req.Skills, ", "))
	return b.String()
}

func dedupe(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := normalizeText(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
