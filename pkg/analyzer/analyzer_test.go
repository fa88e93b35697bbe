package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkills(t *testing.T) {
	text := "Ищем Go-разработчика: PostgreSQL, Kafka, k8s. Опыт с Node.js будет плюсом. Google Docs не нужен."
	assert.Equal(t, []string{"Go", "Node.js", "PostgreSQL", "Kafka", "Kubernetes"}, ExtractSkills(text))

	// word boundaries: no Go inside "good"/"google", no SQL inside PostgreSQL
	assert.Empty(t, ExtractSkills("good google"))
	assert.NotContains(t, ExtractSkills("postgresql"), "SQL")
	assert.Equal(t, []string{"C++", "C#"}, ExtractSkills("C++ и C#"))
	assert.Equal(t, []string{"Микросервисы"}, ExtractSkills("микросервисная архитектура"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "еж", normalizeText(" Ёж "))
	assert.Equal(t, "англиискии", normalizeText("Английский"))
}

func TestKeywordAnalyze(t *testing.T) {
	a := NewKeywordAnalyzer()
	res, err := a.Analyze(context.Background(), Request{
		Title:  "Senior Go Developer",
		Text:   "Go, PostgreSQL, Docker, Kubernetes",
		Tags:   []string{"Go", "Highload"},
		Skills: []string{"golang", "Docker", "postgres"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker", "Kubernetes", "Highload"}, res.RequiredSkills)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Docker"}, res.MatchingSkills)
	assert.Equal(t, []string{"Kubernetes", "Highload"}, res.MissingSkills)
	assert.Equal(t, 60, res.MatchScore)
	assert.Equal(t, SourceKeyword, res.Source)
	assert.Contains(t, res.Recommendations[0], "Хорошее совпадение")
}

func TestKeywordAnalyzeNothingRequired(t *testing.T) {
	res, err := NewKeywordAnalyzer().Analyze(context.Background(), Request{Text: "Дружный коллектив, печеньки", Skills: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.MatchScore)
	assert.Empty(t, res.RequiredSkills)
	assert.NotNil(t, res.MatchingSkills)
	assert.Len(t, res.Recommendations, 1)
}

func TestKeywordAdapt(t *testing.T) {
	ad, err := NewKeywordAnalyzer().Adapt(context.Background(), AdaptRequest{
		Request: Request{
			Title:  "Frontend Developer",
			Text:   "React, TypeScript, Figma",
			Skills: []string{"Vue", "TypeScript", "React"},
		},
		ResumeName:    "Основное резюме",
		ResumeContent: "Фронтенд-разработчик, 4 года опыта.",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TypeScript", "React", "Vue"}, ad.Skills)
	assert.Equal(t, 66, ad.MatchScore)
	assert.Contains(t, ad.Content, "Цель: позиция «Frontend Developer».")
	assert.Contains(t, ad.Content, "Фронтенд-разработчик, 4 года опыта.")
	assert.Len(t, ad.Adaptations, 3)
}

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestOpenAIAnalyze(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"requiredSkills":["Go","Kafka","go"],"recommendations":["Расскажите про Kafka"]}`)
	defer srv.Close()

	a := NewOpenAIAnalyzer(OpenAIConfig{APIKey: "test", BaseURL: srv.URL}, nil)
	res, err := a.Analyze(context.Background(), Request{Title: "Go dev", Skills: []string{"golang"}})
	require.NoError(t, err)

	assert.Equal(t, SourceOpenAI, res.Source)
	assert.Equal(t, []string{"Go", "Kafka"}, res.RequiredSkills)
	assert.Equal(t, []string{"Go"}, res.MatchingSkills)
	assert.Equal(t, 50, res.MatchScore)
	assert.Equal(t, []string{"Расскажите про Kafka"}, res.Recommendations)
}

func TestOpenAIFallsBackToKeywords(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	a := NewOpenAIAnalyzer(OpenAIConfig{APIKey: "test", BaseURL: srv.URL}, nil)
	res, err := a.Analyze(context.Background(), Request{Text: "Python, Django", Skills: []string{"Python"}})
	require.NoError(t, err)
	assert.Equal(t, SourceKeyword, res.Source)
	assert.Equal(t, 50, res.MatchScore)

	ad, err := a.Adapt(context.Background(), AdaptRequest{Request: Request{Text: "Python"}, ResumeContent: "cv"})
	require.NoError(t, err)
	assert.Equal(t, SourceKeyword, ad.Source)
}
