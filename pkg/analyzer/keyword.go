package analyzer

import (
	"context"
	"fmt"
	"strings"
)

// KeywordAnalyzer is the deterministic dictionary matcher.
type KeywordAnalyzer struct{}

func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

func (KeywordAnalyzer) Analyze(_ context.Context, req Request) (*Result, error) {
	required := requiredSkills(req)
	matching, missing := Compare(required, req.Skills)
	score := Score(len(matching), len(required))

	return &Result{
		RequiredSkills:  nonNil(required),
		MatchingSkills:  matching,
		MissingSkills:   missing,
		MatchScore:      score,
		Recommendations: recommendations(len(required), matching, missing, score),
		Source:          SourceKeyword,
	}, nil
}

func recommendations(required int, matching, missing []string, score int) []string {
	if required == 0 {
		return []string{"Не удалось выделить требования из описания вакансии. Добавьте больше деталей о стеке и обязанностях."}
	}

	var recs []string
	switch {
	case score >= 80:
		recs = append(recs, "Отличное совпадение! Сделайте акцент на совпадающих навыках в отклике.")
	case score >= 50:
		recs = append(recs, "Хорошее совпадение. Подчеркните релевантный опыт и смежные навыки.")
	default:
		recs = append(recs, "Совпадение низкое. Подтяните недостающие навыки или рассмотрите более близкие вакансии.")
	}

	if len(missing) > 0 {
		if len(missing) <= 3 {
			recs = append(recs, fmt.Sprintf("Стоит изучить: %s", strings.Join(missing, ", ")))
		} else {
			recs = append(recs, fmt.Sprintf("Приоритетные навыки для изучения: %s", strings.Join(missing[:3], ", ")))
		}
	}
	if len(matching) > 0 {
		recs = append(recs, fmt.Sprintf("Обязательно упомяните в резюме: %s", strings.Join(matching, ", ")))
	}
	return recs
}

// Adapt moves matching skills to the front and prepends a summary aimed at the vacancy.
func (a KeywordAnalyzer) Adapt(ctx context.Context, req AdaptRequest) (*Adaptation, error) {
	res, _ := a.Analyze(ctx, req.Request)
	return adaptFromResult(req, res), nil
}

func adaptFromResult(req AdaptRequest, res *Result) *Adaptation {
	skills := make([]string, 0, len(req.Skills))
	skills = append(skills, res.MatchingSkills...)
	set := newSkillSet(res.MatchingSkills)
	for _, s := range req.Skills {
		if !set.has(s) {
			skills = append(skills, s)
		}
	}

	var adaptations []string
	var summary strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&summary, "Цель: позиция «%s».\n", req.Title)
		adaptations = append(adaptations, fmt.Sprintf("Добавлено целевое позиционирование под вакансию «%s»", req.Title))
	}
	if len(res.MatchingSkills) > 0 {
		fmt.Fprintf(&summary, "Ключевые навыки: %s.\n", strings.Join(res.MatchingSkills, ", "))
		adaptations = append(adaptations, fmt.Sprintf("Навыки %s подняты в начало списка", strings.Join(res.MatchingSkills, ", ")))
	}
	if len(res.MissingSkills) > 0 {
		adaptations = append(adaptations, fmt.Sprintf("Рекомендуется дописать опыт с: %s", strings.Join(res.MissingSkills, ", ")))
	}

	content := strings.TrimSpace(req.ResumeContent)
	if summary.Len() > 0 {
		content = summary.String() + "\n" + content
	}

	return &Adaptation{
		Content:     strings.TrimSpace(content),
		Skills:      skills,
		Adaptations: nonNil(adaptations),
		MatchScore:  res.MatchScore,
		Source:      res.Source,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
