package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"smartcareer-backend/internal/domain"
)

type analysisRepo struct {
	db *pgxpool.Pool
}

func NewAnalysisRepository(db *pgxpool.Pool) domain.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *domain.VacancyAnalysis) error {
	query := `INSERT INTO vacancy_analyses (user_id, vacancy_id, vacancy_title, required_skills, matching_skills, missing_skills, match_score, recommendations, source)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		a.UserID, a.VacancyID, a.VacancyTitle,
		pq.Array(nonNilStrings(a.RequiredSkills)), pq.Array(nonNilStrings(a.MatchingSkills)),
		pq.Array(nonNilStrings(a.MissingSkills)), a.MatchScore,
		pq.Array(nonNilStrings(a.Recommendations)), a.Source,
	).Scan(&a.ID, &a.CreatedAt)
	return mapError(err)
}

func (r *analysisRepo) GetByUserID(ctx context.Context, userID string, limit int) ([]domain.VacancyAnalysis, error) {
	query := `SELECT id, user_id, vacancy_id, vacancy_title, required_skills, matching_skills, missing_skills,
                     match_score, recommendations, source, created_at
              FROM vacancy_analyses
              WHERE user_id = $1
              ORDER BY created_at DESC, id DESC
              LIMIT NULLIF($2, 0)`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.VacancyAnalysis, 0)
	for rows.Next() {
		var a domain.VacancyAnalysis
		var required, matching, missing, recs []string
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.VacancyID, &a.VacancyTitle,
			pq.Array(&required), pq.Array(&matching), pq.Array(&missing),
			&a.MatchScore, pq.Array(&recs), &a.Source, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.RequiredSkills = nonNilStrings(required)
		a.MatchingSkills = nonNilStrings(matching)
		a.MissingSkills = nonNilStrings(missing)
		a.Recommendations = nonNilStrings(recs)
		out = append(out, a)
	}
	return out, rows.Err()
}
