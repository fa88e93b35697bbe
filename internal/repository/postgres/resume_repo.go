package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"smartcareer-backend/internal/domain"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id, user_id, name, is_original, base_resume_id, vacancy_id, content, skills, adaptations, match_score, file_url, created_at, updated_at`

func scanResume(row interface{ Scan(...any) error }) (*domain.Resume, error) {
	var res domain.Resume
	var skills, adaptations []string
	err := row.Scan(
		&res.ID, &res.UserID, &res.Name, &res.IsOriginal, &res.BaseResumeID, &res.VacancyID,
		&res.Content, pq.Array(&skills), pq.Array(&adaptations), &res.MatchScore,
		&res.FileURL, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	res.Skills = skills
	if len(adaptations) > 0 {
		res.Adaptations = adaptations
	}
	return &res, nil
}

func (r *resumeRepo) Create(ctx context.Context, res *domain.Resume) error {
	query := `INSERT INTO resumes (user_id, name, is_original, base_resume_id, vacancy_id, content, skills, adaptations, match_score, file_url)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		res.UserID, res.Name, res.IsOriginal, res.BaseResumeID, res.VacancyID, res.Content,
		pq.Array(nonNilStrings(res.Skills)), pq.Array(nonNilStrings(res.Adaptations)), res.MatchScore, res.FileURL,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	return mapError(err)
}

func (r *resumeRepo) GetByID(ctx context.Context, id int64) (*domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`
	return scanResume(r.db.QueryRow(ctx, query, id))
}

func (r *resumeRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *resumeRepo) Update(ctx context.Context, res *domain.Resume) error {
	query := `UPDATE resumes
              SET name = $2, content = $3, skills = $4, adaptations = $5, match_score = $6,
                  file_url = $7, updated_at = NOW()
              WHERE id = $1
              RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		res.ID, res.Name, res.Content, pq.Array(nonNilStrings(res.Skills)),
		pq.Array(nonNilStrings(res.Adaptations)), res.MatchScore, res.FileURL,
	).Scan(&res.UpdatedAt)
	return mapError(err)
}

func (r *resumeRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id))
}
