package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"smartcareer-backend/internal/domain"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id, user_id, vacancy_id, resume_id, position, company, status, cover_letter, applied_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*domain.Application, error) {
	var a domain.Application
	err := row.Scan(
		&a.ID, &a.UserID, &a.VacancyID, &a.ResumeID, &a.Position, &a.Company,
		&a.Status, &a.CoverLetter, &a.Date, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (user_id, vacancy_id, resume_id, position, company, status, cover_letter)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, applied_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		app.UserID, app.VacancyID, app.ResumeID, app.Position, app.Company, app.Status, app.CoverLetter,
	).Scan(&app.ID, &app.Date, &app.UpdatedAt)
	return mapError(err)
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.db.QueryRow(ctx, query, id))
}

func (r *applicationRepo) GetByUserID(ctx context.Context, userID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
              WHERE user_id = $1 AND ($2 = '' OR status = $2)
              ORDER BY applied_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *applicationRepo) CheckExists(ctx context.Context, userID string, vacancyID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1 AND vacancy_id = $2)`
	err := r.db.QueryRow(ctx, query, userID, vacancyID).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	query := `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`
	return affected(r.db.Exec(ctx, query, id, status))
}

func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	return affected(r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id))
}
