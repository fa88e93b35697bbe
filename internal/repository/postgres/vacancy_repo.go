package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"smartcareer-backend/internal/domain"
)

type vacancyRepo struct {
	db *pgxpool.Pool
}

func NewVacancyRepository(db *pgxpool.Pool) domain.VacancyRepository {
	return &vacancyRepo{db: db}
}

const vacancyColumns = `id, title, company, location, salary, salary_from, remote, tags, requirements, description, employment_type, posted_at`

func scanVacancy(row interface{ Scan(...any) error }) (*domain.Vacancy, error) {
	var v domain.Vacancy
	var tags, requirements []string
	err := row.Scan(
		&v.ID, &v.Title, &v.Company, &v.Location, &v.Salary, &v.SalaryFrom, &v.Remote,
		pq.Array(&tags), pq.Array(&requirements), &v.Description, &v.EmploymentType, &v.PostedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	v.Tags = tags
	v.Requirements = requirements
	return &v, nil
}

func (r *vacancyRepo) Create(ctx context.Context, v *domain.Vacancy) error {
	if v.SalaryFrom == nil {
		v.SalaryFrom = domain.SalaryFloorPtr(v.Salary)
	}
	query := `INSERT INTO vacancies (title, company, location, salary, salary_from, remote, tags, requirements, description, employment_type, posted_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE($11, NOW()))
              RETURNING id, posted_at`
	var postedAt any
	if !v.PostedAt.IsZero() {
		postedAt = v.PostedAt
	}
	err := r.db.QueryRow(ctx, query,
		v.Title, v.Company, v.Location, v.Salary, v.SalaryFrom, v.Remote,
		pq.Array(nonNilStrings(v.Tags)), pq.Array(nonNilStrings(v.Requirements)),
		v.Description, v.EmploymentType, postedAt,
	).Scan(&v.ID, &v.PostedAt)
	return mapError(err)
}

func (r *vacancyRepo) GetByID(ctx context.Context, id int64) (*domain.Vacancy, error) {
	query := `SELECT ` + vacancyColumns + ` FROM vacancies WHERE id = $1`
	return scanVacancy(r.db.QueryRow(ctx, query, id))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches s literally inside an ILIKE ... ESCAPE '\' clause.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// buildVacancyWhere renders the filter as a WHERE clause with positional args.
func buildVacancyWhere(f domain.VacancyFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Remote != nil {
		conds = append(conds, "remote = "+next(*f.Remote))
	}
	if f.SalaryMin != nil {
		// unparsable salaries are kept
		conds = append(conds, "(salary_from IS NULL OR salary_from >= "+next(*f.SalaryMin)+")")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := next(containsPattern(s))
		conds = append(conds, fmt.Sprintf(`(title ILIKE %[1]s ESCAPE '\' OR company ILIKE %[1]s ESCAPE '\' OR description ILIKE %[1]s ESCAPE '\' OR array_to_string(tags, ' ') ILIKE %[1]s ESCAPE '\')`, p))
	}
	if f.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM unnest(tags) t WHERE LOWER(t) = LOWER("+next(f.Tag)+"))")
	}
	if l := strings.TrimSpace(f.Location); l != "" {
		conds = append(conds, "location ILIKE "+next(containsPattern(l))+` ESCAPE '\'`)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *vacancyRepo) Fetch(ctx context.Context, filter domain.VacancyFilter) ([]domain.Vacancy, int64, error) {
	where, args := buildVacancyWhere(filter)
	page := filter.Page.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vacancies`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM vacancies%s ORDER BY id LIMIT $%d OFFSET $%d`,
		vacancyColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vacancies := make([]domain.Vacancy, 0, page.Limit)
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, 0, err
		}
		vacancies = append(vacancies, *v)
	}
	return vacancies, total, rows.Err()
}
