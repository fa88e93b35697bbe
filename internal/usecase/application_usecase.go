package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/metrics"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	vacancyRepo     domain.VacancyRepository
	resumeRepo      domain.ResumeRepository
	notifications   domain.NotificationUsecase
	metrics         *metrics.Manager
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	vacancyRepo domain.VacancyRepository,
	resumeRepo domain.ResumeRepository,
	notifications domain.NotificationUsecase,
	m *metrics.Manager,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		vacancyRepo:     vacancyRepo,
		resumeRepo:      resumeRepo,
		notifications:   notifications,
		metrics:         m,
	}
}

// Apply creates a pending application to an existing vacancy.
func (uc *applicationUsecase) Apply(ctx context.Context, userID string, in domain.ApplyInput) (*domain.Application, error) {
	if in.VacancyID <= 0 {
		return nil, apperror.BadRequest("vacancyId is required")
	}

	vacancy, err := uc.vacancyRepo.GetByID(ctx, in.VacancyID)
	if err != nil {
		return nil, notFoundOr(err, "Vacancy not found")
	}

	if in.ResumeID != nil {
		resume, err := uc.resumeRepo.GetByID(ctx, *in.ResumeID)
		if err != nil || resume.UserID != userID {
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.Internal(err)
			}
			return nil, apperror.NotFound("Resume not found")
		}
	}

	exists, err := uc.applicationRepo.CheckExists(ctx, userID, in.VacancyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this vacancy")
	}

	app := &domain.Application{
		UserID:      userID,
		VacancyID:   vacancy.ID,
		ResumeID:    in.ResumeID,
		Position:    vacancy.Title,
		Company:     vacancy.Company,
		Status:      domain.ApplicationStatusPending,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("You have already applied to this vacancy")
		}
		return nil, apperror.Internal(err)
	}
	uc.metrics.RecordApplication()

	uc.notify(ctx, userID, domain.NotificationApplication, "Отклик отправлен",
		fmt.Sprintf("Ваш отклик на вакансию «%s» в компании %s отправлен", app.Position, app.Company))

	return app, nil
}

func (uc *applicationUsecase) ListApplications(ctx context.Context, userID string, status domain.ApplicationStatus) ([]domain.Application, error) {
	if status != "" && !status.Valid() {
		return nil, apperror.BadRequest("Unknown application status: " + string(status))
	}
	apps, err := uc.applicationRepo.GetByUserID(ctx, userID, status)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return apps, nil
}

// GetApplication hides other users' applications behind 404.
func (uc *applicationUsecase) GetApplication(ctx context.Context, userID string, id int64) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}
	if app.UserID != userID {
		return nil, apperror.NotFound("Application not found")
	}
	return app, nil
}

func (uc *applicationUsecase) UpdateStatus(ctx context.Context, userID string, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("Unknown application status: " + string(status))
	}

	app, err := uc.GetApplication(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	previous := app.Status

	if err := uc.applicationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	updated, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Application not found")
	}

	if previous != status {
		uc.notifyStatus(ctx, updated)
	}
	return updated, nil
}

func (uc *applicationUsecase) notifyStatus(ctx context.Context, app *domain.Application) {
	switch app.Status {
	case domain.ApplicationStatusInterview:
		uc.notify(ctx, app.UserID, domain.NotificationInterview, "Приглашение на собеседование",
			fmt.Sprintf("%s приглашает вас на собеседование на позицию «%s»", app.Company, app.Position))
	case domain.ApplicationStatusResponse:
		uc.notify(ctx, app.UserID, domain.NotificationResponse, "Ответ работодателя",
			fmt.Sprintf("%s ответила на ваш отклик на позицию «%s»", app.Company, app.Position))
	case domain.ApplicationStatusRejected:
		uc.notify(ctx, app.UserID, domain.NotificationApplication, "Отклик отклонён",
			fmt.Sprintf("%s отклонила ваш отклик на позицию «%s»", app.Company, app.Position))
	}
}

func (uc *applicationUsecase) notify(ctx context.Context, userID string, kind domain.NotificationType, title, message string) {
	if uc.notifications == nil {
		return
	}
	if err := uc.notifications.Notify(ctx, userID, kind, title, message); err != nil {
		logger.Log.Warn("Failed to create notification", "user_id", userID, "type", kind, "error", err)
	}
}

func (uc *applicationUsecase) Withdraw(ctx context.Context, userID string, id int64) error {
	if _, err := uc.GetApplication(ctx, userID, id); err != nil {
		return err
	}
	if err := uc.applicationRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Application not found")
	}
	return nil
}

var statusLabels = map[domain.ApplicationStatus]string{
	domain.ApplicationStatusPending:   "На рассмотрении",
	domain.ApplicationStatusInterview: "Собеседование",
	domain.ApplicationStatusResponse:  "Ответ",
	domain.ApplicationStatusRejected:  "Отказ",
}

var exportHeader = []string{"ID", "Должность", "Компания", "Статус", "Дата отклика", "Обновлено", "Сопроводительное письмо"}

func exportRow(a domain.Application) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Position,
		a.Company,
		statusLabels[a.Status],
		a.Date.Format("02.01.2006 15:04"),
		a.UpdatedAt.Format("02.01.2006 15:04"),
		a.CoverLetter,
	}
}

// Export renders the user's applications as xlsx (default) or csv.
func (uc *applicationUsecase) Export(ctx context.Context, userID, format string) (*domain.ExportFile, error) {
	apps, err := uc.ListApplications(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch strings.ToLower(format) {
	case "", "xlsx":
		data, err := renderXLSX(apps)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			Filename:    "applications-" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "csv":
		data, err := renderCSV(apps)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			Filename:    "applications-" + stamp + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        data,
		}, nil
	default:
		return nil, apperror.BadRequest("Unsupported export format: " + format)
	}
}

func renderXLSX(apps []domain.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Отклики"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i, a := range apps {
		for col, value := range exportRow(a) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	boldID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, boldID)
	}
	_ = f.SetColWidth(sheet, "B", "C", 32)
	_ = f.SetColWidth(sheet, "D", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCSV(apps []domain.Application) ([]byte, error) {
	var buf bytes.Buffer
	// BOM so spreadsheet apps detect UTF-8
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, a := range apps {
		if err := w.Write(exportRow(a)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
