package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/logger"
	"smartcareer-backend/pkg/security"
	"smartcareer-backend/pkg/storage"
)

type resumeUsecase struct {
	repo           domain.ResumeRepository
	store          storage.ObjectStore
	secLog         *security.SecurityLogger
	maxResumeBytes int64
}

func NewResumeUsecase(repo domain.ResumeRepository, store storage.ObjectStore, secLog *security.SecurityLogger, maxResumeBytes int64) domain.ResumeUsecase {
	return &resumeUsecase{
		repo:           repo,
		store:          store,
		secLog:         secLog,
		maxResumeBytes: maxResumeBytes,
	}
}

func (u *resumeUsecase) ListResumes(ctx context.Context, userID string) ([]domain.Resume, error) {
	list, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *resumeUsecase) GetResume(ctx context.Context, userID string, id int64) (*domain.Resume, error) {
	res, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Resume not found")
	}
	if res.UserID != userID {
		return nil, apperror.NotFound("Resume not found")
	}
	return res, nil
}

func (u *resumeUsecase) CreateResume(ctx context.Context, userID string, in domain.ResumeInput) (*domain.Resume, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.BadRequest("Resume name is required")
	}
	res := &domain.Resume{
		UserID:     userID,
		Name:       name,
		IsOriginal: true,
		Content:    strings.TrimSpace(in.Content),
		Skills:     cleanSkills(in.Skills),
	}
	if err := u.repo.Create(ctx, res); err != nil {
		return nil, apperror.Internal(err)
	}
	return res, nil
}

func (u *resumeUsecase) UpdateResume(ctx context.Context, userID string, id int64, in domain.ResumeInput) (*domain.Resume, error) {
	res, err := u.GetResume(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		res.Name = name
	}
	if in.Content != "" {
		res.Content = strings.TrimSpace(in.Content)
	}
	if in.Skills != nil {
		res.Skills = cleanSkills(in.Skills)
	}
	if err := u.repo.Update(ctx, res); err != nil {
		return nil, notFoundOr(err, "Resume not found")
	}
	return res, nil
}

func (u *resumeUsecase) DeleteResume(ctx context.Context, userID string, id int64) error {
	res, err := u.GetResume(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Resume not found")
	}
	removeObject(ctx, u.store, res.FileURL, "resumes")
	return nil
}

// AttachFile stores the uploaded document and links it to the resume.
func (u *resumeUsecase) AttachFile(ctx context.Context, userID string, id int64, filename string, data []byte) (*domain.Resume, error) {
	res, err := u.GetResume(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if u.maxResumeBytes > 0 && int64(len(data)) > u.maxResumeBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("Resume file must be at most %d MB", u.maxResumeBytes>>20))
	}
	result := security.ValidateFile(security.KindDocument, filename, data)
	if !result.Valid {
		u.secLog.LogUploadRejected(ctx, userID, filename, result.Error)
		return nil, apperror.BadRequest("Invalid file: " + result.Error)
	}

	key := fmt.Sprintf("resumes/%s/%d/%s%s", userID, id, uuid.NewString(), result.Extension)
	url, err := u.store.Put(ctx, key, result.ContentType, data)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	previous := res.FileURL
	res.FileURL = url
	if err := u.repo.Update(ctx, res); err != nil {
		removeObject(ctx, u.store, url, "resumes")
		return nil, notFoundOr(err, "Resume not found")
	}
	removeObject(ctx, u.store, previous, "resumes")
	return res, nil
}

// removeObject deletes the object behind a URL returned by store.Put. root
// is the first key segment, so URLs of other stores are left alone.
func removeObject(ctx context.Context, store storage.ObjectStore, url, root string) {
	i := strings.Index(url, "/"+root+"/")
	if i < 0 {
		return
	}
	key := url[i+1:]
	if err := store.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete stored object", "key", key, "error", err)
	}
}
