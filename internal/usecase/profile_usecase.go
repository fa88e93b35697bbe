package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/apperror"
	"smartcareer-backend/pkg/imaging"
	"smartcareer-backend/pkg/security"
	"smartcareer-backend/pkg/storage"
)

type profileUsecase struct {
	userRepo       domain.UserRepository
	store          storage.ObjectStore
	secLog         *security.SecurityLogger
	maxAvatarBytes int64
}

func NewProfileUsecase(userRepo domain.UserRepository, store storage.ObjectStore, secLog *security.SecurityLogger, maxAvatarBytes int64) domain.ProfileUsecase {
	return &profileUsecase{
		userRepo:       userRepo,
		store:          store,
		secLog:         secLog,
		maxAvatarBytes: maxAvatarBytes,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.BadRequest("Name must not be empty")
		}
		update.Name = &name
	}
	if update.Skills != nil {
		update.Skills = cleanSkills(update.Skills)
	}
	update.Apply(user)

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (u *profileUsecase) UploadAvatar(ctx context.Context, userID, filename string, data []byte) (*domain.User, error) {
	user, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.maxAvatarBytes > 0 && int64(len(data)) > u.maxAvatarBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("Avatar must be at most %d MB", u.maxAvatarBytes>>20))
	}
	result := security.ValidateFile(security.KindImage, filename, data)
	if !result.Valid {
		u.secLog.LogUploadRejected(ctx, userID, filename, result.Error)
		return nil, apperror.BadRequest("Invalid image: " + result.Error)
	}

	thumb, err := imaging.Thumbnail(data, imaging.AvatarMaxDimension, imaging.AvatarQuality)
	if err != nil {
		return nil, apperror.BadRequest("Image could not be decoded")
	}

	key := fmt.Sprintf("avatars/%s/%s.jpg", userID, uuid.NewString())
	url, err := u.store.Put(ctx, key, "image/jpeg", thumb)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	previous := user.Avatar
	user.Avatar = url
	if err := u.userRepo.Update(ctx, user); err != nil {
		removeObject(ctx, u.store, url, "avatars")
		return nil, notFoundOr(err, "User not found")
	}
	removeObject(ctx, u.store, previous, "avatars")
	return user, nil
}

// cleanSkills trims entries and drops blanks and case-insensitive duplicates.
func cleanSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
