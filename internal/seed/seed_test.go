package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/internal/repository/memory"
)

func memoryRepos() Repositories {
	return Repositories{
		Users:         memory.NewUserRepository(),
		Vacancies:     memory.NewVacancyRepository(),
		Applications:  memory.NewApplicationRepository(),
		Notifications: memory.NewNotificationRepository(),
		Resumes:       memory.NewResumeRepository(),
	}
}

func TestDemoSeedsOnce(t *testing.T) {
	ctx := context.Background()
	repos := memoryRepos()

	require.NoError(t, Demo(ctx, repos))
	require.NoError(t, Demo(ctx, repos))

	user, err := repos.Users.GetByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)))

	_, total, err := repos.Vacancies.Fetch(ctx, domain.VacancyFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, len(Vacancies(time.Now())), total)

	apps, _ := repos.Applications.GetByUserID(ctx, DemoUserID, "")
	assert.Len(t, apps, 3)

	unread, _ := repos.Notifications.CountUnread(ctx, DemoUserID)
	assert.EqualValues(t, 2, unread)
}

func TestVacanciesMixSalaryFormats(t *testing.T) {
	var parsable, unparsable int
	for _, v := range Vacancies(time.Now()) {
		if domain.SalaryFloorPtr(v.Salary) == nil {
			unparsable++
		} else {
			parsable++
		}
	}
	assert.Equal(t, 2, unparsable)
	assert.Equal(t, 8, parsable)
}
