package v1_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/internal/seed"
	"smartcareer-backend/pkg/apiclient"
	"smartcareer-backend/pkg/fetch"
)

// The typed client and the fetch layer against the real router.
func TestClientAgainstRouter(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx := context.Background()
	client := apiclient.New(srv.URL + "/api")
	session := apiclient.NewSession(client)

	_, err := session.Login(ctx, seed.DemoEmail, "wrong-password")
	assert.Equal(t, apiclient.KindUnauthorized, apiclient.KindOf(err))

	user, err := session.Login(ctx, seed.DemoEmail, seed.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, seed.DemoEmail, user.Email)
	assert.True(t, session.Validate(ctx))

	cache := fetch.NewClient()
	apps := fetch.NewQuery(cache, fetch.QueryConfig[[]domain.Application]{
		Key: "applications",
		TTL: time.Minute,
		Fetch: func(ctx context.Context) ([]domain.Application, error) {
			return client.Applications(ctx, "")
		},
	})
	list, err := apps.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	apply := fetch.NewMutation(cache, fetch.MutationConfig[apiclient.ApplyRequest, *domain.Application]{
		Invalidates: []string{"applications", "stats"},
		Mutate:      client.Apply,
	})
	app, err := apply.Submit(ctx, apiclient.ApplyRequest{VacancyID: 2, CoverLetter: "Здравствуйте!"})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	_, err = apply.Submit(ctx, apiclient.ApplyRequest{VacancyID: 2})
	assert.Equal(t, apiclient.KindConflict, apiclient.KindOf(err))

	_, err = apply.Submit(ctx, apiclient.ApplyRequest{})
	assert.Equal(t, apiclient.KindValidation, apiclient.KindOf(err))

	list, err = apps.Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	remote := false
	vacancies, meta, err := client.Vacancies(ctx, apiclient.VacancyQuery{Remote: &remote, Limit: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(vacancies), 2)
	for _, v := range vacancies {
		assert.False(t, v.Remote)
	}
	assert.Equal(t, 2, meta.Limit)

	count, err := client.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = client.Vacancy(ctx, 9999)
	assert.Equal(t, apiclient.KindNotFound, apiclient.KindOf(err))

	require.NoError(t, session.Logout(ctx))
	assert.False(t, session.Authenticated())

	_, err = client.Stats(ctx)
	assert.Equal(t, apiclient.KindUnauthorized, apiclient.KindOf(err))
}
