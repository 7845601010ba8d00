package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stepanenkodv/realty-board/internal/migrations"
	"github.com/stepanenkodv/realty-board/internal/models"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
		},
		WaitingFor: wait.ForListeningPort(nat.Port("5432/tcp")).
			WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://user:password@%s:%s/testdb?sslmode=disable", host, port.Port())
	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { storage.DB.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	return storage
}

func registerTestUser(t *testing.T, s *Storage, username string) string {
	t.Helper()
	uid, err := s.RegisterUser(context.Background(), models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Role:         "user",
	})
	require.NoError(t, err)
	return uid
}

func TestFindActiveSubscription_LatestWindowWins(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	uid := registerTestUser(t, s, "windows")

	now := time.Now().UTC()
	// Два пересекающихся окна: авторитетна подписка с более поздним началом.
	_, err := s.CreateSubscription(ctx, models.UserSubscription{
		UserUID:   uid,
		PlanID:    1,
		StartDate: now.AddDate(0, 0, -20),
		EndDate:   now.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	laterID, err := s.CreateSubscription(ctx, models.UserSubscription{
		UserUID:   uid,
		PlanID:    2,
		StartDate: now.AddDate(0, 0, -5),
		EndDate:   now.AddDate(0, 0, 25),
	})
	require.NoError(t, err)

	sub, err := s.FindActiveSubscription(ctx, uid, now)
	require.NoError(t, err)
	assert.Equal(t, laterID, sub.ID)
	assert.Equal(t, 2, sub.PlanID)
}

func TestFindActiveSubscription_ExpiredWindow(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	uid := registerTestUser(t, s, "expired")

	now := time.Now().UTC()
	_, err := s.CreateSubscription(ctx, models.UserSubscription{
		UserUID:   uid,
		PlanID:    1,
		StartDate: now.AddDate(0, 0, -60),
		EndDate:   now.AddDate(0, 0, -30),
	})
	require.NoError(t, err)

	_, err = s.FindActiveSubscription(ctx, uid, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountPublicationsInWindow(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	uid := registerTestUser(t, s, "counter")

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 30)

	publishAt := func(at time.Time) {
		t.Helper()
		propertyID, err := s.CreateProperty(ctx, models.Property{
			UserUID:   uid,
			Title:     "Квартира",
			Operation: models.OperationSale,
			Category:  models.CategoryApartment,
			Price:     100000,
			Currency:  "USD",
			CreatedAt: at,
		})
		require.NoError(t, err)
		_, err = s.InsertPublication(ctx, models.PropertyPublication{
			PropertyID:  propertyID,
			UserUID:     uid,
			PlanID:      1,
			PublishedAt: at,
		})
		require.NoError(t, err)
	}

	publishAt(now.AddDate(0, 0, -10))
	publishAt(now.AddDate(0, 0, -1))
	// За пределами окна: не учитывается.
	publishAt(now.AddDate(0, 0, -45))
	// Ровно на границе конца окна: конец не включается.
	publishAt(end)

	count, err := s.CountPublicationsInWindow(ctx, uid, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCheckReady(t *testing.T) {
	s := setupStorage(t)
	require.NoError(t, s.CheckReady(context.Background()))
}

func TestCreateProperty_StoresInjectedTimestamp(t *testing.T) {
	// created_at задаётся вызывающей стороной через часы сервиса,
	// а не значением NOW() на стороне базы.
	s := setupStorage(t)
	ctx := context.Background()
	uid := registerTestUser(t, s, "timestamped")

	at := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)
	propertyID, err := s.CreateProperty(ctx, models.Property{
		UserUID:   uid,
		Title:     "Дом",
		Operation: models.OperationSale,
		Category:  models.CategoryHouse,
		Price:     250000,
		Currency:  "USD",
		CreatedAt: at,
	})
	require.NoError(t, err)

	err = s.CreatePropertyDetails(ctx,
		models.Location{PropertyID: propertyID, Province: "Córdoba", City: "Córdoba"},
		nil,
		models.PropertyStatus{PropertyID: propertyID, State: models.StatePublished, UpdatedAt: at})
	require.NoError(t, err)

	card, err := s.GetProperty(ctx, propertyID)
	require.NoError(t, err)
	assert.WithinDuration(t, at, card.Property.CreatedAt, time.Second)
}

func TestDraftLifecycle(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	uid := registerTestUser(t, s, "drafter")

	now := time.Now().UTC().Truncate(time.Microsecond)
	draft := models.PropertyDraft{
		ID:        "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		UserUID:   uid,
		Payload:   json.RawMessage(`{"title":"Дом"}`),
		Step:      models.DraftStepDetails,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateDraft(ctx, draft))

	got, err := s.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, uid, got.UserUID)
	assert.JSONEq(t, `{"title":"Дом"}`, string(got.Payload))
	assert.Equal(t, models.DraftStepDetails, got.Step)

	n, err := s.UpdateDraft(ctx, draft.ID, json.RawMessage(`{"title":"Дом","price":5}`), models.DraftStepLocation, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Свип не трогает только что обновлённый черновик.
	swept, err := s.DeleteDraftsOlderThan(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, swept)

	swept, err = s.DeleteDraftsOlderThan(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	_, err = s.GetDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
