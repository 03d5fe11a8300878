package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/orgchart-viewer/internal/domain"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()

	state := domain.NewViewState()
	state.SelectedDepartments.Add("Engineering")
	session := &domain.Session{
		ID:     "s1",
		Roster: []domain.Employee{{ID: "1", Name: "Root"}},
		State:  state,
	}
	require.NoError(t, repo.Save(ctx, session))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, session.Roster, got.Roster)
	require.True(t, got.State.SelectedDepartments.Has("Engineering"))

	got.State.SelectedDepartments.Add("Design")
	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, again.State.SelectedDepartments.Has("Design"))

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepositoryExpires(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute).(*memorySessionRepository)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "old"}))
	now = now.Add(2 * time.Minute)

	_, err := repo.Get(ctx, "old")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "new"}))
	_, err = repo.Get(ctx, "new")
	require.NoError(t, err)
}
