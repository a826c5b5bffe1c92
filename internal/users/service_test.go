package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
)

type memoryUserRepo struct {
	users map[int64]User
}

func newMemoryUserRepo(users ...User) *memoryUserRepo {
	r := &memoryUserRepo{users: map[int64]User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryUserRepo) List(context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (r *memoryUserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	u, ok := r.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.Active = active
	r.users[id] = u
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func TestUpdateRole(t *testing.T) {
	repo := newMemoryUserRepo(
		User{ID: 1, Username: "admin", Role: "admin", Active: true},
		User{ID: 2, Username: "sam", Role: "user", Active: true},
	)
	svc := NewService(repo)

	promoted, err := svc.UpdateRole(context.Background(), 2, "admin", 1)
	require.NoError(t, err)
	require.Equal(t, "admin", promoted.Role)

	_, err = svc.UpdateRole(context.Background(), 2, "superuser", 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.UpdateRole(context.Background(), 1, "user", 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.UpdateRole(context.Background(), 99, "user", 1)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSetActiveAndDeleteGuardSelf(t *testing.T) {
	repo := newMemoryUserRepo(
		User{ID: 1, Username: "admin", Role: "admin", Active: true},
		User{ID: 2, Username: "sam", Role: "user", Active: true},
	)
	svc := NewService(repo)

	disabled, err := svc.SetActive(context.Background(), 2, false, 1)
	require.NoError(t, err)
	require.False(t, disabled.Active)

	_, err = svc.SetActive(context.Background(), 1, false, 1)
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.ErrorIs(t, svc.Delete(context.Background(), 1, 1), httpx.ErrValidation)
	require.NoError(t, svc.Delete(context.Background(), 2, 1))
	require.ErrorIs(t, svc.Delete(context.Background(), 2, 1), httpx.ErrNotFound)
}
