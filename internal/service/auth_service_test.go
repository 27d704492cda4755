package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MutabPato/alx-travel-app-0x01/internal/domain"
	"github.com/MutabPato/alx-travel-app-0x01/internal/repository"
	"github.com/MutabPato/alx-travel-app-0x01/internal/service"
	"github.com/MutabPato/alx-travel-app-0x01/pkg/config"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrUserAlreadyExists
	}

	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user

	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func newAuthService(repo repository.UserRepository) service.AuthService {
	return service.NewAuthService(repo, config.Auth{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    720 * time.Hour,
	}, zap.NewNop())
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "sup3rsecret", repo.byID[user.ID].Password)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	cases := []string{"short1", "allletters", "12345678"}
	for _, password := range cases {
		_, err := svc.Register(context.Background(), service.RegisterInput{
			Email:     "guest@example.com",
			Password:  password,
			FirstName: "Abel",
			LastName:  "Tesfaye",
		})
		require.ErrorIs(t, err, service.ErrWeakPassword, "password %q", password)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	input := service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, service.ErrUserAlreadyExists)
}

func TestLogin_IssuesTokens(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "guest@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "guest@example.com", "wrongpass1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "missing@example.com", "sup3rsecret")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_Roundtrip(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "guest@example.com", "sup3rsecret")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:     "guest@example.com",
		Password:  "sup3rsecret",
		FirstName: "Abel",
		LastName:  "Tesfaye",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "guest@example.com", "sup3rsecret")
	require.NoError(t, err)

	// Access tokens are signed with a different secret.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRefresh_Garbage(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, service.ErrInvalidToken)
}
