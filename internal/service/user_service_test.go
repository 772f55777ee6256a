package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"platefeed/internal/models"
)

const testPassword = "Str0ng-Passw0rd!"

func TestUserService_Signup(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:    "new@example.com",
		Username: "newbie",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	// Stored password is a bcrypt hash, never the plaintext.
	assert.NotEqual(t, testPassword, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(testPassword)))
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	existing := &models.User{ID: 1, Email: "taken@example.com", Username: "first"}
	svc := NewUserService(newStubUserRepo(existing))

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "taken@example.com",
		Username: "second",
		Password: testPassword,
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserService_SignupRejectsWeakInput(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	cases := []SignupInput{
		{Email: "", Username: "u", Password: testPassword},
		{Email: "not-an-email", Username: "someone", Password: testPassword},
		{Email: "a@e.com", Username: "ab", Password: testPassword},
		{Email: "a@e.com", Username: "someone", Password: "short"},
	}
	for _, in := range cases {
		_, err := svc.Signup(context.Background(), in)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestUserService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	existing := &models.User{ID: 5, Email: "in@example.com", Username: "member", Password: string(hashed)}
	svc := NewUserService(newStubUserRepo(existing))

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(context.Background(), LoginInput{Email: "in@example.com", Password: testPassword})
		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{Email: "who@example.com", Password: testPassword})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{Email: "in@example.com", Password: "Wrong-password-1!"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	user := &models.User{
		ID:             3,
		Email:          "p@example.com",
		Username:       "profiled",
		HealthScoreAvg: 6.5,
		Chal3Count:     2,
		TotalChalsSum:  2,
		Posts:          []models.Post{{ID: 11}, {ID: 12}},
	}
	svc := NewUserService(newStubUserRepo(user))

	profile, err := svc.GetProfile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "profiled", profile.Username)
	assert.InDelta(t, 6.5, profile.HealthScore, 0.0001)
	assert.Equal(t, [5]float64{0, 0, 2, 0, 2}, profile.ChallengeProgress)
	// The profile exposes post ids in upload order, not post bodies.
	assert.Equal(t, []uint{11, 12}, profile.Posts)
}

func TestUserService_GetProfileNoPosts(t *testing.T) {
	svc := NewUserService(newStubUserRepo(&models.User{ID: 4, Email: "q@example.com"}))

	profile, err := svc.GetProfile(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, profile.Posts)
	assert.Empty(t, profile.Posts)
}

func TestUserService_GetProfileMissing(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	_, err := svc.GetProfile(context.Background(), 404)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
