package service

import (
	"context"
	"testing"

	"github.com/ehub-dev/learning-hub/internal/dto"
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/ehub-dev/learning-hub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	email := "a@x.com"
	res, err := f.auth.Register(ctx, dto.SignupInput{
		Username:  "alice",
		Email:     &email,
		Password:  "pw1",
		Password2: "pw1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, []string{model.GroupStudent}, res.User.Groups)
	assert.NotEmpty(t, res.Token)

	login, err := f.auth.Login(ctx, dto.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestLoginReusesActiveToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	require.NoError(t, err)

	first, err := f.auth.Login(ctx, dto.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, dto.LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)

	assert.Equal(t, res.Token, first.Token)
	assert.Equal(t, first.Token, second.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, dto.LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), dto.LoginInput{Username: "ghost", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw2"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	// No account was created.
	_, err = f.userRepo.FindByUsername(ctx, "alice")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, res.Token))

	_, err = f.userRepo.FindTokenByKey(ctx, res.Token)
	assert.Error(t, err)
}

func TestSetGroupReplacesWholeSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.CreateUser(ctx, "bob", "pw")
	require.NoError(t, err)

	created, err := f.auth.SetGroup(ctx, "bob", model.GroupMentor)
	require.NoError(t, err)
	assert.False(t, created, "Mentor group is seeded")

	created, err = f.auth.SetGroup(ctx, "bob", "Editors")
	require.NoError(t, err)
	assert.True(t, created, "Editors should be created lazily")

	user, err := f.userRepo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Editors"}, user.GroupNames(), "set, not add")
}

func TestSetGroupUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.SetGroup(context.Background(), "ghost", model.GroupMentor)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestClearGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedUser(t, "bob", false, model.GroupMentor)

	require.NoError(t, f.auth.ClearGroups(ctx, "bob"))

	user, err := f.userRepo.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, user.Groups)
}

func TestCreateUserHasNoDefaultGroup(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.CreateUser(context.Background(), "bob", "pw")
	require.NoError(t, err)

	user, err := f.userRepo.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, user.Groups)
}

func TestCreateSuperuser(t *testing.T) {
	f := newFixture(t)

	email := "root@ehub.local"
	user, err := f.auth.CreateSuperuser(context.Background(), "root", &email, "pw")
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mentor := f.seedUser(t, "mentor", false, model.GroupMentor)
	course := f.seedCourse(t, mentor, "Intro", "CS")

	res, err := f.auth.Register(ctx, dto.SignupInput{Username: "alice", Password: "pw1", Password2: "pw1"})
	require.NoError(t, err)

	_, err = f.enrollRepo.Add(ctx, course.ID, res.User.ID)
	require.NoError(t, err)

	// Deleting the enrolled student removes the enrollment and the token.
	require.NoError(t, f.auth.DeleteUser(ctx, "alice"))

	count, err := f.enrollRepo.Count(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.userRepo.FindTokenByKey(ctx, res.Token)
	assert.Error(t, err)

	// Deleting the owning mentor orphans the course instead of deleting it.
	require.NoError(t, f.auth.DeleteUser(ctx, "mentor"))

	orphan, err := f.courseRepo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.UserID)
}

func TestDeleteUserNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.auth.DeleteUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
