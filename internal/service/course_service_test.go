package service

import (
	"context"
	"testing"
	"time"

	"github.com/ehub-dev/learning-hub/internal/dto"
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/ehub-dev/learning-hub/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCourseInput() dto.CreateCourseInput {
	return dto.CreateCourseInput{
		Title:          "Intro",
		Category:       "CS",
		SchoolName:     "X",
		Author:         "Bob",
		AvailableUntil: "2026-01-01",
	}
}

func TestCreateCourseRequiresMentor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student := f.seedUser(t, "alice", false, model.GroupStudent)
	_, err := f.courses.Create(ctx, student, validCourseInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	course, err := f.courses.Create(ctx, mentor, validCourseInput())
	require.NoError(t, err)
	require.NotNil(t, course.UserID)
	assert.Equal(t, mentor.ID, *course.UserID)
	assert.Equal(t, "bob", course.UserUsername)
}

func TestCreateCourseBySuperuser(t *testing.T) {
	f := newFixture(t)

	admin := f.seedUser(t, "admin", true)
	course, err := f.courses.Create(context.Background(), admin, validCourseInput())
	require.NoError(t, err)
	require.NotNil(t, course.UserID)
	assert.Equal(t, admin.ID, *course.UserID)
}

func TestCreateCourseDefaults(t *testing.T) {
	f := newFixture(t)

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	course, err := f.courses.Create(context.Background(), mentor, validCourseInput())
	require.NoError(t, err)

	assert.Equal(t, model.DefaultCourseDescription, course.Description)
	assert.True(t, course.Price.IsZero())
	assert.Equal(t, "2026-01-01", course.AvailableUntil.String())
	assert.WithinDuration(t, time.Now(), course.PostDate, time.Minute)
}

func TestCreateCourseNegativePrice(t *testing.T) {
	f := newFixture(t)

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	input := validCourseInput()
	price := decimal.NewFromFloat(-1.50)
	input.Price = &price

	_, err := f.courses.Create(context.Background(), mentor, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateCourseOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "bob", false, model.GroupMentor)
	other := f.seedUser(t, "carol", false, model.GroupMentor)
	student := f.seedUser(t, "alice", false, model.GroupStudent)
	admin := f.seedUser(t, "admin", true)

	course := f.seedCourse(t, owner, "Intro", "CS")

	newTitle := "Intro v2"
	input := dto.UpdateCourseInput{Title: &newTitle}

	_, err := f.courses.Update(ctx, other, course.ID, input)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.courses.Update(ctx, student, course.ID, input)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.courses.Update(ctx, owner, course.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Intro v2", updated.Title)

	adminTitle := "Intro v3"
	updated, err = f.courses.Update(ctx, admin, course.ID, dto.UpdateCourseInput{Title: &adminTitle})
	require.NoError(t, err)
	assert.Equal(t, "Intro v3", updated.Title)
}

func TestUpdateCourseNotFound(t *testing.T) {
	f := newFixture(t)

	admin := f.seedUser(t, "admin", true)
	_, err := f.courses.Update(context.Background(), admin, 999, dto.UpdateCourseInput{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCourseOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "bob", false, model.GroupMentor)
	other := f.seedUser(t, "carol", false, model.GroupMentor)
	course := f.seedCourse(t, owner, "Intro", "CS")

	err := f.courses.Delete(ctx, other, course.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.courses.Delete(ctx, owner, course.ID))

	_, err = f.courses.Get(ctx, nil, course.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCourseRemovesEnrollments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "bob", false, model.GroupMentor)
	student := f.seedUser(t, "alice", false, model.GroupStudent)
	course := f.seedCourse(t, owner, "Intro", "CS")

	_, err := f.enrolls.Enroll(ctx, student, course.ID)
	require.NoError(t, err)

	require.NoError(t, f.courses.Delete(ctx, owner, course.ID))

	courses, err := f.enrolls.MyEnrollments(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestOrphanedCourseStaysManageable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "bob", false, model.GroupMentor)
	admin := f.seedUser(t, "admin", true)
	course := f.seedCourse(t, owner, "Intro", "CS")

	require.NoError(t, f.userRepo.Delete(ctx, "bob"))

	// Still retrievable, owner gone.
	got, err := f.courses.Get(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UserID)
	assert.Empty(t, got.UserUsername)

	// No mentor owns it anymore, so only superusers may touch it.
	mentor := f.seedUser(t, "carol", false, model.GroupMentor)
	title := "Claimed"
	_, err = f.courses.Update(ctx, mentor, course.ID, dto.UpdateCourseInput{Title: &title})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.courses.Update(ctx, admin, course.ID, dto.UpdateCourseInput{Title: &title})
	require.NoError(t, err)
}

func TestListCaseInsensitiveCategoryFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	f.seedCourse(t, mentor, "Algorithms", "CS")
	f.seedCourse(t, mentor, "Calculus", "Math")

	courses, err := f.courses.List(ctx, nil, "cs")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algorithms", courses[0].Title)

	all, err := f.courses.List(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)

	old := f.seedCourse(t, mentor, "Old", "CS")
	old.PostDate = time.Now().Add(-time.Hour)
	require.NoError(t, f.courseRepo.Save(ctx, old))

	f.seedCourse(t, mentor, "New", "CS")

	courses, err := f.courses.List(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "New", courses[0].Title)
	assert.Equal(t, "Old", courses[1].Title)
}

func TestCategoriesDistinct(t *testing.T) {
	f := newFixture(t)

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	f.seedCourse(t, mentor, "A", "CS")
	f.seedCourse(t, mentor, "B", "CS")
	f.seedCourse(t, mentor, "C", "Math")

	categories, err := f.courses.Categories(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CS", "Math"}, categories)
}

func TestMyCoursesMentorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	other := f.seedUser(t, "carol", false, model.GroupMentor)
	student := f.seedUser(t, "alice", false, model.GroupStudent)

	f.seedCourse(t, mentor, "Mine", "CS")
	f.seedCourse(t, other, "Theirs", "CS")

	_, err := f.courses.MyCourses(ctx, student)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	courses, err := f.courses.MyCourses(ctx, mentor)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Mine", courses[0].Title)
}

func TestGetIncludesRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mentor := f.seedUser(t, "bob", false, model.GroupMentor)
	student := f.seedUser(t, "alice", false, model.GroupStudent)
	course := f.seedCourse(t, mentor, "Intro", "CS")

	_, err := f.enrolls.Enroll(ctx, student, course.ID)
	require.NoError(t, err)

	// The enrolled caller sees itself on the roster.
	got, err := f.courses.Get(ctx, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StudentCount)
	assert.True(t, got.IsEnrolled)
	require.Len(t, got.Students, 1)
	assert.Equal(t, "alice", got.Students[0].Username)

	// An anonymous caller sees the roster but no enrollment flag.
	anon, err := f.courses.Get(ctx, nil, course.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsEnrolled)
}
