package service

import (
	"context"
	"testing"

	"github.com/ehub-dev/learning-hub/internal/bootstrap"
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/ehub-dev/learning-hub/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedGroups(db))

	return db
}

type fixture struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
	auth       AuthService
	courses    CourseService
	enrolls    EnrollmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)

	return &fixture{
		db:         db,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		auth:       NewAuthService(userRepo, testSecret, nil, 0),
		courses:    NewCourseService(courseRepo, enrollRepo),
		enrolls:    NewEnrollmentService(enrollRepo, courseRepo),
	}
}

func (f *fixture) seedUser(t *testing.T, username string, superuser bool, groups ...string) *model.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("useruser"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		IsSuperuser:  superuser,
	}
	require.NoError(t, f.userRepo.Create(ctx, user))

	for _, name := range groups {
		group, _, err := f.userRepo.GetOrCreateGroup(ctx, name)
		require.NoError(t, err)
		require.NoError(t, f.userRepo.ReplaceGroups(ctx, user, []model.Group{*group}))
	}

	fetched, err := f.userRepo.FindByUsername(ctx, username)
	require.NoError(t, err)
	return fetched
}

func (f *fixture) seedCourse(t *testing.T, owner *model.User, title, category string) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:          title,
		Category:       category,
		SchoolName:     "E-HUB Academy",
		Description:    model.DefaultCourseDescription,
		AvailableUntil: model.NewDate(2026, 1, 1),
		Author:         "Author " + title,
	}
	if owner != nil {
		id := owner.ID
		course.UserID = &id
	}
	require.NoError(t, f.courseRepo.Create(context.Background(), course))
	return course
}
