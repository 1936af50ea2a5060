package repository

import (
	"context"

	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Add(ctx context.Context, courseID uint, userID uuid.UUID) (already bool, err error)
	Remove(ctx context.Context, courseID uint, userID uuid.UUID) (was bool, err error)
	IsEnrolled(ctx context.Context, courseID uint, userID uuid.UUID) (bool, error)
	CoursesOf(ctx context.Context, userID uuid.UUID) ([]*model.Course, error)
	StudentsOf(ctx context.Context, courseID uint) ([]*model.User, error)
	Count(ctx context.Context, courseID uint) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Add inserts the (course, user) pair. The composite primary key plus
// ON CONFLICT DO NOTHING makes concurrent duplicate enrolls collapse into a
// single row; already=true means the pair existed before this call.
func (r *enrollmentRepository) Add(ctx context.Context, courseID uint, userID uuid.UUID) (bool, error) {
	row := model.CourseStudent{CourseID: courseID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 0, nil
}

func (r *enrollmentRepository) Remove(ctx context.Context, courseID uint, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&model.CourseStudent{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, courseID uint, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.CourseStudent{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *enrollmentRepository) CoursesOf(ctx context.Context, userID uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	if err := r.db.WithContext(ctx).
		Select("course_list.*").
		Preload("Owner").
		Joins("JOIN course_students ON course_students.course_id = course_list.id").
		Where("course_students.user_id = ?", userID).
		Order("course_list.post_date DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *enrollmentRepository) StudentsOf(ctx context.Context, courseID uint) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Select("users.*").
		Preload("Groups").
		Joins("JOIN course_students ON course_students.user_id = users.id").
		Where("course_students.course_id = ?", courseID).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *enrollmentRepository) Count(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.CourseStudent{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
