package repository

import (
	"context"

	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindAll(ctx context.Context, category string) ([]*model.Course, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Course, error)
	Categories(ctx context.Context) ([]string, error)
	Save(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Students").
		Preload("Students.Groups").
		First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

// FindAll lists courses newest first. A non-empty category narrows the list
// with a case-insensitive exact match.
func (r *courseRepository) FindAll(ctx context.Context, category string) ([]*model.Course, error) {
	var courses []*model.Course
	query := r.db.WithContext(ctx).Preload("Owner").Order("post_date DESC")

	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Students").
		Preload("Students.Groups").
		Where("user_id = ?", userID).
		Order("post_date DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Distinct("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *courseRepository) Save(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseStudent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}
