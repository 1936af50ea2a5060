package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ehub-dev/learning-hub/internal/dto"
	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/ehub-dev/learning-hub/internal/policy"
	"github.com/ehub-dev/learning-hub/internal/repository"
	"github.com/ehub-dev/learning-hub/pkg/apperror"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, actor *model.User, courseID uint) (already bool, err error)
	Unenroll(ctx context.Context, actor *model.User, courseID uint) (was bool, err error)
	MyEnrollments(ctx context.Context, actor *model.User) ([]dto.CourseResponse, error)
}

type enrollmentService struct {
	enrollRepo repository.EnrollmentRepository
	courseRepo repository.CourseRepository
}

func NewEnrollmentService(enrollRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository) EnrollmentService {
	return &enrollmentService{
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
	}
}

// Enroll adds the caller to the course roster. Enrolling twice is a no-op
// that still succeeds; already reports whether the membership predated the
// call. Any authenticated user may enroll, mentors included.
func (s *enrollmentService) Enroll(ctx context.Context, actor *model.User, courseID uint) (bool, error) {
	if !policy.Decide(actor, policy.ActionEnroll, nil).Allowed() {
		return false, apperror.ErrUnauthorized
	}

	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return false, err
	}

	already, err := s.enrollRepo.Add(ctx, courseID, actor.ID)
	if err != nil {
		return false, err
	}

	if !already {
		log.Printf("%s enrolled to %s", actor.Username, course.Title)
	}

	return already, nil
}

// Unenroll removes the caller from the roster; removing a non-member is a
// successful no-op with was=false.
func (s *enrollmentService) Unenroll(ctx context.Context, actor *model.User, courseID uint) (bool, error) {
	if !policy.Decide(actor, policy.ActionUnenroll, nil).Allowed() {
		return false, apperror.ErrUnauthorized
	}

	course, err := s.findCourse(ctx, courseID)
	if err != nil {
		return false, err
	}

	was, err := s.enrollRepo.Remove(ctx, courseID, actor.ID)
	if err != nil {
		return false, err
	}

	if was {
		log.Printf("%s unenrolled from %s", actor.Username, course.Title)
	}

	return was, nil
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, actor *model.User) ([]dto.CourseResponse, error) {
	if !policy.Decide(actor, policy.ActionMyEnrollments, nil).Allowed() {
		return nil, apperror.ErrUnauthorized
	}

	courses, err := s.enrollRepo.CoursesOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		res := dto.CourseResponse{
			ID:             course.ID,
			Title:          course.Title,
			Category:       course.Category,
			SchoolName:     course.SchoolName,
			Description:    course.Description,
			Price:          course.Price,
			AvailableUntil: course.AvailableUntil,
			Author:         course.Author,
			PostDate:       course.PostDate,
			UserID:         course.UserID,
			IsEnrolled:     true,
		}
		if course.Owner != nil {
			res.UserUsername = course.Owner.Username
		}
		if count, err := s.enrollRepo.Count(ctx, course.ID); err == nil {
			res.StudentCount = count
		}
		responses = append(responses, res)
	}

	return responses, nil
}

func (s *enrollmentService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}
