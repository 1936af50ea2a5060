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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CourseService interface {
	Create(ctx context.Context, actor *model.User, input dto.CreateCourseInput) (*dto.CourseResponse, error)
	Update(ctx context.Context, actor *model.User, id uint, input dto.UpdateCourseInput) (*dto.CourseResponse, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
	Get(ctx context.Context, actor *model.User, id uint) (*dto.CourseDetailResponse, error)
	List(ctx context.Context, actor *model.User, category string) ([]dto.CourseResponse, error)
	MyCourses(ctx context.Context, actor *model.User) ([]dto.CourseDetailResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
}

func NewCourseService(courseRepo repository.CourseRepository, enrollRepo repository.EnrollmentRepository) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
	}
}

func (s *courseService) Create(ctx context.Context, actor *model.User, input dto.CreateCourseInput) (*dto.CourseResponse, error) {
	if !policy.Decide(actor, policy.ActionCreate, nil).Allowed() {
		return nil, fmt.Errorf("only mentors can create courses: %w", apperror.ErrForbidden)
	}

	price := decimal.Zero
	if input.Price != nil {
		price = *input.Price
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", apperror.ErrInvalidInput)
	}

	availableUntil, err := model.ParseDate(input.AvailableUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid available_until: %w", apperror.ErrInvalidInput)
	}

	description := input.Description
	if description == "" {
		description = model.DefaultCourseDescription
	}

	ownerID := actor.ID
	course := &model.Course{
		Title:          input.Title,
		Category:       input.Category,
		SchoolName:     input.SchoolName,
		Description:    description,
		Price:          price,
		AvailableUntil: availableUntil,
		Author:         input.Author,
		UserID:         &ownerID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	log.Printf("Course created by %s: %s", actor.Username, course.Title)

	course.Owner = actor
	res := s.buildCourseResponse(ctx, course, actor)
	return &res, nil
}

func (s *courseService) Update(ctx context.Context, actor *model.User, id uint, input dto.UpdateCourseInput) (*dto.CourseResponse, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.Decide(actor, policy.ActionUpdate, course).Allowed() {
		return nil, fmt.Errorf("you can only modify your own courses: %w", apperror.ErrForbidden)
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Category != nil {
		course.Category = *input.Category
	}
	if input.SchoolName != nil {
		course.SchoolName = *input.SchoolName
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Author != nil {
		course.Author = *input.Author
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", apperror.ErrInvalidInput)
		}
		course.Price = *input.Price
	}
	if input.AvailableUntil != nil {
		availableUntil, err := model.ParseDate(*input.AvailableUntil)
		if err != nil {
			return nil, fmt.Errorf("invalid available_until: %w", apperror.ErrInvalidInput)
		}
		course.AvailableUntil = availableUntil
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	res := s.buildCourseResponse(ctx, course, actor)
	return &res, nil
}

func (s *courseService) Delete(ctx context.Context, actor *model.User, id uint) error {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return err
	}

	if !policy.Decide(actor, policy.ActionDelete, course).Allowed() {
		return fmt.Errorf("you can only delete your own courses: %w", apperror.ErrForbidden)
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("Course deleted by %s: %s", actor.Username, course.Title)
	return nil
}

func (s *courseService) Get(ctx context.Context, actor *model.User, id uint) (*dto.CourseDetailResponse, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	res := s.buildCourseDetailResponse(ctx, course, actor)
	return &res, nil
}

func (s *courseService) List(ctx context.Context, actor *model.User, category string) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll(ctx, category)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.buildCourseResponse(ctx, course, actor))
	}

	return responses, nil
}

func (s *courseService) MyCourses(ctx context.Context, actor *model.User) ([]dto.CourseDetailResponse, error) {
	if !policy.Decide(actor, policy.ActionMyCourses, nil).Allowed() {
		return nil, fmt.Errorf("only mentors have courses: %w", apperror.ErrForbidden)
	}

	courses, err := s.courseRepo.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseDetailResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.buildCourseDetailResponse(ctx, course, actor))
	}

	return responses, nil
}

func (s *courseService) Categories(ctx context.Context) ([]string, error) {
	return s.courseRepo.Categories(ctx)
}

func (s *courseService) findCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) buildCourseResponse(ctx context.Context, course *model.Course, actor *model.User) dto.CourseResponse {
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
	}

	if course.Owner != nil {
		res.UserUsername = course.Owner.Username
	}

	if count, err := s.enrollRepo.Count(ctx, course.ID); err == nil {
		res.StudentCount = count
	}

	if actor != nil {
		if enrolled, err := s.enrollRepo.IsEnrolled(ctx, course.ID, actor.ID); err == nil {
			res.IsEnrolled = enrolled
		}
	}

	return res
}

func (s *courseService) buildCourseDetailResponse(ctx context.Context, course *model.Course, actor *model.User) dto.CourseDetailResponse {
	students := make([]dto.UserResponse, 0, len(course.Students))
	for i := range course.Students {
		students = append(students, dto.NewUserResponse(&course.Students[i]))
	}

	return dto.CourseDetailResponse{
		CourseResponse: s.buildCourseResponse(ctx, course, actor),
		Students:       students,
	}
}
