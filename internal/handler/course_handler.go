package handler

import (
	"net/http"
	"strconv"

	"github.com/ehub-dev/learning-hub/internal/dto"
	"github.com/ehub-dev/learning-hub/internal/middleware"
	"github.com/ehub-dev/learning-hub/internal/service"
	"github.com/ehub-dev/learning-hub/pkg/response"
	"github.com/ehub-dev/learning-hub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService service.CourseService
	enrollService service.EnrollmentService
}

func NewCourseHandler(courseService service.CourseService, enrollService service.EnrollmentService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		enrollService: enrollService,
	}
}

func (h *CourseHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	category := c.Query("category")

	courses, err := h.courseService.List(c.Request.Context(), actor, category)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var input dto.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	var input dto.UpdateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	already, err := h.enrollService.Enroll(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message := "Enrolled successfully"
	if already {
		message = "Already enrolled"
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

func (h *CourseHandler) Unenroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	was, err := h.enrollService.Unenroll(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	message := "Unenrolled successfully"
	if !was {
		message = "Not enrolled"
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	courses, err := h.enrollService.MyEnrollments(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) MyCourses(c *gin.Context) {
	courses, err := h.courseService.MyCourses(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.courseService.Categories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: categories})
}

func courseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return 0, false
	}
	return uint(id), true
}
