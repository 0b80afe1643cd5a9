package mock

import (
	"context"

	"github.com/fwojciec/couponcrawl"
)

var _ couponcrawl.CourseService = (*CourseService)(nil)

// CourseService is a mock implementation of couponcrawl.CourseService.
type CourseService struct {
	CourseExistsFn      func(ctx context.Context, url string) (bool, error)
	InsertCourseFn      func(ctx context.Context, course *couponcrawl.Course) (couponcrawl.InsertResult, error)
	UpdateCourseImageFn func(ctx context.Context, name, image string) (couponcrawl.UpdateResult, error)
	FindCoursesFn       func(ctx context.Context, filter couponcrawl.CourseFilter) ([]*couponcrawl.Course, error)
	CountCoursesFn      func(ctx context.Context) (int, error)
}

func (s *CourseService) CourseExists(ctx context.Context, url string) (bool, error) {
	return s.CourseExistsFn(ctx, url)
}

func (s *CourseService) InsertCourse(ctx context.Context, course *couponcrawl.Course) (couponcrawl.InsertResult, error) {
	return s.InsertCourseFn(ctx, course)
}

func (s *CourseService) UpdateCourseImage(ctx context.Context, name, image string) (couponcrawl.UpdateResult, error) {
	return s.UpdateCourseImageFn(ctx, name, image)
}

func (s *CourseService) FindCourses(ctx context.Context, filter couponcrawl.CourseFilter) ([]*couponcrawl.Course, error) {
	return s.FindCoursesFn(ctx, filter)
}

func (s *CourseService) CountCourses(ctx context.Context) (int, error) {
	return s.CountCoursesFn(ctx)
}
