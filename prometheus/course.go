package prometheus

import (
	"context"

	"github.com/fwojciec/couponcrawl"
)

var _ couponcrawl.CourseService = (*InstrumentedCourseService)(nil)

// InstrumentedCourseService counts insert and image update outcomes.
type InstrumentedCourseService struct {
	next    couponcrawl.CourseService
	metrics *Metrics
}

// NewInstrumentedCourseService wraps next with metrics collection.
func NewInstrumentedCourseService(next couponcrawl.CourseService, metrics *Metrics) *InstrumentedCourseService {
	return &InstrumentedCourseService{next: next, metrics: metrics}
}

// CourseExists delegates to the wrapped service.
func (s *InstrumentedCourseService) CourseExists(ctx context.Context, url string) (bool, error) {
	return s.next.CourseExists(ctx, url)
}

// InsertCourse delegates and counts the insert outcome.
func (s *InstrumentedCourseService) InsertCourse(ctx context.Context, course *couponcrawl.Course) (couponcrawl.InsertResult, error) {
	result, err := s.next.InsertCourse(ctx, course)
	switch {
	case err != nil:
		s.metrics.InsertsTotal.WithLabelValues("error").Inc()
	case result == couponcrawl.AlreadyPresent:
		s.metrics.InsertsTotal.WithLabelValues("duplicate").Inc()
	default:
		s.metrics.InsertsTotal.WithLabelValues("inserted").Inc()
	}
	return result, err
}

// UpdateCourseImage delegates and counts the update outcome.
func (s *InstrumentedCourseService) UpdateCourseImage(ctx context.Context, name, image string) (couponcrawl.UpdateResult, error) {
	result, err := s.next.UpdateCourseImage(ctx, name, image)
	switch {
	case err != nil:
		s.metrics.ImageUpdatesTotal.WithLabelValues("error").Inc()
	case result.NoMatch():
		s.metrics.ImageUpdatesTotal.WithLabelValues("no_match").Inc()
	default:
		s.metrics.ImageUpdatesTotal.WithLabelValues("updated").Inc()
	}
	return result, err
}

// FindCourses delegates to the wrapped service.
func (s *InstrumentedCourseService) FindCourses(ctx context.Context, filter couponcrawl.CourseFilter) ([]*couponcrawl.Course, error) {
	return s.next.FindCourses(ctx, filter)
}

// CountCourses delegates to the wrapped service.
func (s *InstrumentedCourseService) CountCourses(ctx context.Context) (int, error) {
	return s.next.CountCourses(ctx)
}
