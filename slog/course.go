package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/couponcrawl"
)

// Ensure LoggingCourseService implements couponcrawl.CourseService.
var _ couponcrawl.CourseService = (*LoggingCourseService)(nil)

// LoggingCourseService wraps a CourseService with logging of write outcomes.
// Duplicate inserts and unmatched image updates are logged, not surfaced.
type LoggingCourseService struct {
	next   couponcrawl.CourseService
	logger *slog.Logger
}

// NewLoggingCourseService creates a new LoggingCourseService.
func NewLoggingCourseService(next couponcrawl.CourseService, logger *slog.Logger) *LoggingCourseService {
	return &LoggingCourseService{next: next, logger: logger}
}

// CourseExists delegates to the wrapped service.
func (s *LoggingCourseService) CourseExists(ctx context.Context, url string) (bool, error) {
	return s.next.CourseExists(ctx, url)
}

// InsertCourse delegates to the wrapped service and logs the outcome.
func (s *LoggingCourseService) InsertCourse(ctx context.Context, course *couponcrawl.Course) (result couponcrawl.InsertResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("course insert", "url", course.URL, "duration", time.Since(begin), "err", err)
			return
		}
		s.logger.Info("course insert",
			"url", course.URL,
			"name", course.Name,
			"outcome", result.String(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.InsertCourse(ctx, course)
}

// UpdateCourseImage delegates to the wrapped service and logs the outcome.
func (s *LoggingCourseService) UpdateCourseImage(ctx context.Context, name, image string) (result couponcrawl.UpdateResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("image update", "name", name, "duration", time.Since(begin), "err", err)
			return
		}
		outcome := "updated"
		if result.NoMatch() {
			outcome = "no match"
		}
		s.logger.Info("image update",
			"name", name,
			"image", image,
			"outcome", outcome,
			"matched", result.Matched,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.UpdateCourseImage(ctx, name, image)
}

// FindCourses delegates to the wrapped service.
func (s *LoggingCourseService) FindCourses(ctx context.Context, filter couponcrawl.CourseFilter) ([]*couponcrawl.Course, error) {
	return s.next.FindCourses(ctx, filter)
}

// CountCourses delegates to the wrapped service.
func (s *LoggingCourseService) CountCourses(ctx context.Context) (int, error) {
	return s.next.CountCourses(ctx)
}
