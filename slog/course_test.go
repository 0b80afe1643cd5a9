package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/couponcrawl"
	"github.com/fwojciec/couponcrawl/mock"
	couponslog "github.com/fwojciec/couponcrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCourseService_InsertCourse(t *testing.T) {
	t.Parallel()

	t.Run("logs inserted outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CourseService{
			InsertCourseFn: func(_ context.Context, _ *couponcrawl.Course) (couponcrawl.InsertResult, error) {
				return couponcrawl.Inserted, nil
			},
		}

		svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := svc.InsertCourse(context.Background(), &couponcrawl.Course{URL: "https://u.example.com/?couponCode=A"})

		require.NoError(t, err)
		assert.Equal(t, couponcrawl.Inserted, result)
		assert.Contains(t, buf.String(), "outcome=inserted")
		assert.Contains(t, buf.String(), `url="https://u.example.com/?couponCode=A"`)
	})

	t.Run("logs duplicate as already present", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CourseService{
			InsertCourseFn: func(_ context.Context, _ *couponcrawl.Course) (couponcrawl.InsertResult, error) {
				return couponcrawl.AlreadyPresent, nil
			},
		}

		svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := svc.InsertCourse(context.Background(), &couponcrawl.Course{URL: "https://u.example.com/?couponCode=A"})

		require.NoError(t, err)
		assert.Equal(t, couponcrawl.AlreadyPresent, result)
		assert.Contains(t, buf.String(), `outcome="already present"`)
		assert.Contains(t, buf.String(), "level=INFO")
	})

	t.Run("logs storage errors at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CourseService{
			InsertCourseFn: func(_ context.Context, _ *couponcrawl.Course) (couponcrawl.InsertResult, error) {
				return 0, errors.New("disk full")
			},
		}

		svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.InsertCourse(context.Background(), &couponcrawl.Course{URL: "https://u.example.com/?couponCode=A"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), `err="disk full"`)
	})
}

func TestLoggingCourseService_UpdateCourseImage(t *testing.T) {
	t.Parallel()

	t.Run("logs no match outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CourseService{
			UpdateCourseImageFn: func(_ context.Context, _, _ string) (couponcrawl.UpdateResult, error) {
				return couponcrawl.UpdateResult{}, nil
			},
		}

		svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := svc.UpdateCourseImage(context.Background(), "Unknown", "https://img.example.com/x.jpg")

		require.NoError(t, err)
		assert.True(t, result.NoMatch())
		assert.Contains(t, buf.String(), `outcome="no match"`)
		assert.Contains(t, buf.String(), `name=Unknown`)
	})

	t.Run("logs updated outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.CourseService{
			UpdateCourseImageFn: func(_ context.Context, _, _ string) (couponcrawl.UpdateResult, error) {
				return couponcrawl.UpdateResult{Matched: 1}, nil
			},
		}

		svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := svc.UpdateCourseImage(context.Background(), "Learn Go", "https://img.example.com/go.jpg")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "outcome=updated")
		assert.Contains(t, buf.String(), "matched=1")
	})
}

func TestLoggingCourseService_delegates_reads(t *testing.T) {
	t.Parallel()

	inner := &mock.CourseService{
		CourseExistsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
		CountCoursesFn: func(_ context.Context) (int, error) { return 3, nil },
		FindCoursesFn: func(_ context.Context, _ couponcrawl.CourseFilter) ([]*couponcrawl.Course, error) {
			return []*couponcrawl.Course{{URL: "a"}}, nil
		},
	}
	svc := couponslog.NewLoggingCourseService(inner, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	exists, err := svc.CourseExists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := svc.CountCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	courses, err := svc.FindCourses(ctx, couponcrawl.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}
