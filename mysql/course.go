package mysql

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"

	"github.com/fwojciec/couponcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ couponcrawl.CourseService = (*CourseService)(nil)

// CourseService implements couponcrawl.CourseService using MySQL.
type CourseService struct {
	db *DB
}

// NewCourseService creates a new CourseService.
func NewCourseService(db *DB) *CourseService {
	return &CourseService{db: db}
}

// CourseExists reports whether a course with the given URL is stored.
func (s *CourseService) CourseExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE url = ?)`, url).Scan(&exists)
	return exists, err
}

// InsertCourse inserts the course unless its URL is already stored.
// The no-op update on conflict reports zero affected rows, which is how a
// duplicate is told apart from an insert.
func (s *CourseService) InsertCourse(ctx context.Context, course *couponcrawl.Course) (couponcrawl.InsertResult, error) {
	if err := course.Validate(); err != nil {
		return 0, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	hash := couponcrawl.ContentHash(course.Name, course.Description)

	result, err := s.db.db.ExecContext(ctx, `
		INSERT INTO courses (id, url, name, description, image, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE url = url
	`, id, course.URL, course.Name, course.Description, nullString(course.Image), hash, now, now)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return couponcrawl.AlreadyPresent, nil
	}

	course.ID = id
	course.ContentHash = hash
	course.CreatedAt = now
	course.UpdatedAt = now
	return couponcrawl.Inserted, nil
}

// UpdateCourseImage sets the image of every course with the given name.
// MySQL counts changed rows rather than matched rows; bumping updated_at
// makes every matched row a changed one.
func (s *CourseService) UpdateCourseImage(ctx context.Context, name, image string) (couponcrawl.UpdateResult, error) {
	result, err := s.db.db.ExecContext(ctx, `
		UPDATE courses SET image = ?, updated_at = ? WHERE name = ?
	`, nullString(image), time.Now().UTC(), name)
	if err != nil {
		return couponcrawl.UpdateResult{}, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return couponcrawl.UpdateResult{}, err
	}
	return couponcrawl.UpdateResult{Matched: int(rows)}, nil
}

// FindCourses retrieves courses matching the filter, oldest first.
func (s *CourseService) FindCourses(ctx context.Context, filter couponcrawl.CourseFilter) ([]*couponcrawl.Course, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, name, description, image, content_hash, created_at, updated_at FROM courses WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at, id")

	// MySQL requires a LIMIT before OFFSET.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := int64(filter.Limit)
		if filter.Limit <= 0 {
			limit = math.MaxInt64
		}
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*couponcrawl.Course
	for rows.Next() {
		var course couponcrawl.Course
		var image sql.NullString
		if err := rows.Scan(&course.ID, &course.URL, &course.Name, &course.Description, &image,
			&course.ContentHash, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, err
		}
		course.Image = image.String
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// CountCourses returns the number of stored courses.
func (s *CourseService) CountCourses(ctx context.Context) (int, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
