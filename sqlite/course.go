package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/couponcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ couponcrawl.CourseService = (*CourseService)(nil)

// CourseService implements couponcrawl.CourseService using SQLite.
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
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE url = ?)`, url).Scan(&exists)
	return exists, err
}

// InsertCourse inserts the course unless its URL is already stored.
// On insert the course's ID, ContentHash and timestamps are set.
func (s *CourseService) InsertCourse(ctx context.Context, course *couponcrawl.Course) (couponcrawl.InsertResult, error) {
	if err := course.Validate(); err != nil {
		return 0, err
	}

	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Microsecond)
	hash := couponcrawl.ContentHash(course.Name, course.Description)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO courses (id, url, name, description, image, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, id, course.URL, course.Name, course.Description, nullString(course.Image), hash,
		formatTime(now), formatTime(now))
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
func (s *CourseService) UpdateCourseImage(ctx context.Context, name, image string) (couponcrawl.UpdateResult, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE courses SET image = ?, updated_at = ? WHERE name = ?
	`, nullString(image), formatTime(time.Now()), name)
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

	query.WriteString(" ORDER BY created_at, rowid")
	args = writePage(&query, args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*couponcrawl.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// CountCourses returns the number of stored courses.
func (s *CourseService) CountCourses(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (*couponcrawl.Course, error) {
	var course couponcrawl.Course
	var image sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&course.ID, &course.URL, &course.Name, &course.Description, &image,
		&course.ContentHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	course.Image = image.String

	var err error
	if course.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if course.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &course, nil
}
