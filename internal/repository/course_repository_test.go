package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

func newMock(t *testing.T) (*CourseRepo, *ClassInstanceRepo, *EnrollmentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCourseRepo(db), NewClassInstanceRepo(db), NewEnrollmentRepo(db), mock
}

var courseCols = []string{"id", "name", "type", "description", "day_of_week", "time_of_day", "capacity",
	"duration", "price", "class_instance_ids", "additional_fields", "created_at", "updated_at"}

func courseRow(id, day string, ids string) []driver.Value {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{id, "Morning Flow", "Vinyasa", "wake up", day, "07:30", 12, 60, 15.5,
		[]byte(ids), []byte(`{"level":"beginner"}`), now, now}
}

func TestCourseGetByID(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = ?")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(courseCols).AddRow(courseRow("c1", "Monday", `["i1","i2"]`)...))

	c, err := courses.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Monday", c.DayOfWeek)
	assert.Equal(t, []string{"i1", "i2"}, c.ClassInstanceIDs)
	assert.Equal(t, "beginner", c.AdditionalFields["level"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseGetByIDNotFound(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(courseCols))

	_, err := courses.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseCreateAssignsID(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Course{Name: "Power Yoga", DayOfWeek: "Friday", Time: "18:00", Capacity: 10}
	require.NoError(t, courses.Create(context.Background(), c))
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []string{}, c.ClassInstanceIDs)
	assert.False(t, c.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateMissing(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := courses.Update(context.Background(), &model.Course{ID: "nope"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseDeleteWithoutInstances(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM courses WHERE id = ? FOR UPDATE")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE e FROM enrollments e")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_instances WHERE course_id = ?")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = ?")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := courses.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDeleteCascades(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE e FROM enrollments e")).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_instances")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := courses.Delete(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCourseDeleteMissingRollsBack(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := courses.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDeleteAll(t *testing.T) {
	courses, _, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_instances")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, courses.DeleteAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
