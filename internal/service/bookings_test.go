package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

func TestCreateBookingTotalsCoursePrices(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	store := &fakeBookings{}
	bookings := NewBookings(store, f.instances, f.catalog)

	a := f.course(t, "Monday") // 12.5
	b := &model.Course{Name: "Power", DayOfWeek: "Monday", Capacity: 5, Duration: 60, Price: 20}
	require.NoError(t, f.catalog.CreateCourse(ctx, b))
	ci1 := &model.ClassInstance{CourseID: a.ID, Date: monday, TeacherName: "S"}
	ci2 := &model.ClassInstance{CourseID: b.ID, Date: monday, TeacherName: "J"}
	require.NoError(t, f.catalog.AddClassInstance(ctx, ci1))
	require.NoError(t, f.catalog.AddClassInstance(ctx, ci2))

	got, err := bookings.Create(ctx, " Ann@Example.com ", []string{ci1.ID, ci2.ID, ci1.ID})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.UserEmail)
	assert.Equal(t, []string{ci1.ID, ci2.ID}, got.ClassIDs)
	assert.InDelta(t, 32.5, got.TotalAmount, 0.001)

	list, err := bookings.ListByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateBookingErrors(t *testing.T) {
	f := newCatalogFixture(t)
	bookings := NewBookings(&fakeBookings{}, f.instances, f.catalog)
	ctx := context.Background()

	_, err := bookings.Create(ctx, "a@b.c", nil)
	assert.ErrorIs(t, err, ErrNoClassInstances)

	_, err = bookings.Create(ctx, "a@b.c", []string{"missing"})
	assert.ErrorIs(t, err, ErrClassInstanceNotFound)

	_, err = bookings.Create(ctx, "", []string{"x"})
	assert.ErrorIs(t, err, ErrValidation)
}
