package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresched/appointment-warehouse/internal/application/services"
	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

func TestBuildDateDimension(t *testing.T) {
	t.Run("covers the full calendar range", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentDate: "2024-05-03"},
			{AppointmentID: 2, AppointmentDate: "2024-05-01"},
			{AppointmentID: 3, AppointmentDate: "2024-05-03"},
		}

		dim, keys, err := services.BuildDateDimension(appointments)
		require.NoError(t, err)

		require.Len(t, dim, 3, "one row per calendar day between min and max")
		assert.Equal(t, int64(20240501), dim[0].DateID)
		assert.Equal(t, int64(20240502), dim[1].DateID)
		assert.Equal(t, int64(20240503), dim[2].DateID)
		assert.Equal(t, "2024-05-02", dim[1].FullDate)
		assert.Equal(t, "Thursday", dim[1].Weekday)
		assert.Equal(t, int64(2), dim[1].Quarter)

		assert.Equal(t, []int64{20240503, 20240501, 20240503}, keys)
	})

	t.Run("spans month boundaries", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentDate: "2024-01-30"},
			{AppointmentID: 2, AppointmentDate: "2024-02-02"},
		}

		dim, _, err := services.BuildDateDimension(appointments)
		require.NoError(t, err)
		require.Len(t, dim, 4)
		assert.Equal(t, int64(20240131), dim[1].DateID)
		assert.Equal(t, int64(20240201), dim[2].DateID)
	})

	t.Run("datetime values cover every day regardless of clock time", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentDate: "2024-05-01 23:00:00"},
			{AppointmentID: 2, AppointmentDate: "2024-05-03 01:00:00"},
		}

		dim, keys, err := services.BuildDateDimension(appointments)
		require.NoError(t, err)

		require.Len(t, dim, 3, "clock times must not shorten the day range")
		assert.Equal(t, int64(20240501), dim[0].DateID)
		assert.Equal(t, int64(20240503), dim[2].DateID)
		assert.Equal(t, []int64{20240501, 20240503}, keys)

		rows := make(map[int64]bool, len(dim))
		for _, row := range dim {
			rows[row.DateID] = true
		}
		for i, key := range keys {
			assert.True(t, rows[key], "appointment %d key %d must have a dimension row", appointments[i].AppointmentID, key)
		}
	})

	t.Run("unparseable date is fatal", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentDate: "2024-05-01"},
			{AppointmentID: 2, AppointmentDate: "not-a-date"},
		}

		_, _, err := services.BuildDateDimension(appointments)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Message, "appointment 2")
	})

	t.Run("no parseable dates at all is fatal", func(t *testing.T) {
		_, _, err := services.BuildDateDimension([]entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentDate: ""},
		})
		require.Error(t, err)
	})
}

func TestBuildTimeDimension(t *testing.T) {
	t.Run("generates the fixed 41-row grid", func(t *testing.T) {
		dim, _, err := services.BuildTimeDimension(nil)
		require.NoError(t, err)
		require.Len(t, dim, 41)

		assert.Equal(t, int64(800), dim[0].TimeID)
		assert.Equal(t, "08:00:00", dim[0].FullTime)
		assert.Equal(t, "AM", dim[0].AmPm)

		assert.Equal(t, int64(1145), dim[15].TimeID)
		assert.Equal(t, int64(1200), dim[16].TimeID)
		assert.Equal(t, "PM", dim[16].AmPm)

		last := dim[len(dim)-1]
		assert.Equal(t, int64(1800), last.TimeID)
		assert.Equal(t, "18:00:00", last.FullTime)
	})

	t.Run("keys appointments by HHMM", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentTime: "09:15:00"},
			{AppointmentID: 2, AppointmentTime: "14:30"},
			{AppointmentID: 3, AppointmentTime: "08:00:27"},
		}

		_, keys, err := services.BuildTimeDimension(appointments)
		require.NoError(t, err)
		assert.Equal(t, []int64{915, 1430, 800}, keys)
	})

	t.Run("time outside the grid is fatal", func(t *testing.T) {
		for _, tc := range []string{"07:45:00", "18:15:00", "09:07:00"} {
			_, _, err := services.BuildTimeDimension([]entities.AppointmentRecord{
				{AppointmentID: 1, AppointmentTime: tc},
			})
			require.Error(t, err, "time %s must be rejected", tc)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		}
	})

	t.Run("garbage time is fatal", func(t *testing.T) {
		_, _, err := services.BuildTimeDimension([]entities.AppointmentRecord{
			{AppointmentID: 1, AppointmentTime: "soon"},
		})
		require.Error(t, err)
	})
}

func TestBuildStatusDimension(t *testing.T) {
	t.Run("enumerates statuses in first-seen order", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1, Status: "Completed"},
			{AppointmentID: 2, Status: "No-show"},
			{AppointmentID: 3, Status: "Completed"},
			{AppointmentID: 4, Status: "Cancelled"},
		}

		dim, keys, err := services.BuildStatusDimension(appointments)
		require.NoError(t, err)

		require.Len(t, dim, 3)
		assert.Equal(t, entities.StatusDimRow{StatusID: 1, StatusTitle: "Completed"}, dim[0])
		assert.Equal(t, entities.StatusDimRow{StatusID: 2, StatusTitle: "No-show"}, dim[1])
		assert.Equal(t, entities.StatusDimRow{StatusID: 3, StatusTitle: "Cancelled"}, dim[2])

		assert.Equal(t, []int64{1, 2, 1, 3}, keys)
	})

	t.Run("empty status is fatal", func(t *testing.T) {
		_, _, err := services.BuildStatusDimension([]entities.AppointmentRecord{
			{AppointmentID: 1, Status: "Completed"},
			{AppointmentID: 2, Status: "  "},
		})
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Message, "appointment 2")
	})
}
