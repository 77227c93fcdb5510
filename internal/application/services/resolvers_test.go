package services_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresched/appointment-warehouse/internal/application/services"
	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

func TestResolveDoctors(t *testing.T) {
	doctors := []entities.DoctorRecord{
		{DoctorID: 10}, {DoctorID: 20},
	}

	t.Run("resolves every appointment through the link table", func(t *testing.T) {
		appointments := []entities.AppointmentRecord{
			{AppointmentID: 1}, {AppointmentID: 2}, {AppointmentID: 3},
		}
		links := []entities.DoctorAppointmentLink{
			{AppointmentID: 1, DoctorID: 20},
			{AppointmentID: 2, DoctorID: 10},
			{AppointmentID: 3, DoctorID: 20},
		}

		keys, err := services.ResolveDoctors(appointments, doctors, links)
		require.NoError(t, err)
		assert.Equal(t, []int64{20, 10, 20}, keys)
	})

	t.Run("duplicate link is fatal", func(t *testing.T) {
		links := []entities.DoctorAppointmentLink{
			{AppointmentID: 1, DoctorID: 10},
			{AppointmentID: 1, DoctorID: 20},
		}

		_, err := services.ResolveDoctors([]entities.AppointmentRecord{{AppointmentID: 1}}, doctors, links)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Message, "more than one doctor")
	})

	t.Run("link to unknown doctor is fatal", func(t *testing.T) {
		links := []entities.DoctorAppointmentLink{
			{AppointmentID: 1, DoctorID: 99},
		}

		_, err := services.ResolveDoctors([]entities.AppointmentRecord{{AppointmentID: 1}}, doctors, links)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown doctor 99")
	})

	t.Run("appointment with no link is fatal", func(t *testing.T) {
		_, err := services.ResolveDoctors(
			[]entities.AppointmentRecord{{AppointmentID: 7}},
			doctors,
			nil,
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no doctor assignment")
	})
}

func TestResolveInsurance(t *testing.T) {
	companies := []entities.InsuranceCompanyRecord{
		{InsuranceCompanyID: 1, Name: "Shifo Insurance"},
		{InsuranceCompanyID: 2, Name: "Agros Med"},
	}

	t.Run("matches names case-insensitively", func(t *testing.T) {
		patients := []entities.PatientRecord{
			{PatientID: 1, Insurance: "shifo insurance"},
			{PatientID: 2, Insurance: " Agros Med "},
		}

		keys, unmatched := services.ResolveInsurance(patients, companies)
		require.Len(t, keys, 2)
		assert.Zero(t, unmatched)
		require.NotNil(t, keys[0])
		assert.Equal(t, int64(1), *keys[0])
		require.NotNil(t, keys[1])
		assert.Equal(t, int64(2), *keys[1])
	})

	t.Run("unmatched names stay null and are counted", func(t *testing.T) {
		patients := []entities.PatientRecord{
			{PatientID: 1, Insurance: "Shifo Insurance"},
			{PatientID: 2, Insurance: "Nonexistent Corp"},
			{PatientID: 3, Insurance: ""},
		}

		keys, unmatched := services.ResolveInsurance(patients, companies)
		assert.Equal(t, 2, unmatched)
		assert.NotNil(t, keys[0])
		assert.Nil(t, keys[1])
		assert.Nil(t, keys[2])
	})
}

func TestAssignCoverageTypes(t *testing.T) {
	coverageTypes := []entities.CoverageTypeRecord{
		{CoverageTypeID: 1, Title: "Basic"},
		{CoverageTypeID: 2, Title: "Standard"},
		{CoverageTypeID: 3, Title: "Premium"},
		{CoverageTypeID: 4, Title: "Gold"},
		{CoverageTypeID: 5, Title: "Platinum"},
	}

	t.Run("draws follow the categorical weights", func(t *testing.T) {
		const n = 100000
		patients := make([]entities.PatientRecord, n)

		keys, err := services.AssignCoverageTypes(patients, coverageTypes, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		require.Len(t, keys, n)

		counts := make(map[int64]int)
		for _, k := range keys {
			counts[k]++
		}

		assert.InDelta(t, 0.30, float64(counts[1])/n, 0.01)
		assert.InDelta(t, 0.60, float64(counts[2])/n, 0.01)
		assert.InDelta(t, 0.07, float64(counts[3])/n, 0.01)
		assert.InDelta(t, 0.02, float64(counts[4])/n, 0.005)
		assert.InDelta(t, 0.01, float64(counts[5])/n, 0.005)
	})

	t.Run("wrong coverage type count is fatal", func(t *testing.T) {
		_, err := services.AssignCoverageTypes(
			[]entities.PatientRecord{{PatientID: 1}},
			coverageTypes[:3],
			rand.New(rand.NewSource(1)),
		)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})

	t.Run("same seed gives the same assignment", func(t *testing.T) {
		patients := make([]entities.PatientRecord, 50)

		first, err := services.AssignCoverageTypes(patients, coverageTypes, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		second, err := services.AssignCoverageTypes(patients, coverageTypes, rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
