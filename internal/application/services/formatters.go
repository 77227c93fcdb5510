package services

import (
	"strings"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
)

// Formatters project resolved records into the exact warehouse column
// shapes. They are pure: each returns a freshly built slice and leaves
// its inputs untouched.

// FormatFactAppointments builds the fact rows from fully conformed
// appointments. Every dimension key was resolved upstream, so this is a
// straight projection.
func FormatFactAppointments(conformed []entities.ConformedAppointment) []entities.FactAppointmentRow {
	rows := make([]entities.FactAppointmentRow, 0, len(conformed))
	for _, c := range conformed {
		rows = append(rows, entities.FactAppointmentRow{
			AppointmentID:          c.AppointmentID,
			PatientID:              c.PatientID,
			DoctorID:               c.DoctorID,
			SlotID:                 c.SlotID,
			AppointmentStatusID:    c.StatusID,
			AppointmentDateID:      c.DateID,
			AppointmentTimeID:      c.TimeID,
			SchedulingIntervalDays: c.SchedulingInterval,
			WaitingDurationMin:     c.WaitingTime,
			AppointmentDurationMin: c.AppointmentDuration,
			PatientAge:             c.Age,
		})
	}
	return rows
}

// FormatPatients splits the full name on the first space and attaches the
// resolved insurance and coverage keys. insuranceKeys and coverageKeys are
// aligned with patients by index.
func FormatPatients(
	patients []entities.PatientRecord,
	insuranceKeys []*int64,
	coverageKeys []int64,
) []entities.PatientDimRow {
	rows := make([]entities.PatientDimRow, 0, len(patients))
	for i, p := range patients {
		first, last := splitName(p.Name)
		rows = append(rows, entities.PatientDimRow{
			PatientID:          p.PatientID,
			FirstName:          first,
			LastName:           last,
			DateOfBirth:        p.DateOfBirth,
			Gender:             p.Sex,
			InsuranceCompanyID: insuranceKeys[i],
			CoverageTypeID:     coverageKeys[i],
		})
	}
	return rows
}

// FormatDoctors drops the contact columns, which have no analytical use.
func FormatDoctors(doctors []entities.DoctorRecord) []entities.DoctorDimRow {
	rows := make([]entities.DoctorDimRow, 0, len(doctors))
	for _, d := range doctors {
		rows = append(rows, entities.DoctorDimRow{
			DoctorID:          d.DoctorID,
			FirstName:         d.FirstName,
			LastName:          d.LastName,
			Gender:            d.Gender,
			YearsOfExperience: d.YearsOfExperience,
			AppointmentFee:    d.AppointmentFee,
			SpecialtyID:       d.SpecialtyID,
		})
	}
	return rows
}

// FormatSpecialties renames title to specialty_title
func FormatSpecialties(specialties []entities.SpecialtyRecord) []entities.SpecialtyDimRow {
	rows := make([]entities.SpecialtyDimRow, 0, len(specialties))
	for _, s := range specialties {
		rows = append(rows, entities.SpecialtyDimRow{
			SpecialtyID:    s.SpecialtyID,
			SpecialtyTitle: s.Title,
		})
	}
	return rows
}

// FormatCoverageTypes renames title to coverage_title
func FormatCoverageTypes(coverageTypes []entities.CoverageTypeRecord) []entities.CoverageTypeDimRow {
	rows := make([]entities.CoverageTypeDimRow, 0, len(coverageTypes))
	for _, c := range coverageTypes {
		rows = append(rows, entities.CoverageTypeDimRow{
			CoverageTypeID: c.CoverageTypeID,
			CoverageTitle:  c.Title,
		})
	}
	return rows
}

// FormatSlots drops the availability flag
func FormatSlots(slots []entities.SlotRecord) []entities.SlotDimRow {
	rows := make([]entities.SlotDimRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, entities.SlotDimRow{
			SlotID:          s.SlotID,
			AppointmentDate: s.AppointmentDate,
			AppointmentTime: s.AppointmentTime,
		})
	}
	return rows
}

// FormatInsuranceCompanies projects the API records into the dimension shape
func FormatInsuranceCompanies(companies []entities.InsuranceCompanyRecord) []entities.InsuranceCompanyDimRow {
	rows := make([]entities.InsuranceCompanyDimRow, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, entities.InsuranceCompanyDimRow{
			InsuranceCompanyID: c.InsuranceCompanyID,
			Name:               c.Name,
			Type:               c.Type,
			FoundedYear:        c.FoundedYear,
			CoverageArea:       c.CoverageArea,
		})
	}
	return rows
}

// splitName divides a full name into first and last on the first space.
// A single-token name becomes the first name with an empty last name.
func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
