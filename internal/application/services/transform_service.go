package services

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
)

// TransformResult holds every conformed table, ready for loading.
type TransformResult struct {
	FactAppointments   []entities.FactAppointmentRow
	Patients           []entities.PatientDimRow
	Doctors            []entities.DoctorDimRow
	Specialties        []entities.SpecialtyDimRow
	Slots              []entities.SlotDimRow
	Dates              []entities.DateDimRow
	Times              []entities.TimeDimRow
	CoverageTypes      []entities.CoverageTypeDimRow
	Statuses           []entities.StatusDimRow
	InsuranceCompanies []entities.InsuranceCompanyDimRow
}

// TransformService turns the raw extract into the star schema: it builds
// the generated dimensions, resolves every fact and patient key, then
// projects each table into its warehouse shape.
type TransformService struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewTransformService creates a transform service. The rand source drives
// the coverage type assignment; tests inject a fixed seed.
func NewTransformService(rng *rand.Rand, logger zerolog.Logger) *TransformService {
	return &TransformService{rng: rng, logger: logger}
}

// Run transforms the extract. Any unresolvable key is fatal: loading a
// fact row that points at a missing dimension row would corrupt every
// query joining through it.
func (s *TransformService) Run(extract *ExtractResult) (*TransformResult, error) {
	s.logger.Info().Msg("starting transformation")

	dates, dateKeys, err := BuildDateDimension(extract.Appointments)
	if err != nil {
		return nil, err
	}
	times, timeKeys, err := BuildTimeDimension(extract.Appointments)
	if err != nil {
		return nil, err
	}
	statuses, statusKeys, err := BuildStatusDimension(extract.Appointments)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("dates", len(dates)).
		Int("times", len(times)).
		Int("statuses", len(statuses)).
		Msg("generated dimensions built")

	doctorKeys, err := ResolveDoctors(extract.Appointments, extract.Source.Doctors, extract.Source.DoctorAppointments)
	if err != nil {
		return nil, err
	}

	insuranceKeys, unmatched := ResolveInsurance(extract.Patients, extract.InsuranceCompanies)
	if unmatched > 0 {
		s.logger.Warn().Int("patients", unmatched).
			Msg("patients with no matching insurance company, storing null keys")
	}

	coverageKeys, err := AssignCoverageTypes(extract.Patients, extract.Source.CoverageTypes, s.rng)
	if err != nil {
		return nil, err
	}

	conformed := make([]entities.ConformedAppointment, 0, len(extract.Appointments))
	for i, a := range extract.Appointments {
		conformed = append(conformed, entities.ConformedAppointment{
			AppointmentRecord: a,
			DoctorID:          doctorKeys[i],
			DateID:            dateKeys[i],
			TimeID:            timeKeys[i],
			StatusID:          statusKeys[i],
		})
	}

	result := &TransformResult{
		FactAppointments:   FormatFactAppointments(conformed),
		Patients:           FormatPatients(extract.Patients, insuranceKeys, coverageKeys),
		Doctors:            FormatDoctors(extract.Source.Doctors),
		Specialties:        FormatSpecialties(extract.Source.Specialties),
		Slots:              FormatSlots(extract.Slots),
		Dates:              dates,
		Times:              times,
		CoverageTypes:      FormatCoverageTypes(extract.Source.CoverageTypes),
		Statuses:           statuses,
		InsuranceCompanies: FormatInsuranceCompanies(extract.InsuranceCompanies),
	}

	s.logger.Info().
		Int("facts", len(result.FactAppointments)).
		Int("patients", len(result.Patients)).
		Msg("transformation complete")
	return result, nil
}
