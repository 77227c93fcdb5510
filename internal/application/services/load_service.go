package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/adapters/warehouse"
)

// LoadService writes the conformed tables into the warehouse, dimensions
// first, fact table last.
type LoadService struct {
	warehousePath string
	rebuild       bool
	logger        zerolog.Logger
}

// NewLoadService creates a load service
func NewLoadService(warehousePath string, rebuild bool, logger zerolog.Logger) *LoadService {
	return &LoadService{warehousePath: warehousePath, rebuild: rebuild, logger: logger}
}

// Run loads every table in dependency order. A failed table does not stop
// the remaining tables from loading; the failures are logged individually
// and returned joined, so a partial load is still visible in the run error.
func (s *LoadService) Run(ctx context.Context, tables *TransformResult) error {
	s.logger.Info().Str("warehouse", s.warehousePath).Msg("starting load")

	store, err := warehouse.Open(ctx, s.warehousePath, s.rebuild, s.logger)
	if err != nil {
		return err
	}
	defer store.Close()

	steps := []struct {
		table string
		write func(context.Context) error
	}{
		{"dim_doctor_specialty", func(ctx context.Context) error { return store.WriteSpecialties(ctx, tables.Specialties) }},
		{"dim_insurance_company", func(ctx context.Context) error { return store.WriteInsuranceCompanies(ctx, tables.InsuranceCompanies) }},
		{"dim_coverage_type", func(ctx context.Context) error { return store.WriteCoverageTypes(ctx, tables.CoverageTypes) }},
		{"dim_date", func(ctx context.Context) error { return store.WriteDates(ctx, tables.Dates) }},
		{"dim_time", func(ctx context.Context) error { return store.WriteTimes(ctx, tables.Times) }},
		{"dim_patient", func(ctx context.Context) error { return store.WritePatients(ctx, tables.Patients) }},
		{"dim_doctor", func(ctx context.Context) error { return store.WriteDoctors(ctx, tables.Doctors) }},
		{"dim_slot", func(ctx context.Context) error { return store.WriteSlots(ctx, tables.Slots) }},
		{"dim_appointment_status", func(ctx context.Context) error { return store.WriteStatuses(ctx, tables.Statuses) }},
		{"fact_appointment", func(ctx context.Context) error { return store.WriteFactAppointments(ctx, tables.FactAppointments) }},
	}

	var failures []error
	for _, step := range steps {
		if err := step.write(ctx); err != nil {
			s.logger.Error().Err(err).Str("table", step.table).Msg("table load failed")
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	s.logger.Info().Msg("load complete")
	return nil
}
