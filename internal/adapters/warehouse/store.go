package warehouse

import (
	"context"
	"fmt"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/sqlite"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// insertChunk bounds the rows per INSERT so the statement stays well under
// SQLite's bound-variable limit at the widest table (11 columns).
const insertChunk = 200

// Store is the warehouse connection for one pipeline run. It is opened
// once, written serially and closed at the end of Load.
type Store struct {
	client *sqlite.Client
	db     *goqu.Database
	logger zerolog.Logger
}

// Open connects to the warehouse file at path, creating it from the fixed
// DDL when absent. With rebuild set, an existing file is removed first and
// the schema recreated from scratch.
func Open(ctx context.Context, path string, rebuild bool, logger zerolog.Logger) (*Store, error) {
	if rebuild {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, apperrors.NewInternalError("failed to remove warehouse for rebuild", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("warehouse not found, creating")
	}

	client, err := sqlite.NewClient(path, logger)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open warehouse", err)
	}

	for _, stmt := range warehouseDDL {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			client.Close()
			return nil, apperrors.NewInternalError("failed to create warehouse schema", err)
		}
	}

	return &Store{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
		logger: logger,
	}, nil
}

// Close closes the warehouse connection
func (s *Store) Close() error {
	return s.client.Close()
}

// WriteSpecialties replaces dim_doctor_specialty
func (s *Store) WriteSpecialties(ctx context.Context, rows []entities.SpecialtyDimRow) error {
	return replaceTable(ctx, s, "dim_doctor_specialty", rows)
}

// WriteInsuranceCompanies replaces dim_insurance_company
func (s *Store) WriteInsuranceCompanies(ctx context.Context, rows []entities.InsuranceCompanyDimRow) error {
	return replaceTable(ctx, s, "dim_insurance_company", rows)
}

// WriteCoverageTypes replaces dim_coverage_type
func (s *Store) WriteCoverageTypes(ctx context.Context, rows []entities.CoverageTypeDimRow) error {
	return replaceTable(ctx, s, "dim_coverage_type", rows)
}

// WriteDates replaces dim_date
func (s *Store) WriteDates(ctx context.Context, rows []entities.DateDimRow) error {
	return replaceTable(ctx, s, "dim_date", rows)
}

// WriteTimes replaces dim_time
func (s *Store) WriteTimes(ctx context.Context, rows []entities.TimeDimRow) error {
	return replaceTable(ctx, s, "dim_time", rows)
}

// WritePatients replaces dim_patient
func (s *Store) WritePatients(ctx context.Context, rows []entities.PatientDimRow) error {
	return replaceTable(ctx, s, "dim_patient", rows)
}

// WriteDoctors replaces dim_doctor
func (s *Store) WriteDoctors(ctx context.Context, rows []entities.DoctorDimRow) error {
	return replaceTable(ctx, s, "dim_doctor", rows)
}

// WriteSlots replaces dim_slot
func (s *Store) WriteSlots(ctx context.Context, rows []entities.SlotDimRow) error {
	return replaceTable(ctx, s, "dim_slot", rows)
}

// WriteStatuses replaces dim_appointment_status
func (s *Store) WriteStatuses(ctx context.Context, rows []entities.StatusDimRow) error {
	return replaceTable(ctx, s, "dim_appointment_status", rows)
}

// WriteFactAppointments replaces fact_appointment. Dimensions must already
// be loaded; the loader sequences this last.
func (s *Store) WriteFactAppointments(ctx context.Context, rows []entities.FactAppointmentRow) error {
	return replaceTable(ctx, s, "fact_appointment", rows)
}

// replaceTable clears the target table and bulk-inserts the conformed rows
// inside one transaction, so each table load is atomic on its own.
func replaceTable[T any](ctx context.Context, s *Store, table string, rows []T) error {
	tx, err := s.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("begin load of %s", table), err)
	}

	deleteSQL, deleteArgs, err := s.db.Delete(table).ToSQL()
	if err != nil {
		tx.Rollback()
		return apperrors.NewInternalError(fmt.Sprintf("build delete for %s", table), err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		tx.Rollback()
		return apperrors.NewInternalError(fmt.Sprintf("clear table %s", table), err)
	}

	for start := 0; start < len(rows); start += insertChunk {
		end := start + insertChunk
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		vals := make([]interface{}, len(chunk))
		for i := range chunk {
			vals[i] = chunk[i]
		}

		insertSQL, insertArgs, err := s.db.Insert(table).Prepared(true).Rows(vals...).ToSQL()
		if err != nil {
			tx.Rollback()
			return apperrors.NewInternalError(fmt.Sprintf("build insert for %s", table), err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			tx.Rollback()
			return apperrors.NewInternalError(fmt.Sprintf("insert into %s", table), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("commit load of %s", table), err)
	}

	s.logger.Info().Str("table", table).Int("rows", len(rows)).Msg("table loaded")
	return nil
}
