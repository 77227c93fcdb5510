package sourcedb

import (
	"context"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/sqlite"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// SourceData holds the four operational tables extracted in one pass.
type SourceData struct {
	Doctors            []entities.DoctorRecord
	Specialties        []entities.SpecialtyRecord
	CoverageTypes      []entities.CoverageTypeRecord
	DoctorAppointments []entities.DoctorAppointmentLink
}

// Reader extracts the operational tables from the file-based source store.
type Reader struct {
	client *sqlite.Client
	db     *goqu.Database
	logger zerolog.Logger
}

// Open connects to the source database at path. When the file does not
// exist the bootstrap routine creates and seeds it first — a self-healing
// convenience path, not a retry.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Reader, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("source database not found, running bootstrap")
		if err := Bootstrap(ctx, path, logger); err != nil {
			return nil, apperrors.NewInternalError("source database bootstrap failed", err)
		}
	}

	client, err := sqlite.NewClient(path, logger)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open source database", err)
	}

	return &Reader{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
		logger: logger,
	}, nil
}

// Close closes the underlying store
func (r *Reader) Close() error {
	return r.client.Close()
}

// ReadAll extracts the doctor, specialty, coverage_type and
// doctor_appointment tables.
func (r *Reader) ReadAll(ctx context.Context) (*SourceData, error) {
	data := &SourceData{}

	if err := r.readDoctors(ctx, data); err != nil {
		return nil, err
	}
	if err := r.readSpecialties(ctx, data); err != nil {
		return nil, err
	}
	if err := r.readCoverageTypes(ctx, data); err != nil {
		return nil, err
	}
	if err := r.readDoctorAppointments(ctx, data); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int("doctors", len(data.Doctors)).
		Int("specialties", len(data.Specialties)).
		Int("coverage_types", len(data.CoverageTypes)).
		Int("doctor_appointments", len(data.DoctorAppointments)).
		Msg("source database extracted")

	return data, nil
}

func (r *Reader) readDoctors(ctx context.Context, data *SourceData) error {
	query, args, err := r.db.Select(
		"doctor_id", "first_name", "last_name", "gender",
		"years_of_experience", "appointment_fee", "specialty_id",
		"email", "phone",
	).From("doctor").Order(goqu.I("doctor_id").Asc()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build doctor query", err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to read doctor table", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d entities.DoctorRecord
		if err := rows.Scan(
			&d.DoctorID, &d.FirstName, &d.LastName, &d.Gender,
			&d.YearsOfExperience, &d.AppointmentFee, &d.SpecialtyID,
			&d.Email, &d.Phone,
		); err != nil {
			return apperrors.NewInternalError("failed to scan doctor row", err)
		}
		data.Doctors = append(data.Doctors, d)
	}
	return rows.Err()
}

func (r *Reader) readSpecialties(ctx context.Context, data *SourceData) error {
	query, args, err := r.db.Select("specialty_id", "title").
		From("specialty").Order(goqu.I("specialty_id").Asc()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build specialty query", err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to read specialty table", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s entities.SpecialtyRecord
		if err := rows.Scan(&s.SpecialtyID, &s.Title); err != nil {
			return apperrors.NewInternalError("failed to scan specialty row", err)
		}
		data.Specialties = append(data.Specialties, s)
	}
	return rows.Err()
}

func (r *Reader) readCoverageTypes(ctx context.Context, data *SourceData) error {
	query, args, err := r.db.Select("coverage_type_id", "title").
		From("coverage_type").Order(goqu.I("coverage_type_id").Asc()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build coverage_type query", err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to read coverage_type table", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entities.CoverageTypeRecord
		if err := rows.Scan(&c.CoverageTypeID, &c.Title); err != nil {
			return apperrors.NewInternalError("failed to scan coverage_type row", err)
		}
		data.CoverageTypes = append(data.CoverageTypes, c)
	}
	return rows.Err()
}

func (r *Reader) readDoctorAppointments(ctx context.Context, data *SourceData) error {
	query, args, err := r.db.Select("appointment_id", "doctor_id").
		From("doctor_appointment").Order(goqu.I("appointment_id").Asc()).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build doctor_appointment query", err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to read doctor_appointment table", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entities.DoctorAppointmentLink
		if err := rows.Scan(&l.AppointmentID, &l.DoctorID); err != nil {
			return apperrors.NewInternalError("failed to scan doctor_appointment row", err)
		}
		data.DoctorAppointments = append(data.DoctorAppointments, l)
	}
	return rows.Err()
}
