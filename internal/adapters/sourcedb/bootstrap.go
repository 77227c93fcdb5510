package sourcedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/sqlite"
)

// Source schema. Mirrors the operational system's export shape.
var sourceDDL = []string{
	`CREATE TABLE IF NOT EXISTS doctor (
		doctor_id INTEGER PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		gender TEXT,
		years_of_experience INTEGER,
		appointment_fee REAL,
		specialty_id INTEGER,
		email TEXT,
		phone TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS specialty (
		specialty_id INTEGER PRIMARY KEY,
		title TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS coverage_type (
		coverage_type_id INTEGER PRIMARY KEY,
		title TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS doctor_appointment (
		appointment_id INTEGER,
		doctor_id INTEGER
	);`,
}

// seedAppointmentSpan is how many appointment ids the sample
// doctor_appointment mapping covers (round-robin across the seed doctors).
const seedAppointmentSpan = 200

// CreateSchema creates the four operational tables on db
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sourceDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create source table: %w", err)
		}
	}
	return nil
}

// Bootstrap creates and seeds the source database file at path. It is the
// self-healing path taken when the operational export is missing; the seed
// content is a small, deterministic sample set.
func Bootstrap(ctx context.Context, path string, logger zerolog.Logger) error {
	client, err := sqlite.NewClient(path, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := CreateSchema(ctx, client.DB()); err != nil {
		return err
	}

	db := goqu.New("sqlite3", client.DB())

	specialties := []goqu.Record{
		{"specialty_id": 1, "title": "Cardiology"},
		{"specialty_id": 2, "title": "Dermatology"},
		{"specialty_id": 3, "title": "Pediatrics"},
		{"specialty_id": 4, "title": "General Practice"},
	}

	coverageTypes := []goqu.Record{
		{"coverage_type_id": 1, "title": "Basic"},
		{"coverage_type_id": 2, "title": "Standard"},
		{"coverage_type_id": 3, "title": "Premium"},
		{"coverage_type_id": 4, "title": "Gold"},
		{"coverage_type_id": 5, "title": "Platinum"},
	}

	doctors := []goqu.Record{
		{"doctor_id": 1, "first_name": "Dilshod", "last_name": "Yusupov", "gender": "M", "years_of_experience": 14, "appointment_fee": 90.0, "specialty_id": 1, "email": "d.yusupov@clinic.example", "phone": "+998901112233"},
		{"doctor_id": 2, "first_name": "Malika", "last_name": "Azimova", "gender": "F", "years_of_experience": 9, "appointment_fee": 75.0, "specialty_id": 2, "email": "m.azimova@clinic.example", "phone": "+998901112234"},
		{"doctor_id": 3, "first_name": "Rustam", "last_name": "Nazarov", "gender": "M", "years_of_experience": 21, "appointment_fee": 120.0, "specialty_id": 1, "email": "r.nazarov@clinic.example", "phone": "+998901112235"},
		{"doctor_id": 4, "first_name": "Zarina", "last_name": "Tosheva", "gender": "F", "years_of_experience": 6, "appointment_fee": 60.0, "specialty_id": 3, "email": "z.tosheva@clinic.example", "phone": "+998901112236"},
		{"doctor_id": 5, "first_name": "Bekzod", "last_name": "Umarov", "gender": "M", "years_of_experience": 11, "appointment_fee": 80.0, "specialty_id": 4, "email": "b.umarov@clinic.example", "phone": "+998901112237"},
		{"doctor_id": 6, "first_name": "Gulnora", "last_name": "Saidova", "gender": "F", "years_of_experience": 17, "appointment_fee": 100.0, "specialty_id": 4, "email": "g.saidova@clinic.example", "phone": "+998901112238"},
	}

	// One doctor per appointment id, round-robin. The 1:1 invariant the
	// transform enforces holds by construction here.
	links := make([]goqu.Record, 0, seedAppointmentSpan)
	for i := 1; i <= seedAppointmentSpan; i++ {
		links = append(links, goqu.Record{
			"appointment_id": i,
			"doctor_id":      (i-1)%len(doctors) + 1,
		})
	}

	inserts := []struct {
		table string
		rows  []goqu.Record
	}{
		{"specialty", specialties},
		{"coverage_type", coverageTypes},
		{"doctor", doctors},
		{"doctor_appointment", links},
	}

	for _, ins := range inserts {
		query, args, err := db.Insert(ins.table).Rows(ins.rows).ToSQL()
		if err != nil {
			return fmt.Errorf("build %s seed insert: %w", ins.table, err)
		}
		if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed %s: %w", ins.table, err)
		}
	}

	logger.Info().
		Str("path", path).
		Int("doctors", len(doctors)).
		Int("doctor_appointments", len(links)).
		Msg("source database created and seeded")

	return nil
}
