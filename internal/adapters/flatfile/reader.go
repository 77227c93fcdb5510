package flatfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// Required flat-file names inside the data directory.
const (
	AppointmentsFile = "appointments.csv"
	PatientsFile     = "patients.csv"
	SlotsFile        = "slots.csv"
)

// Reader reads the three required CSV inputs from a data directory into
// typed records. A missing file is a fatal missing-source error; there is
// no partial extraction.
type Reader struct {
	dir    string
	logger zerolog.Logger
}

// NewReader creates a flat-file reader over dir
func NewReader(dir string, logger zerolog.Logger) *Reader {
	return &Reader{dir: dir, logger: logger}
}

// ReadAppointments reads appointments.csv
func (r *Reader) ReadAppointments() ([]entities.AppointmentRecord, error) {
	var records []entities.AppointmentRecord
	err := r.readFile(AppointmentsFile, func(row *rowReader) error {
		records = append(records, entities.AppointmentRecord{
			AppointmentID:       row.intCol("appointment_id"),
			PatientID:           row.intCol("patient_id"),
			SlotID:              row.intCol("slot_id"),
			Status:              row.strCol("status"),
			SchedulingInterval:  row.intCol("scheduling_interval"),
			WaitingTime:         row.floatCol("waiting_time"),
			AppointmentDuration: row.floatCol("appointment_duration"),
			Age:                 row.intCol("age"),
			AppointmentDate:     row.strCol("appointment_date"),
			AppointmentTime:     row.strCol("appointment_time"),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Int("rows", len(records)).Str("file", AppointmentsFile).Msg("flat file read")
	return records, nil
}

// ReadPatients reads patients.csv
func (r *Reader) ReadPatients() ([]entities.PatientRecord, error) {
	var records []entities.PatientRecord
	err := r.readFile(PatientsFile, func(row *rowReader) error {
		records = append(records, entities.PatientRecord{
			PatientID:   row.intCol("patient_id"),
			Name:        row.strCol("name"),
			DateOfBirth: row.strCol("dob"),
			Sex:         row.strCol("sex"),
			Insurance:   row.strCol("insurance"),
		})
		return row.err()
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Int("rows", len(records)).Str("file", PatientsFile).Msg("flat file read")
	return records, nil
}

// ReadSlots reads slots.csv. The is_available column is optional.
func (r *Reader) ReadSlots() ([]entities.SlotRecord, error) {
	var records []entities.SlotRecord
	err := r.readFile(SlotsFile, func(row *rowReader) error {
		rec := entities.SlotRecord{
			SlotID:          row.intCol("slot_id"),
			AppointmentDate: row.strCol("appointment_date"),
			AppointmentTime: row.strCol("appointment_time"),
		}
		if row.hasCol("is_available") {
			v := row.boolCol("is_available")
			rec.IsAvailable = &v
		}
		records = append(records, rec)
		return row.err()
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Int("rows", len(records)).Str("file", SlotsFile).Msg("flat file read")
	return records, nil
}

func (r *Reader) readFile(name string, handle func(*rowReader) error) error {
	path := filepath.Join(r.dir, name)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Error().Str("path", path).Msg("missing required flat file")
			return apperrors.NewMissingSourceError(fmt.Sprintf("missing required file: %s", path))
		}
		return apperrors.NewInternalError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	bufReader := bufio.NewReaderSize(file, 64*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return apperrors.NewInternalError(fmt.Sprintf("failed to read %s row %d", path, rowNum+1), err)
		}
		rowNum++

		// Skip empty rows
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		row := &rowReader{cols: colIdx, values: record}
		if err := handle(row); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("%s row %d: %v", name, rowNum, err))
		}
	}

	return nil
}

// rowReader gives typed access to one CSV record. The first conversion
// failure is retained and surfaced via err(), so callers can read a whole
// row before checking.
type rowReader struct {
	cols    map[string]int
	values  []string
	convErr error
}

func (r *rowReader) err() error {
	return r.convErr
}

func (r *rowReader) hasCol(name string) bool {
	i, ok := r.cols[name]
	return ok && i < len(r.values)
}

func (r *rowReader) strCol(name string) string {
	if i, ok := r.cols[name]; ok && i < len(r.values) {
		return strings.ToValidUTF8(strings.TrimSpace(r.values[i]), "�")
	}
	return ""
}

func (r *rowReader) intCol(name string) int64 {
	s := r.strCol(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some feeds serialize integral columns as floats (e.g. "3.0")
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			r.fail(name, s, err)
			return 0
		}
		return int64(f)
	}
	return v
}

func (r *rowReader) floatCol(name string) float64 {
	s := r.strCol(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(name, s, err)
		return 0
	}
	return v
}

func (r *rowReader) boolCol(name string) bool {
	s := strings.ToLower(r.strCol(name))
	switch s {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}

func (r *rowReader) fail(col, value string, err error) {
	if r.convErr == nil {
		r.convErr = fmt.Errorf("column %s: bad value %q: %v", col, value, err)
	}
}
