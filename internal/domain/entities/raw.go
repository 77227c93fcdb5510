package entities

// Raw records as extracted from the three sources, before any transform.
// Field sets mirror the source columns exactly; renames and projections
// happen in the formatters.

// AppointmentRecord is one row of appointments.csv
type AppointmentRecord struct {
	AppointmentID       int64
	PatientID           int64
	SlotID              int64
	Status              string // free text, may be empty
	SchedulingInterval  int64  // days between booking and appointment
	WaitingTime         float64
	AppointmentDuration float64
	Age                 int64
	AppointmentDate     string // raw string, parsed by the date builder
	AppointmentTime     string // raw string, keyed by the time builder
}

// PatientRecord is one row of patients.csv
type PatientRecord struct {
	PatientID   int64
	Name        string
	DateOfBirth string
	Sex         string
	Insurance   string // company name, resolved to an id downstream
}

// SlotRecord is one row of slots.csv
type SlotRecord struct {
	SlotID          int64
	AppointmentDate string
	AppointmentTime string
	IsAvailable     *bool // optional column, dropped downstream
}

// DoctorRecord is one row of the source doctor table
type DoctorRecord struct {
	DoctorID          int64   `db:"doctor_id"`
	FirstName         string  `db:"first_name"`
	LastName          string  `db:"last_name"`
	Gender            string  `db:"gender"`
	YearsOfExperience int64   `db:"years_of_experience"`
	AppointmentFee    float64 `db:"appointment_fee"`
	SpecialtyID       int64   `db:"specialty_id"`
	Email             string  `db:"email"` // dropped downstream
	Phone             string  `db:"phone"` // dropped downstream
}

// DoctorAppointmentLink maps one appointment to its doctor (1:1 required)
type DoctorAppointmentLink struct {
	AppointmentID int64 `db:"appointment_id"`
	DoctorID      int64 `db:"doctor_id"`
}

// SpecialtyRecord is one row of the source specialty table
type SpecialtyRecord struct {
	SpecialtyID int64  `db:"specialty_id"`
	Title       string `db:"title"`
}

// CoverageTypeRecord is one row of the source coverage_type table
type CoverageTypeRecord struct {
	CoverageTypeID int64  `db:"coverage_type_id"`
	Title          string `db:"title"`
}

// InsuranceCompanyRecord is one insurance company from the API (or the
// local fallback snapshot), already projected to the retained columns with
// rownum promoted to the surrogate key.
type InsuranceCompanyRecord struct {
	InsuranceCompanyID int64
	Name               string
	Type               string
	FoundedYear        int64
	CoverageArea       string
}
