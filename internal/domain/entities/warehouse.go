package entities

// Conformed rows in the exact column shape the warehouse schema expects.
// The db tags are the warehouse column names; the loader inserts these
// structs as-is.

// FactAppointmentRow is one row of fact_appointment
type FactAppointmentRow struct {
	AppointmentID          int64   `db:"appointment_id"`
	PatientID              int64   `db:"patient_id"`
	DoctorID               int64   `db:"doctor_id"`
	SlotID                 int64   `db:"slot_id"`
	AppointmentStatusID    int64   `db:"appointment_status_id"`
	AppointmentDateID      int64   `db:"appointment_date_id"`
	AppointmentTimeID      int64   `db:"appointment_time_id"`
	SchedulingIntervalDays int64   `db:"scheduling_interval_days"`
	WaitingDurationMin     float64 `db:"waiting_duration_min"`
	AppointmentDurationMin float64 `db:"appointment_duration_min"`
	PatientAge             int64   `db:"patient_age"`
}

// PatientDimRow is one row of dim_patient. InsuranceCompanyID is nil when
// the patient's recorded insurance name matched no company.
type PatientDimRow struct {
	PatientID          int64  `db:"patient_id"`
	FirstName          string `db:"first_name"`
	LastName           string `db:"last_name"`
	DateOfBirth        string `db:"date_of_birth"`
	Gender             string `db:"gender"`
	InsuranceCompanyID *int64 `db:"insurance_company_id"`
	CoverageTypeID     int64  `db:"coverage_type_id"`
}

// DoctorDimRow is one row of dim_doctor (contact columns dropped)
type DoctorDimRow struct {
	DoctorID          int64   `db:"doctor_id"`
	FirstName         string  `db:"first_name"`
	LastName          string  `db:"last_name"`
	Gender            string  `db:"gender"`
	YearsOfExperience int64   `db:"years_of_experience"`
	AppointmentFee    float64 `db:"appointment_fee"`
	SpecialtyID       int64   `db:"specialty_id"`
}

// SpecialtyDimRow is one row of dim_doctor_specialty
type SpecialtyDimRow struct {
	SpecialtyID    int64  `db:"specialty_id"`
	SpecialtyTitle string `db:"specialty_title"`
}

// SlotDimRow is one row of dim_slot (availability flag dropped)
type SlotDimRow struct {
	SlotID          int64  `db:"slot_id"`
	AppointmentDate string `db:"appointment_date"`
	AppointmentTime string `db:"appointment_time"`
}

// CoverageTypeDimRow is one row of dim_coverage_type
type CoverageTypeDimRow struct {
	CoverageTypeID int64  `db:"coverage_type_id"`
	CoverageTitle  string `db:"coverage_title"`
}

// InsuranceCompanyDimRow is one row of dim_insurance_company
type InsuranceCompanyDimRow struct {
	InsuranceCompanyID int64  `db:"insurance_company_id"`
	Name               string `db:"insurance_company_name"`
	Type               string `db:"insurance_company_type"`
	FoundedYear        int64  `db:"founded_year"`
	CoverageArea       string `db:"coverage_area"`
}

// ConformedAppointment is an appointment with every dimension key resolved,
// ready for the fact formatter. Produced by the transform stage; each
// resolver returns a new slice rather than mutating its input.
type ConformedAppointment struct {
	AppointmentRecord

	DoctorID int64
	DateID   int64
	TimeID   int64
	StatusID int64
}
