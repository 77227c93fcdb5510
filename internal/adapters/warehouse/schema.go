package warehouse

// Star schema. The declared foreign keys are documentation — SQLite does
// not enforce them at load time and the transform stage guarantees
// referential integrity before anything reaches the loader.
var warehouseDDL = []string{
	`CREATE TABLE IF NOT EXISTS fact_appointment (
		appointment_id INTEGER PRIMARY KEY,
		patient_id INTEGER,
		doctor_id INTEGER,
		slot_id INTEGER,
		appointment_status_id INTEGER,
		appointment_date_id INTEGER,
		appointment_time_id INTEGER,
		scheduling_interval_days INTEGER,
		waiting_duration_min REAL,
		appointment_duration_min REAL,
		patient_age INTEGER,
		FOREIGN KEY (patient_id) REFERENCES dim_patient(patient_id),
		FOREIGN KEY (doctor_id) REFERENCES dim_doctor(doctor_id),
		FOREIGN KEY (slot_id) REFERENCES dim_slot(slot_id),
		FOREIGN KEY (appointment_status_id) REFERENCES dim_appointment_status(status_id),
		FOREIGN KEY (appointment_date_id) REFERENCES dim_date(date_id),
		FOREIGN KEY (appointment_time_id) REFERENCES dim_time(time_id)
	);`,
	`CREATE TABLE IF NOT EXISTS dim_patient (
		patient_id INTEGER PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		date_of_birth TEXT,
		gender TEXT,
		insurance_company_id INTEGER,
		coverage_type_id INTEGER,
		FOREIGN KEY (insurance_company_id) REFERENCES dim_insurance_company(insurance_company_id),
		FOREIGN KEY (coverage_type_id) REFERENCES dim_coverage_type(coverage_type_id)
	);`,
	`CREATE TABLE IF NOT EXISTS dim_doctor (
		doctor_id INTEGER PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		gender TEXT,
		years_of_experience INTEGER,
		appointment_fee REAL,
		specialty_id INTEGER,
		FOREIGN KEY (specialty_id) REFERENCES dim_doctor_specialty(specialty_id)
	);`,
	`CREATE TABLE IF NOT EXISTS dim_doctor_specialty (
		specialty_id INTEGER PRIMARY KEY,
		specialty_title TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS dim_slot (
		slot_id INTEGER PRIMARY KEY,
		appointment_date TEXT,
		appointment_time TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS dim_date (
		date_id INTEGER PRIMARY KEY,
		full_date TEXT,
		day INTEGER,
		month INTEGER,
		year INTEGER,
		weekday TEXT,
		quarter INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS dim_time (
		time_id INTEGER PRIMARY KEY,
		full_time TEXT,
		hour INTEGER,
		minute INTEGER,
		am_pm TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS dim_coverage_type (
		coverage_type_id INTEGER PRIMARY KEY,
		coverage_title TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS dim_appointment_status (
		status_id INTEGER PRIMARY KEY,
		status_title TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS dim_insurance_company (
		insurance_company_id TEXT PRIMARY KEY,
		insurance_company_name TEXT,
		insurance_company_type TEXT,
		founded_year INTEGER,
		coverage_area TEXT
	);`,
}
