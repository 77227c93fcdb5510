package entities

// Derived dimension rows. Surrogate keys are recomputed on every run.

// DateDimRow is one calendar day of dim_date. DateID is the date formatted
// YYYYMMDD as an integer, the same rule used to key fact rows.
type DateDimRow struct {
	DateID   int64  `db:"date_id"`
	FullDate string `db:"full_date"`
	Day      int64  `db:"day"`
	Month    int64  `db:"month"`
	Year     int64  `db:"year"`
	Weekday  string `db:"weekday"`
	Quarter  int64  `db:"quarter"`
}

// TimeDimRow is one 15-minute slot of dim_time. TimeID is HHMM as an
// integer.
type TimeDimRow struct {
	TimeID   int64  `db:"time_id"`
	FullTime string `db:"full_time"`
	Hour     int64  `db:"hour"`
	Minute   int64  `db:"minute"`
	AmPm     string `db:"am_pm"`
}

// StatusDimRow is one distinct appointment status, keyed in first-seen
// order starting at 1.
type StatusDimRow struct {
	StatusID    int64  `db:"status_id"`
	StatusTitle string `db:"status_title"`
}
