package services_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/caresched/appointment-warehouse/internal/application/services"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/insuranceapi"
	"github.com/caresched/appointment-warehouse/pkg/config"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

const testAppointmentsCSV = `appointment_id,patient_id,slot_id,status,scheduling_interval,waiting_time,appointment_duration,age,appointment_date,appointment_time
1,1,101,Completed,5,12.5,30,45,2024-05-01,09:00:00
2,2,102,Completed,3,8.0,20,61,2024-05-01,09:15:00
3,3,103,No-show,10,0,0,29,2024-05-02,10:30:00
4,4,104,Completed,1,25.5,45,37,2024-05-02,11:00:00
5,5,105,Completed,7,5.0,15,52,2024-05-02,14:45:00
6,1,106,No-show,2,0,0,45,2024-05-03,08:00:00
7,2,107,Completed,4,19.0,25,61,2024-05-03,15:30:00
8,3,108,Completed,6,3.5,35,29,2024-05-03,16:00:00
9,4,109,Completed,8,11.0,40,37,2024-05-03,17:15:00
10,5,110,No-show,12,0,0,52,2024-05-03,18:00:00
`

const testPatientsCSV = `patient_id,name,dob,sex,insurance
1,Aziza Rahimova,1979-02-11,F,Shifo Insurance
2,Botir Ergashev,1963-07-24,M,Agros Med
3,Kamola Yusupova,1995-12-03,F,Unknown Insurer
4,Davron Saidov,1987-05-18,M,Shifo Insurance
5,Elmira Toshpulatova,1972-09-30,F,Kapital Sugurta
`

const testSlotsCSV = `slot_id,appointment_date,appointment_time,is_available
101,2024-05-01,09:00:00,false
102,2024-05-01,09:15:00,false
103,2024-05-02,10:30:00,false
104,2024-05-02,11:00:00,false
105,2024-05-02,14:45:00,false
106,2024-05-03,08:00:00,false
107,2024-05-03,15:30:00,false
108,2024-05-03,16:00:00,false
109,2024-05-03,17:15:00,false
110,2024-05-03,18:00:00,false
`

const testCompaniesJSON = `[
	{"rownum": 1, "insurance_company_name": "Shifo Insurance", "insurance_company_type": "Private", "founded_year": 1996, "coverage_area": "National"},
	{"rownum": 2, "insurance_company_name": "Agros Med", "insurance_company_type": "Private", "founded_year": 2003, "coverage_area": "Regional"},
	{"rownum": 3, "insurance_company_name": "Kapital Sugurta", "insurance_company_type": "Public", "founded_year": 1991, "coverage_area": "National"},
	{"rownum": 4, "insurance_company_name": "Alfa Garant", "insurance_company_type": "Private", "founded_year": 2010, "coverage_area": "Regional"},
	{"rownum": 5, "insurance_company_name": "Orient Med", "insurance_company_type": "Private", "founded_year": 2015, "coverage_area": "Local"}
]`

// writeTestSources lays out the data directory for one pipeline run and
// returns a config pointing at it.
func writeTestSources(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	for name, content := range map[string]string{
		"appointments.csv": testAppointmentsCSV,
		"patients.csv":     testPatientsCSV,
		"slots.csv":        testSlotsCSV,
		"api_sample.json":  testCompaniesJSON,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return &config.Config{
		Environment: "test",
		Sources: config.SourcesConfig{
			DataDir:      dir,
			SourceDBPath: filepath.Join(dir, "healthcare.db"),
		},
		Warehouse: config.WarehouseConfig{
			Path: filepath.Join(dir, "warehouse.db"),
		},
		InsuranceAPI: config.InsuranceAPIConfig{
			FallbackPath: filepath.Join(dir, "api_sample.json"),
		},
		Timezone: "Asia/Tashkent",
	}
}

func queryCount(t *testing.T, path, query string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestPipelineService(t *testing.T) {
	ctx := context.Background()

	t.Run("full run against a live api", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(testCompaniesJSON))
		}))
		defer server.Close()

		cfg := writeTestSources(t)
		cfg.InsuranceAPI.URL = server.URL

		pipeline := services.NewPipelineService(cfg, insuranceapi.NewClient(cfg.InsuranceAPI.URL, ""), zerolog.Nop())
		require.NoError(t, pipeline.Run(ctx))

		wh := cfg.Warehouse.Path
		assert.Equal(t, 10, queryCount(t, wh, "SELECT COUNT(*) FROM fact_appointment"))
		assert.Equal(t, 5, queryCount(t, wh, "SELECT COUNT(*) FROM dim_patient"))
		assert.Equal(t, 3, queryCount(t, wh, "SELECT COUNT(*) FROM dim_date"))
		assert.Equal(t, 41, queryCount(t, wh, "SELECT COUNT(*) FROM dim_time"))
		assert.Equal(t, 2, queryCount(t, wh, "SELECT COUNT(*) FROM dim_appointment_status"))
		assert.Equal(t, 5, queryCount(t, wh, "SELECT COUNT(*) FROM dim_insurance_company"))
		assert.Equal(t, 5, queryCount(t, wh, "SELECT COUNT(*) FROM dim_coverage_type"))
		assert.Equal(t, 6, queryCount(t, wh, "SELECT COUNT(*) FROM dim_doctor"))
		assert.Equal(t, 10, queryCount(t, wh, "SELECT COUNT(*) FROM dim_slot"))

		// Every fact row must join to an existing date, time and status row.
		orphans := queryCount(t, wh, `SELECT COUNT(*) FROM fact_appointment f
			LEFT JOIN dim_date d ON f.appointment_date_id = d.date_id
			LEFT JOIN dim_time t ON f.appointment_time_id = t.time_id
			LEFT JOIN dim_appointment_status s ON f.appointment_status_id = s.status_id
			WHERE d.date_id IS NULL OR t.time_id IS NULL OR s.status_id IS NULL`)
		assert.Zero(t, orphans)

		// The unmatched insurer stays NULL, the rest resolve.
		assert.Equal(t, 1, queryCount(t, wh, "SELECT COUNT(*) FROM dim_patient WHERE insurance_company_id IS NULL"))
	})

	t.Run("failing api falls back to the local snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		cfg := writeTestSources(t)
		cfg.InsuranceAPI.URL = server.URL

		pipeline := services.NewPipelineService(cfg, insuranceapi.NewClient(cfg.InsuranceAPI.URL, ""), zerolog.Nop())
		require.NoError(t, pipeline.Run(ctx))

		assert.Equal(t, 5, queryCount(t, cfg.Warehouse.Path, "SELECT COUNT(*) FROM dim_insurance_company"))
	})

	t.Run("missing appointments file aborts before any database work", func(t *testing.T) {
		cfg := writeTestSources(t)
		require.NoError(t, os.Remove(filepath.Join(cfg.Sources.DataDir, "appointments.csv")))

		pipeline := services.NewPipelineService(cfg, insuranceapi.NewClient("http://127.0.0.1:0", ""), zerolog.Nop())
		err := pipeline.Run(ctx)
		require.Error(t, err)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeMissingSource, appErr.Type)

		// Extraction failed first, so the source database was never
		// bootstrapped and no warehouse file was written.
		_, statErr := os.Stat(cfg.Sources.SourceDBPath)
		assert.True(t, os.IsNotExist(statErr))
		_, statErr = os.Stat(cfg.Warehouse.Path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("rerun rebuilds the warehouse rather than appending", func(t *testing.T) {
		cfg := writeTestSources(t)

		pipeline := services.NewPipelineService(cfg, insuranceapi.NewClient("http://127.0.0.1:0", ""), zerolog.Nop())
		require.NoError(t, pipeline.Run(ctx))
		require.NoError(t, pipeline.Run(ctx))

		assert.Equal(t, 10, queryCount(t, cfg.Warehouse.Path, "SELECT COUNT(*) FROM fact_appointment"))
		assert.Equal(t, 3, queryCount(t, cfg.Warehouse.Path, "SELECT COUNT(*) FROM dim_date"))
	})
}
