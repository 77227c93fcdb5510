package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/caresched/appointment-warehouse/internal/adapters/flatfile"
	"github.com/caresched/appointment-warehouse/internal/adapters/sourcedb"
	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	"github.com/caresched/appointment-warehouse/internal/infrastructure/clients/insuranceapi"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// ExtractResult carries every raw table pulled from the three sources.
type ExtractResult struct {
	Appointments       []entities.AppointmentRecord
	Patients           []entities.PatientRecord
	Slots              []entities.SlotRecord
	Source             *sourcedb.SourceData
	InsuranceCompanies []entities.InsuranceCompanyRecord
}

// ExtractService pulls raw records from the flat files, the operational
// database and the insurance API (with local fallback).
type ExtractService struct {
	flatFiles    *flatfile.Reader
	sourceDBPath string
	apiClient    insuranceapi.Client
	fallbackPath string
	logger       zerolog.Logger
}

// NewExtractService creates an extract service
func NewExtractService(
	flatFiles *flatfile.Reader,
	sourceDBPath string,
	apiClient insuranceapi.Client,
	fallbackPath string,
	logger zerolog.Logger,
) *ExtractService {
	return &ExtractService{
		flatFiles:    flatFiles,
		sourceDBPath: sourceDBPath,
		apiClient:    apiClient,
		fallbackPath: fallbackPath,
		logger:       logger,
	}
}

// Run extracts all sources in order: flat files, then the source database,
// then the API. A missing flat file aborts before any database or API call
// is made.
func (s *ExtractService) Run(ctx context.Context) (*ExtractResult, error) {
	s.logger.Info().Msg("starting extraction")
	result := &ExtractResult{}

	var err error
	if result.Appointments, err = s.flatFiles.ReadAppointments(); err != nil {
		return nil, err
	}
	if result.Patients, err = s.flatFiles.ReadPatients(); err != nil {
		return nil, err
	}
	if result.Slots, err = s.flatFiles.ReadSlots(); err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("appointments", len(result.Appointments)).
		Int("patients", len(result.Patients)).
		Int("slots", len(result.Slots)).
		Msg("flat files extracted")

	reader, err := sourcedb.Open(ctx, s.sourceDBPath, s.logger)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if result.Source, err = reader.ReadAll(ctx); err != nil {
		return nil, err
	}
	s.logger.Info().Msg("source database extracted")

	if result.InsuranceCompanies, err = s.fetchInsuranceCompanies(ctx); err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("insurance_companies", len(result.InsuranceCompanies)).
		Msg("insurance companies extracted")

	return result, nil
}

// fetchInsuranceCompanies calls the API and falls back to the bundled JSON
// snapshot on any failure. Only a failing API combined with a missing
// fallback file is fatal.
func (s *ExtractService) fetchInsuranceCompanies(ctx context.Context) ([]entities.InsuranceCompanyRecord, error) {
	records, err := s.apiClient.FetchCompanies(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("fallback", s.fallbackPath).
			Msg("insurance api unavailable, falling back to local snapshot")

		records, err = s.readFallback()
		if err != nil {
			return nil, err
		}
		s.logger.Info().Int("records", len(records)).Msg("loaded insurance companies from fallback file")
	}

	companies := make([]entities.InsuranceCompanyRecord, 0, len(records))
	for _, r := range records {
		companies = append(companies, entities.InsuranceCompanyRecord{
			InsuranceCompanyID: r.RowNum,
			Name:               r.Name,
			Type:               r.Type,
			FoundedYear:        r.FoundedYear,
			CoverageArea:       r.CoverageArea,
		})
	}
	return companies, nil
}

func (s *ExtractService) readFallback() ([]insuranceapi.CompanyRecord, error) {
	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewMissingSourceError(
				fmt.Sprintf("insurance fallback file not found at: %s", s.fallbackPath))
		}
		return nil, apperrors.NewInternalError("failed to read insurance fallback file", err)
	}

	var records []insuranceapi.CompanyRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperrors.NewInternalError("failed to decode insurance fallback file", err)
	}
	return records, nil
}
