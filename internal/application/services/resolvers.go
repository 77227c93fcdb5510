package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/caresched/appointment-warehouse/internal/domain/entities"
	apperrors "github.com/caresched/appointment-warehouse/pkg/errors"
)

// coverageWeights is the categorical distribution used to assign a coverage
// type to each patient, ordered by coverage_type_id ascending. The source
// systems never recorded coverage, so the warehouse synthesizes it.
var coverageWeights = []float64{0.30, 0.60, 0.07, 0.02, 0.01}

// ResolveDoctors joins each appointment to its doctor through the link
// table. Every appointment must map to exactly one existing doctor; a
// duplicate link or an unknown doctor id breaks the fact grain and is
// fatal.
func ResolveDoctors(
	appointments []entities.AppointmentRecord,
	doctors []entities.DoctorRecord,
	links []entities.DoctorAppointmentLink,
) ([]int64, error) {
	known := make(map[int64]bool, len(doctors))
	for _, d := range doctors {
		known[d.DoctorID] = true
	}

	byAppointment := make(map[int64]int64, len(links))
	for _, l := range links {
		if _, dup := byAppointment[l.AppointmentID]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d is linked to more than one doctor", l.AppointmentID))
		}
		if !known[l.DoctorID] {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d is linked to unknown doctor %d", l.AppointmentID, l.DoctorID))
		}
		byAppointment[l.AppointmentID] = l.DoctorID
	}

	keys := make([]int64, len(appointments))
	for i, a := range appointments {
		doctorID, ok := byAppointment[a.AppointmentID]
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"appointment %d has no doctor assignment", a.AppointmentID))
		}
		keys[i] = doctorID
	}

	return keys, nil
}

// ResolveInsurance matches each patient's recorded insurance name against
// the company list. An unmatched name yields a nil key (stored as NULL);
// the count of unmatched patients is returned so the caller can log it.
func ResolveInsurance(
	patients []entities.PatientRecord,
	companies []entities.InsuranceCompanyRecord,
) ([]*int64, int) {
	byName := make(map[string]int64, len(companies))
	for _, c := range companies {
		byName[strings.ToLower(strings.TrimSpace(c.Name))] = c.InsuranceCompanyID
	}

	keys := make([]*int64, len(patients))
	unmatched := 0
	for i, p := range patients {
		name := strings.ToLower(strings.TrimSpace(p.Insurance))
		if id, ok := byName[name]; ok && name != "" {
			resolved := id
			keys[i] = &resolved
			continue
		}
		unmatched++
	}

	return keys, unmatched
}

// AssignCoverageTypes draws one coverage type per patient from the fixed
// categorical distribution. The weights are positional over the coverage
// types ordered by id, so the counts must line up.
func AssignCoverageTypes(
	patients []entities.PatientRecord,
	coverageTypes []entities.CoverageTypeRecord,
	rng *rand.Rand,
) ([]int64, error) {
	if len(coverageTypes) != len(coverageWeights) {
		return nil, apperrors.NewValidationError(fmt.Sprintf(
			"expected %d coverage types to match the assignment weights, got %d",
			len(coverageWeights), len(coverageTypes)))
	}

	keys := make([]int64, len(patients))
	for i := range patients {
		draw := rng.Float64()
		cumulative := 0.0
		idx := len(coverageWeights) - 1
		for j, w := range coverageWeights {
			cumulative += w
			if draw < cumulative {
				idx = j
				break
			}
		}
		keys[i] = coverageTypes[idx].CoverageTypeID
	}

	return keys, nil
}
