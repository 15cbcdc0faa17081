package dataprocessing

import (
	"math"

	"revdiag/pkg/contracts/domain"
)

// DeriveFeatures fills in the per-row lab-visit fraction. Rows without
// visits get NaN so that weekly means skip them.
func DeriveFeatures(records []domain.VisitRecord) {
	for i := range records {
		r := &records[i]
		if r.VisitCount == 0 {
			r.PctVisitsWithLabs = math.NaN()
			continue
		}
		r.PctVisitsWithLabs = r.VisitsWithLabCount / r.VisitCount
	}
}
