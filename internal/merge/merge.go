// Package merge reconciles result batches from the analysis stages into a
// single document. Precedence is decided by batch role alone: primary
// results beat segment results, segments apply in page order, and a
// validation batch overrides the categories it explicitly names.
package merge

import (
	"github.com/kamilpajak/designlens/pkg/models"
)

// Merge resolves one result per catalog category from the given batches.
// For each category the first ok result in precedence order wins; an ok
// result is never displaced by a later non-validation batch. With no ok
// result the first error is kept for its diagnostic, and a category no
// batch reported resolves to unavailable.
func Merge(categories []models.Category, batches []models.ResultBatch) *models.Document {
	ordered, validation := orderBatches(batches)

	doc := &models.Document{
		Categories: categories,
		Results:    make([]models.CategoryResult, 0, len(categories)),
	}

	for _, cat := range categories {
		resolved := models.CategoryResult{
			CategoryID: cat.ID,
			Status:     models.StatusUnavailable,
		}

		for _, batch := range ordered {
			r := batch.Get(cat.ID)
			if r == nil {
				continue
			}
			switch r.Status {
			case models.StatusOK:
				if resolved.Status != models.StatusOK {
					resolved = *r
				}
			case models.StatusError:
				if resolved.Status == models.StatusUnavailable {
					resolved = *r
				}
			}
		}

		// A validation result replaces the resolved value only for
		// categories the validation pass explicitly reported on.
		for _, batch := range validation {
			if r := batch.Get(cat.ID); r != nil && r.Status == models.StatusOK {
				resolved = *r
			}
		}

		doc.Results = append(doc.Results, resolved)
	}

	return doc
}

// orderBatches splits batches into precedence order (primary batches in
// given order, then segments in page position order) plus the validation
// batches applied last.
func orderBatches(batches []models.ResultBatch) (ordered, validation []models.ResultBatch) {
	var segments []models.ResultBatch
	for _, b := range batches {
		switch b.Role {
		case models.RolePrimary:
			ordered = append(ordered, b)
		case models.RoleSegment:
			segments = append(segments, b)
		case models.RoleValidation:
			validation = append(validation, b)
		}
	}

	for _, label := range models.SegmentLabels {
		for _, s := range segments {
			if s.Segment == label {
				ordered = append(ordered, s)
			}
		}
	}
	// Segments with unknown labels keep their given order after the known ones.
	for _, s := range segments {
		if !knownSegment(s.Segment) {
			ordered = append(ordered, s)
		}
	}

	return ordered, validation
}

func knownSegment(label string) bool {
	for _, l := range models.SegmentLabels {
		if l == label {
			return true
		}
	}
	return false
}
