package parser

import (
	"errors"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// ErrNoValidData indicates that every row was dropped by the required-field
// filter. It is distinct from an empty sheet.
var ErrNoValidData = errors.New("no valid data found after filtering")

// FilterRequired keeps the records whose key field is non-null, in order.
func FilterRequired(records []models.Record, key string) ([]models.Record, error) {
	kept := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if !rec.Get(key).IsNull() {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoValidData
	}
	return kept, nil
}
