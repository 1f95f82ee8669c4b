package sheet

import (
	"fmt"
	"strings"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/xuri/excelize/v2"
)

// ParseRange parses an A1-style range such as "A3:F40", "$A$3:$F$40" or
// "'План'!A3:F40" into a 0-based region. The sheet qualifier is ignored.
func ParseRange(ref string) (models.Region, error) {
	ref = strings.TrimSpace(ref)
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}
	ref = strings.ReplaceAll(ref, "$", "")

	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return models.EmptyRegion(), fmt.Errorf("invalid range %q: want FIRST:LAST", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.EmptyRegion(), fmt.Errorf("invalid range %q: %w", ref, err)
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.EmptyRegion(), fmt.Errorf("invalid range %q: %w", ref, err)
	}

	return models.Region{
		MinRow: min(startRow, endRow) - 1,
		MaxRow: max(startRow, endRow) - 1,
		MinCol: min(startCol, endCol) - 1,
		MaxCol: max(startCol, endCol) - 1,
	}, nil
}

// FormatRange renders a region in A1 notation, or "" when it is empty.
func FormatRange(r models.Region) string {
	if r.Empty() {
		return ""
	}
	start, err := excelize.CoordinatesToCellName(r.MinCol+1, r.MinRow+1)
	if err != nil {
		return ""
	}
	end, err := excelize.CoordinatesToCellName(r.MaxCol+1, r.MaxRow+1)
	if err != nil {
		return ""
	}
	return start + ":" + end
}
