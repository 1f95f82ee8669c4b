package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

func TestNormalizer_Normalize(t *testing.T) {
	raw := models.NewRecord(4)
	raw.SetCell("Хоризонт", 1, models.String("450"))
	raw.SetCell("Дата", 2, models.Number(serialJan17))
	raw.SetCell("План", 3, models.String("12,5"))
	raw.SetCell("Cu %", 4, models.Number(0.34567))
	raw.SetCell("Багер", 5, models.String("EX-1"))

	n := &Normalizer{
		Coercer:   NewCoercer(""),
		DateField: "Дата",
		Override:  &models.YearMonth{Year: 2025, Month: time.March},
	}
	got, errs := n.Normalize(raw)
	assert.Empty(t, errs)

	assert.True(t, got.Get("Хоризонт").Equal(models.Number(450)))
	assert.True(t, got.Get("Дата").Equal(date(2025, time.March, 17)))
	assert.True(t, got.Get("План").Equal(models.Number(13)))
	assert.True(t, got.Get("Cu %").Equal(models.Number(0.346)))
	assert.True(t, got.Get("Багер").Equal(models.String("EX-1")))
	assert.Equal(t, 4, got.Row)

	// raw record is untouched
	assert.True(t, raw.Get("План").Equal(models.String("12,5")))
}

func TestNormalizer_CellErrorsAreLocated(t *testing.T) {
	raw := models.NewRecord(7)
	raw.SetCell("Хоризонт", 2, models.Number(450))
	raw.SetCell("Дата", 3, models.String("без дата"))

	n := &Normalizer{DateField: "Дата", Override: &models.YearMonth{Year: 2025, Month: time.March}}
	got, errs := n.Normalize(raw)

	require.Len(t, errs, 1)
	assert.Equal(t, 7, errs[0].Row)
	assert.Equal(t, 3, errs[0].Col)
	assert.Equal(t, "Дата", errs[0].Header)
	assert.True(t, errs[0].Raw.Equal(models.String("без дата")))
	assert.True(t, got.Has("Дата"))
	assert.True(t, got.Get("Дата").IsNull())
	assert.True(t, got.Get("Хоризонт").Equal(models.Number(450)))
}
