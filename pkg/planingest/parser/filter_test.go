package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

func TestFilterRequired(t *testing.T) {
	var records []models.Record
	for i, v := range []models.Value{models.Number(450), models.Null(), models.String("465"), models.Null()} {
		r := models.NewRecord(i + 2)
		r.Set("Хоризонт", v)
		records = append(records, r)
	}

	kept, err := FilterRequired(records, "Хоризонт")
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 2, kept[0].Row)
	assert.Equal(t, 4, kept[1].Row)
	for _, r := range kept {
		assert.False(t, r.Get("Хоризонт").IsNull())
	}
}

func TestFilterRequired_AllInvalid(t *testing.T) {
	r := models.NewRecord(2)
	r.Set("Хоризонт", models.Null())

	kept, err := FilterRequired([]models.Record{r}, "Хоризонт")
	assert.ErrorIs(t, err, ErrNoValidData)
	assert.Nil(t, kept)

	// a missing column is the same as null everywhere
	_, err = FilterRequired([]models.Record{r}, "Блок")
	assert.ErrorIs(t, err, ErrNoValidData)
}
