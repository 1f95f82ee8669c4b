package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
)

func TestJoinHeaderRows_StickyPropagation(t *testing.T) {
	got := JoinHeaderRows([]string{"A", "", "B"}, []string{"x", "y", "z"}, 0)
	assert.Equal(t, []string{"A - x", "A - y", "B - z"}, got)
}

func TestJoinHeaderRows_Fallbacks(t *testing.T) {
	got := JoinHeaderRows([]string{"", "", "Руда", ""}, []string{"Дата", "", "т", ""}, 3)
	assert.Equal(t, []string{"Дата", "Column_4", "Руда - т", "Руда"}, got)
}

func TestResolveHeaders_SingleRow(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 1, "  Хоризонт ", nil, 2025)
	g.SetRow(1, 1, 450, "x", 10)

	headers, err := ResolveHeaders(g, g.Region(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Хоризонт", "Column_2", "2025"}, headers)
}

func TestResolveHeaders_TwoRows(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "Дата", "Руда", nil, "Откривка")
	g.SetRow(1, 0, nil, "т", "Cu %", "м3")
	g.SetRow(2, 0, 45662, 100, 0.5, 300)

	headers, err := ResolveHeaders(g, g.Region(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Дата", "Руда - т", "Руда - Cu %", "Откривка - м3"}, headers)
}

func TestResolveHeaders_ThreeRowsSkipsTitle(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "Природни показатели за януари")
	g.SetRow(1, 0, "Хоризонт", "Руда", nil)
	g.SetRow(2, 0, nil, "т", "Cu %")
	g.SetRow(3, 0, 450, 1000, 0.31)

	headers, err := ResolveHeaders(g, g.Region(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Хоризонт", "Руда - т", "Руда - Cu %"}, headers)
}

func TestResolveHeaders_Deterministic(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "A", nil, "B", nil)
	g.SetRow(1, 0, "x", "y", nil, "z")
	g.SetRow(2, 0, 1, 2, 3, 4)

	first, err := ResolveHeaders(g, g.Region(), 2)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ResolveHeaders(g, g.Region(), 2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolveHeaders_NormalizesUnicode(t *testing.T) {
	g := sheet.NewGrid("План")
	// "й" written as и + combining breve
	g.SetRow(0, 0, "Брои\u0306")
	g.SetRow(1, 0, 1)

	headers, err := ResolveHeaders(g, g.Region(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Брой"}, headers)
}

func TestResolveHeaders_InvalidRowCount(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "A")
	_, err := ResolveHeaders(g, g.Region(), 4)
	assert.ErrorIs(t, err, ErrHeaderRows)
}

func TestFindHeader(t *testing.T) {
	headers := []string{"Хоризонт", "ДАТА", "План"}
	h, ok := FindHeader(headers, "Дата")
	assert.True(t, ok)
	assert.Equal(t, "ДАТА", h)

	_, ok = FindHeader(headers, "Багер")
	assert.False(t, ok)
}

func TestExtractRows_NullsArePresent(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "Хоризонт", "Дата", "План")
	g.SetRow(1, 0, 450, 45662, 10)
	g.SetRow(2, 0, nil, 45663, 5)

	region := g.Region()
	headers, err := ResolveHeaders(g, region, 1)
	require.NoError(t, err)

	rows := ExtractRows(g, region, headers, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, 3, rows[1].Row)
	assert.True(t, rows[1].Has("Хоризонт"))
	assert.True(t, rows[1].Get("Хоризонт").IsNull())
	assert.Equal(t, 3, rows[1].Col("План"))
}

func TestExtractRows_DuplicateHeadersOverwrite(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "План", "План")
	g.SetRow(1, 0, 1, 2)

	region := g.Region()
	headers, err := ResolveHeaders(g, region, 1)
	require.NoError(t, err)
	rows := ExtractRows(g, region, headers, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Len())
	assert.True(t, rows[0].Get("План").Equal(models.Number(2)))
}

func TestExtractRows_HeaderOnly(t *testing.T) {
	g := sheet.NewGrid("План")
	g.SetRow(0, 0, "Хоризонт")
	assert.Empty(t, ExtractRows(g, g.Region(), []string{"Хоризонт"}, 1))
}
