package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/planingest-go/pkg/planingest"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir, name string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func shovelFile(t *testing.T, dir, name string) string {
	return writeWorkbook(t, dir, name,
		[]interface{}{"Хоризонт", "Дата", "План"},
		[]interface{}{450, 45662, 10},
	)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRun_ShovelJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := shovelFile(t, dir, "shovel.xlsx")

	out, err := execute(t, "--variant", "shovel", path)
	require.NoError(t, err)

	var doc struct {
		Source  string                   `json:"source"`
		Variant string                   `json:"variant"`
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "shovel.xlsx", doc.Source)
	assert.Equal(t, "shovel", doc.Variant)
	require.Len(t, doc.Records, 31)
	assert.Equal(t, "2025-01-31", doc.Records[30]["Дата"])
	assert.InDelta(t, 10000, doc.Records[30]["План"], 1e-6)
}

func TestRun_MultipleFilesYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := shovelFile(t, dir, "a.xlsx")
	b := shovelFile(t, dir, "b.xlsx")

	out, err := execute(t, "--variant", "shovel", "--format", "yaml", "-j", "2",
		"--year", "2024", "--month", "2", a, b)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "run_id:"))
	assert.Less(t, strings.Index(out, "source: a.xlsx"), strings.Index(out, "source: b.xlsx"))
	assert.Contains(t, out, "records_emitted: 29")
}

func TestRun_OutputFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := shovelFile(t, dir, "shovel.xlsx")
	outPath := filepath.Join(dir, "out.json")
	promPath := filepath.Join(dir, "planingest.prom")

	out, err := execute(t, "--variant", "shovel", "--pretty", "-o", outPath, "--metrics-textfile", promPath, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  "))

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `planingest_runs_total{outcome="ok",variant="shovel"} 1`)
}

func TestRun_VariantFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeWorkbook(t, dir, "op.xlsx",
		[]interface{}{"Дата", "Руда"},
		[]interface{}{nil, "т"},
		[]interface{}{45662, 100},
	)
	cfgPath := filepath.Join(dir, "planingest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ingest:\n  variant: operational\n"), 0o600))

	out, err := execute(t, "--config", cfgPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, `"variant":"operational"`)
	assert.Contains(t, out, `"Руда - т":100`)
}

func TestRun_Strict(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeWorkbook(t, dir, "bad.xlsx",
		[]interface{}{"Хоризонт", "Дата", "План"},
		[]interface{}{450, 45662, "много"},
	)

	out, err := execute(t, "--variant", "shovel", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"cell_errors"`)

	out, err = execute(t, "--variant", "shovel", "--strict", path)
	assert.ErrorIs(t, err, errCellErrors)
	assert.Contains(t, out, `"records"`)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := shovelFile(t, dir, "shovel.xlsx")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "no args", args: []string{"--variant", "shovel"}},
		{name: "no variant", args: []string{path}},
		{name: "unknown variant", args: []string{"--variant", "weekly", path}, is: planingest.ErrInvalidOptions},
		{name: "year without month", args: []string{"--variant", "shovel", "--year", "2024", path}},
		{name: "bad month", args: []string{"--variant", "shovel", "--year", "2024", "--month", "13", path}, is: planingest.ErrInvalidOptions},
		{name: "bad format", args: []string{"--variant", "shovel", "--format", "csv", path}},
		{name: "missing file", args: []string{"--variant", "shovel", filepath.Join(dir, "nope.xlsx")}, is: planingest.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestRun_Trace(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := shovelFile(t, dir, "shovel.xlsx")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--variant", "shovel", "--trace", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stderr.String(), `"Name": "planingest.Ingest"`)
	assert.Contains(t, stderr.String(), `"Name": "planingest.Open"`)
}
