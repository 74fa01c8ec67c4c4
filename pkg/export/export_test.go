package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Date", "Role", "Employee"},
		Rows: []map[string]string{
			{"Date": "2025-10-06", "Role": "D1", "Employee": "Lisa Dixon"},
			{"Date": "2025-10-06", "Role": "N3", "Employee": "Nicole Dempster"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date,Role,Employee")
	assert.Contains(t, string(data), "2025-10-06,D1,Lisa Dixon")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleDataset(), "Rota 2025-10-06")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExcelExporterRender(t *testing.T) {
	sheets := []Sheet{
		{Name: "Assignments", Data: sampleDataset()},
		{Name: "Coverage Violations", Data: Dataset{Headers: []string{"Date", "Time", "Required", "Actual"}}},
	}
	data, err := NewExcelExporter().Render(sheets)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestExcelExporterRequiresSheets(t *testing.T) {
	_, err := NewExcelExporter().Render(nil)
	assert.Error(t, err)
}
