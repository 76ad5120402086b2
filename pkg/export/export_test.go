package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Asistencia 1° Año A",
		Columns: []string{"fecha", "presentes", "ausentes"},
		Rows: [][]string{
			{"2024-03-11", "2", "1"},
			{"2024-03-12", "3"},
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := Render(FormatCSV, sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "fecha,presentes,ausentes\n2024-03-11,2,1\n2024-03-12,3,\n", string(out))
}

func TestRenderPDF(t *testing.T) {
	out, err := Render(FormatPDF, sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := Render(Format("xlsx"), sampleTable())
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := Render(FormatCSV, Table{})
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
