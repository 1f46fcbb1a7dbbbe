package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crosti/buyerform/model"
)

type recordingScratch struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (s *recordingScratch) Save(_ context.Context, filename string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, filename)
	return "mem://" + filename, nil
}

func xlsxFixture(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]any, len(r))
		for j, v := range r {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected FileFormat
		err      error
	}{
		{"leads.csv", FormatCSV, nil},
		{"LEADS.CSV", FormatCSV, nil},
		{"leads.xlsx", FormatXLSX, nil},
		{"Leads.XLSX", FormatXLSX, nil},
		{"leads.pdf", FormatPDF, ErrPDFNotSupported},
		{"leads.xls", "", ErrUnsupportedFileType},
		{"leads.txt", "", ErrUnsupportedFileType},
		{"leads", "", ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			assert.Equal(t, tt.expected, format)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
		})
	}
}

func TestProcessedFilename(t *testing.T) {
	assert.Equal(t, "processed_leads.csv", ProcessedFilename("leads.csv"))
	assert.Equal(t, "processed_leads.xlsx", ProcessedFilename("/tmp/x/leads.xlsx"))
}

func TestParseCSV(t *testing.T) {
	data := "\xEF\xBB\xBFname,city\nAroha,Auckland\n\n\"Smith, J\",\"Wellington\"\n"

	table, err := ParseCSV(context.Background(), []byte(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "city"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Aroha", table.Rows[0]["name"])
	assert.Equal(t, "Smith, J", table.Rows[1]["name"])
	assert.Equal(t, "Wellington", table.Rows[1]["city"])
}

func TestParseCSVRaggedRows(t *testing.T) {
	table, err := ParseCSV(context.Background(), []byte("a,b\n1\n2,3,4\n"))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0]["a"])
	assert.Equal(t, "", table.Rows[0]["b"])
	assert.Equal(t, model.IngestedRow{"a": "2", "b": "3"}, table.Rows[1])
}

func TestParseCSVEmpty(t *testing.T) {
	table, err := ParseCSV(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestParseCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseCSV(ctx, []byte("a,b\n1,2\n"))
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestParseXLSX(t *testing.T) {
	data := xlsxFixture(t, [][]string{
		{"company", "", "company"},
		{"Kai Ltd", "x", "dup"},
		{"", "", ""},
		{"Tui Co", "y", "dup2"},
	})

	table, err := ParseXLSX(context.Background(), data, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"company", "__EMPTY", "company_1"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, model.IngestedRow{"company": "Kai Ltd", "__EMPTY": "x", "company_1": "dup"}, table.Rows[0])
	assert.Equal(t, "Tui Co", table.Rows[1]["company"])
}

func TestParseXLSXCorrupt(t *testing.T) {
	_, err := ParseXLSX(context.Background(), []byte("not a workbook"), 0)
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestParseXLSXUnzipLimit(t *testing.T) {
	data := xlsxFixture(t, [][]string{{"company"}, {"Kai Ltd"}})

	_, err := ParseXLSX(context.Background(), data, 1024)
	assert.ErrorIs(t, err, model.ErrParse)

	table, err := ParseXLSX(context.Background(), data, DefaultUnzipLimit)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestParseXLSXCancelled(t *testing.T) {
	data := xlsxFixture(t, [][]string{{"company"}, {"Kai Ltd"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseXLSX(ctx, data, 0)
	assert.ErrorIs(t, err, model.ErrParse)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestorUnzipLimit(t *testing.T) {
	data := xlsxFixture(t, [][]string{{"company"}, {"Kai Ltd"}})

	_, err := NewIngestor(nil, 0, WithUnzipLimit(1024)).Process(context.Background(), "leads.xlsx", data)
	assert.ErrorIs(t, err, model.ErrParse)

	result, err := NewIngestor(nil, 0, WithUnzipLimit(0)).Process(context.Background(), "leads.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{" a ", "", "a", "", "b"})
	assert.Equal(t, []string{"a", "__EMPTY", "a_1", "__EMPTY_1", "b"}, got)
}

func TestAugment(t *testing.T) {
	table := &model.IngestedTable{
		Columns: []string{"a", "emails"},
		Rows:    []model.IngestedRow{{"a": "1", "emails": "x@example.com"}},
	}

	Augment(table)

	assert.Equal(t, []string{"a", "emails", "director", "shareholder", "phone_numbers"}, table.Columns)
	for _, c := range model.EnrichmentColumns {
		v, ok := table.Rows[0][c]
		assert.True(t, ok, c)
		assert.Empty(t, v, c)
	}
}

func TestIngestorProcessCSV(t *testing.T) {
	scratch := &recordingScratch{}
	ing := NewIngestor(scratch, time.Second)

	result, err := ing.Process(context.Background(), "leads.csv", []byte("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)

	assert.Equal(t, "processed_leads.csv", result.Filename)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, []string{"leads.csv"}, scratch.saved)

	f := openWorkbook(t, result.Data)
	assert.Equal(t, []string{ProcessedSheet}, f.GetSheetList())

	rows, err := f.GetRows(ProcessedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "director", "shareholder", "phone_numbers", "emails"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "4", rows[2][1])

	table, err := ParseXLSX(context.Background(), result.Data, 0)
	require.NoError(t, err)
	assert.Len(t, table.Columns, 6)
}

func TestIngestorProcessXLSX(t *testing.T) {
	data := xlsxFixture(t, [][]string{{"name"}, {"Kai Ltd"}})

	result, err := NewIngestor(nil, 0).Process(context.Background(), "Leads.XLSX", data)
	require.NoError(t, err)
	assert.Equal(t, "processed_Leads.XLSX", result.Filename)
	assert.Equal(t, 1, result.Rows)
}

func TestIngestorProcessRejectsBeforeScratch(t *testing.T) {
	scratch := &recordingScratch{}
	ing := NewIngestor(scratch, 0)

	_, err := ing.Process(context.Background(), "leads.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrPDFNotSupported)

	_, err = ing.Process(context.Background(), "leads.docx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	assert.Empty(t, scratch.saved)
}

func TestIngestorScratchFailureIsNotFatal(t *testing.T) {
	ing := NewIngestor(&recordingScratch{err: errors.New("disk full")}, 0)

	result, err := ing.Process(context.Background(), "leads.csv", []byte("a\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
}

func TestIngestorParseFailure(t *testing.T) {
	_, err := NewIngestor(nil, 0).Process(context.Background(), "leads.xlsx", []byte(strings.Repeat("z", 64)))
	assert.ErrorIs(t, err, model.ErrParse)
}
