package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/crosti/buyerform/model"
	"github.com/crosti/buyerform/pkg/logger"
)

// Upload formats the ingestion pipeline recognises.
type FileFormat string

const (
	FormatCSV  FileFormat = "csv"
	FormatXLSX FileFormat = "xlsx"
	FormatPDF  FileFormat = "pdf"
)

const processedPrefix = "processed_"

// DefaultUnzipLimit caps the uncompressed size of an uploaded workbook.
const DefaultUnzipLimit int64 = 256 << 20

// xmlPartLimit is the largest single workbook part read into memory.
const xmlPartLimit int64 = 16 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat dispatches on the file suffix, case-insensitively.
func DetectFormat(filename string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, ErrPDFNotSupported
	default:
		return "", ErrUnsupportedFileType
	}
}

// ProcessedFilename names the download returned for an upload.
func ProcessedFilename(original string) string {
	return processedPrefix + filepath.Base(original)
}

// IngestResult is an augmented workbook ready to download.
type IngestResult struct {
	Filename string
	Data     []byte
	Rows     int
}

// Ingestor converts uploaded CSV/XLSX files into workbooks with the
// enrichment placeholder columns appended.
type Ingestor struct {
	scratch    ScratchStore
	timeout    time.Duration
	unzipLimit int64
}

// IngestOption configures an Ingestor.
type IngestOption func(*Ingestor)

// WithUnzipLimit bounds the uncompressed size of xlsx uploads. n <= 0 keeps
// DefaultUnzipLimit.
func WithUnzipLimit(n int64) IngestOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.unzipLimit = n
		}
	}
}

// NewIngestor returns an Ingestor. scratch may be nil; timeout <= 0 disables
// the parse deadline.
func NewIngestor(scratch ScratchStore, timeout time.Duration, opts ...IngestOption) *Ingestor {
	i := &Ingestor{scratch: scratch, timeout: timeout, unzipLimit: DefaultUnzipLimit}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Process runs the full pipeline for one upload.
func (i *Ingestor) Process(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	i.keepScratchCopy(ctx, filename, data)

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	var table *model.IngestedTable
	switch format {
	case FormatCSV:
		table, err = ParseCSV(ctx, data)
	case FormatXLSX:
		table, err = ParseXLSX(ctx, data, i.unzipLimit)
	}
	if err != nil {
		return nil, err
	}

	Augment(table)

	out, err := EncodeTable(ProcessedSheet, table)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "upload processed", "filename", filename, "format", format, "rows", len(table.Rows), "columns", len(table.Columns))

	return &IngestResult{
		Filename: ProcessedFilename(filename),
		Data:     out,
		Rows:     len(table.Rows),
	}, nil
}

// keepScratchCopy stores the raw bytes. A failed write is logged and does not
// fail the request.
func (i *Ingestor) keepScratchCopy(ctx context.Context, filename string, data []byte) {
	if i.scratch == nil {
		return
	}
	location, err := i.scratch.Save(ctx, filename, data)
	if err != nil {
		logger.Warn(ctx, "failed to keep scratch copy of upload", "filename", filename, "error", err)
		return
	}
	logger.Debug(ctx, "scratch copy stored", slog.String("location", location))
}

// Augment appends the enrichment columns to every row, all empty.
func Augment(table *model.IngestedTable) {
	for _, c := range model.EnrichmentColumns {
		table.AddColumn(c)
	}
	for _, row := range table.Rows {
		for _, c := range model.EnrichmentColumns {
			row[c] = ""
		}
	}
}

// ParseCSV reads delimited text with a header row. Blank lines are skipped.
func ParseCSV(ctx context.Context, data []byte) (*model.IngestedTable, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &model.IngestedTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %v", model.ErrParse, err)
	}

	table := &model.IngestedTable{Columns: headerNames(header)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrParse, err)
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", model.ErrParse, err)
		}
		table.Rows = append(table.Rows, toRow(table.Columns, record))
	}

	return table, nil
}

// ParseXLSX reads the first sheet of a workbook. The first row is the header;
// rows with no values are skipped. Workbooks that unzip beyond unzipLimit
// bytes are rejected; unzipLimit <= 0 means DefaultUnzipLimit.
func ParseXLSX(ctx context.Context, data []byte, unzipLimit int64) (*model.IngestedTable, error) {
	f, err := openXLSX(ctx, data, unzipLimit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: no worksheet found", model.ErrParse)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", model.ErrParse, err)
	}
	defer func() { _ = rows.Close() }()

	table := &model.IngestedTable{}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrParse, err)
		}

		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: xlsx: %v", model.ErrParse, err)
		}
		if table.Columns == nil {
			if !isBlankRecord(cells) {
				table.Columns = headerNames(cells)
			}
			continue
		}
		if isBlankRecord(cells) {
			continue
		}
		table.Rows = append(table.Rows, toRow(table.Columns, cells))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: xlsx: %v", model.ErrParse, err)
	}

	return table, nil
}

// openXLSX unzips data under ctx. A workbook that finishes opening after
// ctx is done is closed in the background.
func openXLSX(ctx context.Context, data []byte, unzipLimit int64) (*excelize.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrParse, err)
	}
	if unzipLimit <= 0 {
		unzipLimit = DefaultUnzipLimit
	}
	opts := excelize.Options{
		UnzipSizeLimit:    unzipLimit,
		UnzipXMLSizeLimit: min(unzipLimit, xmlPartLimit),
	}

	type opened struct {
		f   *excelize.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := excelize.OpenReader(bytes.NewReader(data), opts)
		ch <- opened{f: f, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if o := <-ch; o.f != nil {
				_ = o.f.Close()
			}
		}()
		return nil, fmt.Errorf("%w: %w", model.ErrParse, ctx.Err())
	case o := <-ch:
		if o.err != nil {
			return nil, fmt.Errorf("%w: xlsx: %v", model.ErrParse, o.err)
		}
		return o.f, nil
	}
}

// headerNames fills blank headers as __EMPTY, __EMPTY_1, ... and suffixes
// repeated names with _1, _2, ... so every column is addressable.
func headerNames(raw []string) []string {
	seen := make(map[string]int, len(raw))
	names := make([]string, len(raw))
	empty := 0
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "__EMPTY"
			if empty > 0 {
				name += "_" + strconv.Itoa(empty)
			}
			empty++
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

// toRow keys a record by column. Cells beyond the header are dropped.
func toRow(columns, record []string) model.IngestedRow {
	row := make(model.IngestedRow, len(columns)+len(model.EnrichmentColumns))
	for i, c := range columns {
		if i < len(record) {
			row[c] = record[i]
		}
	}
	return row
}

func isBlankRecord(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
