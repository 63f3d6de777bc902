package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"tabstat/domain/core"
	"tabstat/internal"
)

const (
	fileTypeCSV  = "csv"
	fileTypeXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader reads Excel workbooks and CSV files into a RawTable
type DataReader struct {
	filePath string
	ext      string
	fileType string // "xlsx", "csv" or "" when unsupported
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	return &DataReader{
		filePath: filePath,
		ext:      ext,
		fileType: fileTypeFor(ext),
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// WithSheet selects a workbook sheet other than the first
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// SupportedExtensions lists the file extensions the reader accepts
func SupportedExtensions() []string {
	return []string{".csv", ".xlsx", ".xlsm", ".xltx", ".xltm"}
}

func fileTypeFor(ext string) string {
	switch ext {
	case ".csv":
		return fileTypeCSV
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return fileTypeXLSX
	}
	// Legacy .xls (BIFF) workbooks are not readable by excelize
	return ""
}

// ReadData reads the file into a RawTable with normalized headers
func (r *DataReader) ReadData(ctx context.Context) (*RawTable, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, core.NewFileNotFoundError(r.filePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case fileTypeCSV:
		rows, err = r.readCSVData()
	case fileTypeXLSX:
		rows, err = r.readExcelData()
	default:
		return nil, core.NewUnsupportedFormatError(r.ext)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.processRows(rows)
}

// readExcelData reads every row of the selected sheet
func (r *DataReader) readExcelData() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrMissingHeader
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Info("Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// readCSVData reads a CSV file. Content that is not valid UTF-8 is decoded
// as Latin-1 instead.
func (r *DataReader) readCSVData() ([][]string, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		r.logger.Warn("%s is not valid UTF-8, decoding as Latin-1", filepath.Base(r.filePath))
		raw, err = charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSV file as Latin-1: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Info("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows splits off the header and pads or truncates every data row
// to the header width.
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	if len(rows) == 0 {
		return nil, core.ErrMissingHeader
	}

	headers := normalizeHeaders(rows[0])
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		data = append(data, cells)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(data))
	return &RawTable{Headers: headers, Rows: data}, nil
}

// normalizeHeaders trims names, labels blank headers "Unnamed: i" and
// suffixes repeats as "NAME.1", "NAME.2".
func normalizeHeaders(row []string) []string {
	headers := make([]string, len(row))
	used := make(map[string]bool, len(row))
	repeats := make(map[string]int)
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			repeats[h]++
			name = fmt.Sprintf("%s.%d", h, repeats[h])
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}
