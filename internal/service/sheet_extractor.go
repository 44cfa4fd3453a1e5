package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeOLE  = "application/x-ole-storage"
)

type sheet struct {
	Name string
	Rows [][]string
}

// workbook is the common model every tabular decoder produces.
type workbook struct {
	Sheets []sheet
}

// CSVExtractor reads a comma-separated file as a one-sheet workbook.
type CSVExtractor struct {
	logger *zap.Logger
}

func NewCSVExtractor(logger *zap.Logger) *CSVExtractor {
	return &CSVExtractor{logger: logger}
}

func (e *CSVExtractor) ExtractText(_ context.Context, artifact *StagedArtifact) (text string, err error) {
	defer recoverParse(StageCSV, &text, &err)

	wb, err := decodeCSV(artifact.Data)
	if err != nil {
		return "", &ParseError{Stage: StageCSV, Err: err}
	}
	if len(wb.Sheets) == 0 {
		return "", &ParseError{Stage: StageCSV, Err: errors.New("No sheets found in CSV file")}
	}

	text, err = serializeSheet(wb.Sheets[0])
	if err != nil {
		return "", &ParseError{Stage: StageCSV, Err: err}
	}

	e.logger.Info("CSV parsed", zap.String("file", artifact.FileName), zap.Int("rows", len(wb.Sheets[0].Rows)))
	return text, nil
}

// SpreadsheetExtractor reads .xlsx and .xls workbooks. The container is
// sniffed from content so a mislabelled file still reaches the right decoder.
type SpreadsheetExtractor struct {
	logger *zap.Logger
}

func NewSpreadsheetExtractor(logger *zap.Logger) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{logger: logger}
}

func (e *SpreadsheetExtractor) ExtractText(_ context.Context, artifact *StagedArtifact) (text string, err error) {
	defer recoverParse(StageExcel, &text, &err)

	detected := mimetype.Detect(artifact.Data)
	wb, err := decodeWorkbook(artifact.Data, detected)
	if err != nil {
		return "", &ParseError{Stage: StageExcel, Err: err}
	}
	if len(wb.Sheets) == 0 {
		return "", &ParseError{Stage: StageExcel, Err: errors.New("No sheets found in Excel file")}
	}

	first := wb.Sheets[0]
	if first.Rows == nil {
		return "", &ParseError{Stage: StageExcel, Err: errors.New("Could not access first sheet in Excel file")}
	}

	text, err = serializeSheet(first)
	if err != nil {
		return "", &ParseError{Stage: StageExcel, Err: err}
	}

	e.logger.Info("Excel parsed",
		zap.String("file", artifact.FileName),
		zap.String("mime", detected.String()),
		zap.String("sheet", first.Name),
		zap.Int("rows", len(first.Rows)),
	)
	return text, nil
}

func decodeWorkbook(data []byte, detected *mimetype.MIME) (*workbook, error) {
	switch {
	case detected.Is(mimeXLS):
		return decodeXLS(data)
	case detected.Is(mimeOLE):
		// BIFF files written without the Excel class ID are only known as
		// OLE containers. Encrypted OOXML workbooks share the container.
		wb, err := decodeXLS(data)
		if err == nil {
			return wb, nil
		}
		if wb, xlsxErr := decodeXLSX(data); xlsxErr == nil {
			return wb, nil
		}
		return nil, err
	case detected.Is(mimeXLSX), detected.Is("application/zip"):
		return decodeXLSX(data)
	case strings.HasPrefix(detected.String(), "text/"):
		return decodeCSV(data)
	default:
		// Unrecognized containers go to the OOXML reader, whose error is the
		// most descriptive.
		return decodeXLSX(data)
	}
}

func decodeCSV(data []byte) (*workbook, error) {
	// BOMOverride honours UTF-8 and UTF-16 byte order marks.
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return &workbook{}, nil
	}
	return &workbook{Sheets: []sheet{{Name: "Sheet1", Rows: rows}}}, nil
}

func decodeXLSX(data []byte) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return &workbook{}, nil
	}

	// Only the first sheet is ever serialized.
	rows, err := f.GetRows(names[0])
	if err != nil {
		return nil, fmt.Errorf("Could not access first sheet in Excel file: %w", err)
	}
	if rows == nil {
		rows = [][]string{}
	}

	wb := &workbook{Sheets: []sheet{{Name: names[0], Rows: rows}}}
	for _, name := range names[1:] {
		wb.Sheets = append(wb.Sheets, sheet{Name: name})
	}
	return wb, nil
}

func decodeXLS(data []byte) (*workbook, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, excelize.ErrWorkbookFileFormat
	}
	if book.NumSheets() == 0 {
		return &workbook{}, nil
	}

	ws := book.GetSheet(0)
	if ws == nil {
		return &workbook{Sheets: []sheet{{}}}, nil
	}

	rows := [][]string{}
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, []string{})
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}

	return &workbook{Sheets: []sheet{{Name: ws.Name, Rows: trimTrailingEmptyRows(rows)}}}, nil
}

// serializeSheet writes rows as CSV, padding short rows to the widest row.
func serializeSheet(s sheet) (string, error) {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range s.Rows {
		record := row
		if len(record) < width {
			record = make([]string, width)
			copy(record, row)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	for len(rows) > 0 {
		last := rows[len(rows)-1]
		if strings.TrimSpace(strings.Join(last, "")) != "" {
			break
		}
		rows = rows[:len(rows)-1]
	}
	return rows
}

func recoverParse(stage Stage, text *string, err *error) {
	if r := recover(); r != nil {
		*text = ""
		*err = &ParseError{Stage: stage, Err: fmt.Errorf("parser panic: %v", r)}
	}
}
