package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Applications"

// ExcelSink appends audit rows to a local workbook, creating it with a
// styled header on first use.
type ExcelSink struct {
	mu   sync.Mutex
	path string
}

func NewExcelSink(path string) *ExcelSink {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	return &ExcelSink{path: filepath.Clean(path)}
}

func (s *ExcelSink) Path() string {
	return s.path
}

func (s *ExcelSink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(excelSheet)
	if err != nil {
		return fmt.Errorf("read audit workbook: %w", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := toCells(event.Row())
	if err := f.SetSheetRow(excelSheet, cell, &values); err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save audit workbook: %w", err)
	}
	return nil
}

func (s *ExcelSink) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); err == nil {
		f, err := excelize.OpenFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("open audit workbook: %w", err)
		}
		return f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat audit workbook: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		f.Close()
		return nil, err
	}
	header := toCells(Header)
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(excelSheet, "A1", "J1", style); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(excelSheet, "A", "J", 20); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
