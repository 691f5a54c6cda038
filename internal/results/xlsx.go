package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

const sheetName = "risultati"

// XLSXSink appends rows to a workbook sheet.
type XLSXSink struct {
	path string
	mu   sync.Mutex
}

func NewXLSXSink(path string) *XLSXSink { return &XLSXSink{path: path} }

func (s *XLSXSink) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
			if _, err := f.NewSheet(sheetName); err != nil {
				f.Close()
				return nil, err
			}
		}
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	f = excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (s *XLSXSink) Append(_ context.Context, r Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("results: %w", err)
	}
	f, err := s.open()
	if err != nil {
		return fmt.Errorf("results: open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("results: %w", err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, 1, Header); err != nil {
			return err
		}
		next = 2
	}
	if err := setRow(f, next, r.record()); err != nil {
		return err
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("results: save %s: %w", s.path, err)
	}
	return nil
}

func (s *XLSXSink) List(_ context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	out := []Row{}
	for i, rec := range rows {
		if i == 0 {
			continue
		}
		r, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("results: row %d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("results: %w", err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("results: %w", err)
	}
	return nil
}
