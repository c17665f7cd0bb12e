// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workbook reads the input tables from an xlsx artifact and writes
// the assignment result back into it.
package workbook

import (
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/someonegg/quotassign"
)

type Workbook struct {
	f *excelize.File
}

// Open opens the artifact at path. Save writes it back to the same path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &quotassign.TableReadError{Err: err}
	}
	return &Workbook{f: f}, nil
}

func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &quotassign.TableReadError{Err: err}
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// Table reads a sheet by name. The first row is the header; trailing cells
// beyond the header are dropped and short rows are padded with blanks.
func (w *Workbook) Table(name string) (*quotassign.Table, error) {
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &quotassign.TableReadError{Table: name, Err: err}
	}

	t := &quotassign.Table{Name: name}
	if len(rows) == 0 {
		return t, nil
	}

	t.Columns = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Columns[i] = strings.TrimSpace(h)
	}
	for _, row := range rows[1:] {
		cells := make([]string, len(t.Columns))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// Tables reads the named sheets in order, failing on the first unreadable one.
func (w *Workbook) Tables(names ...string) ([]*quotassign.Table, error) {
	tables := make([]*quotassign.Table, len(names))
	for i, name := range names {
		t, err := w.Table(name)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}
	return tables, nil
}

// WriteAssigned writes the result as a new sheet, replacing any sheet of the
// same name. The header is the customer columns followed by Group, unless the
// customers already carry a Group column, which is then overwritten in place.
func (w *Workbook) WriteAssigned(sheet string, columns []string, assigned []quotassign.AssignedCustomer) error {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx != -1 {
		if err := w.f.DeleteSheet(sheet); err != nil {
			return err
		}
	}
	if _, err := w.f.NewSheet(sheet); err != nil {
		return err
	}

	header := append([]string(nil), columns...)
	groupCol := indexOf(header, quotassign.ColGroup)
	if groupCol < 0 {
		groupCol = len(header)
		header = append(header, quotassign.ColGroup)
	}
	// Group labels stay text; every other column goes through toCells, which
	// keeps IDs like 00123 as text and writes 1001 as a number.
	keep := map[int]bool{groupCol: true}

	if err := w.setRow(sheet, 1, toCells(header, nil)); err != nil {
		return err
	}
	for i, a := range assigned {
		cells := make([]string, len(header))
		copy(cells, a.Row)
		cells[groupCol] = a.Group
		if err := w.setRow(sheet, i+2, toCells(cells, keep)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) setRow(sheet string, row int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, axis, &cells)
}

func (w *Workbook) Save() error {
	return w.f.Save()
}

func (w *Workbook) SaveAs(path string) error {
	return w.f.SaveAs(path)
}

func (w *Workbook) WriteTo(wr io.Writer) (int64, error) {
	return w.f.WriteTo(wr)
}

func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// toCells converts a row for writing. Cells whose text is the canonical form
// of a number are written as numbers, except in the columns marked as text.
// A nil text map writes every cell as text.
func toCells(row []string, text map[int]bool) []interface{} {
	cells := make([]interface{}, len(row))
	for i, s := range row {
		cells[i] = s
		if text == nil || text[i] || s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
			cells[i] = f
		}
	}
	return cells
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
