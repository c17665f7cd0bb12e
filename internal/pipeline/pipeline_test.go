// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/someonegg/quotassign"
	"github.com/someonegg/quotassign/internal/config"
	"github.com/someonegg/quotassign/internal/logger"
)

// writeInput saves a workbook with n customers of type A and n of type B,
// split evenly over groups G1 and G2.
func writeInput(t *testing.T, n int, sizeB int) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Customers"))
	for _, name := range []string{"GroupName", "GroupSize"} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}

	set := func(sheet string, row int, values ...interface{}) {
		axis, err := excelize.CoordinatesToCellName(1, row)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &values))
	}

	set("Customers", 1, "CustomerID", "TypeOfCustomer", "Name")
	for i := 0; i < 2*n; i++ {
		typ := "A"
		if i%2 == 1 {
			typ = "B"
		}
		set("Customers", i+2, fmt.Sprintf("C%02d", i), typ, fmt.Sprintf("customer %d", i))
	}

	set("GroupName", 1, "GroupName")
	set("GroupName", 2, "G1")
	set("GroupName", 3, "G2")

	set("GroupSize", 1, "GroupName", "TypeOfCustomer", "Size")
	set("GroupSize", 2, "G1", "A", n/2)
	set("GroupSize", 3, "G2", "A", n-n/2)
	set("GroupSize", 4, "G1", "B", sizeB)
	set("GroupSize", 5, "G2", "B", n-n/2)

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func readSheet(t *testing.T, path, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func options(seed int64) Options {
	opts := OptionsFrom(config.DefaultConfig())
	opts.Seed = &seed
	return opts
}

func TestRunFile(t *testing.T) {
	path := writeInput(t, 10, 5)

	res, err := New(logger.Nop(), options(42)).RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Assigned", res.Sheet)
	assert.Equal(t, int64(42), res.Seed)
	assert.Len(t, res.Assigned, 20)
	assert.Equal(t, map[string]map[string]int{
		"A": {"G1": 5, "G2": 5},
		"B": {"G1": 5, "G2": 5},
	}, res.Counts)

	rows := readSheet(t, path, "Assigned")
	require.Len(t, rows, 21)
	assert.Equal(t, []string{"CustomerID", "TypeOfCustomer", "Name", "Group"}, rows[0])

	var ids []string
	for _, row := range rows[1:] {
		ids = append(ids, row[0])
		assert.Contains(t, row[2], "customer ")
	}
	sort.Strings(ids)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("C%02d", i), id)
	}
}

func TestRunFile_Deterministic(t *testing.T) {
	first, second := writeInput(t, 10, 5), writeInput(t, 10, 5)

	_, err := New(logger.Nop(), options(3)).RunFile(first)
	require.NoError(t, err)
	_, err = New(logger.Nop(), options(3)).RunFile(second)
	require.NoError(t, err)

	assert.Equal(t, readSheet(t, first, "Assigned"), readSheet(t, second, "Assigned"))
}

func TestRunFile_RerunReplaces(t *testing.T) {
	path := writeInput(t, 4, 2)

	for seed := int64(1); seed <= 2; seed++ {
		_, err := New(logger.Nop(), options(seed)).RunFile(path)
		require.NoError(t, err)
	}

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Customers", "GroupName", "GroupSize", "Assigned"}, f.GetSheetList())
}

func TestRunFile_ValidationFailureLeavesFile(t *testing.T) {
	path := writeInput(t, 10, 6)

	_, err := New(logger.Nop(), options(1)).RunFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, quotassign.ErrData))

	var qe *quotassign.QuotaMismatchError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, []quotassign.TypeMismatch{{Type: "B", Required: 11, Actual: 10}}, qe.Mismatches)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Assigned")
}

func TestRunFile_DryRun(t *testing.T) {
	path := writeInput(t, 4, 2)

	opts := options(1)
	opts.DryRun = true
	res, err := New(logger.Nop(), opts).RunFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Assigned, 8)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Assigned")
}

func TestRunFile_CustomSheets(t *testing.T) {
	path := writeInput(t, 4, 2)

	opts := options(1)
	opts.Sheets.Output = "Result"
	_, err := New(logger.Nop(), opts).RunFile(path)
	require.NoError(t, err)
	assert.Len(t, readSheet(t, path, "Result"), 9)

	opts.Sheets.Groups = "Groups"
	_, err = New(logger.Nop(), opts).RunFile(path)
	var te *quotassign.TableReadError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Groups", te.Table)
}

func TestRunFile_Unseeded(t *testing.T) {
	path := writeInput(t, 4, 2)

	opts := options(0)
	opts.Seed = nil
	res, err := New(logger.Nop(), opts).RunFile(path)
	require.NoError(t, err)

	// The reported seed reproduces the run.
	again, err := New(logger.Nop(), options(res.Seed)).RunFile(writeInput(t, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, res.Assigned, again.Assigned)
}
