// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quotassign

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	customersRequired = []string{ColCustomerID, ColTypeOfCustomer}
	groupsRequired    = []string{ColGroupName}
	quotasRequired    = []string{ColGroupName, ColTypeOfCustomer, ColSize}
)

// Validate checks the three raw tables and returns their cleaned content.
//
// Checks run in a fixed order and the first failing one is returned: required
// columns, non-empty tables, blank key fields, negative sizes, undeclared
// group references and finally the per-type quota totals.
func Validate(customers, groups, quotas *Table) (*Input, error) {
	if err := requireColumns(customers, customersRequired); err != nil {
		return nil, err
	}
	if err := requireColumns(groups, groupsRequired); err != nil {
		return nil, err
	}
	if err := requireColumns(quotas, quotasRequired); err != nil {
		return nil, err
	}

	cRows := dropBlankRows(customers.Rows)
	gRows := dropBlankRows(groups.Rows)
	qRows := dropBlankRows(quotas.Rows)

	for _, t := range []struct {
		table *Table
		rows  [][]string
	}{{customers, cRows}, {groups, gRows}, {quotas, qRows}} {
		if len(t.rows) == 0 {
			return nil, &DataError{Table: t.table.Name, Reason: "has no data"}
		}
	}

	in := &Input{
		Columns: append([]string(nil), customers.Columns...),
	}

	idCol, typeCol := customers.Index(ColCustomerID), customers.Index(ColTypeOfCustomer)
	for _, row := range cRows {
		c := Customer{Row: make([]string, len(customers.Columns))}
		copy(c.Row, row)
		c.ID = strings.TrimSpace(cell(row, idCol))
		c.Type = strings.TrimSpace(cell(row, typeCol))
		c.Row[idCol], c.Row[typeCol] = c.ID, c.Type
		if c.ID == "" || c.Type == "" {
			return nil, &DataError{Table: customers.Name, Reason: "has blank CustomerID/TypeOfCustomer"}
		}
		in.Customers = append(in.Customers, c)
	}

	declared := make(map[string]bool)
	nameCol := groups.Index(ColGroupName)
	for _, row := range gRows {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			return nil, &DataError{Table: groups.Name, Reason: "has blank GroupName"}
		}
		if declared[name] {
			continue
		}
		declared[name] = true
		in.Groups = append(in.Groups, Group{Name: name})
	}

	qNameCol, qTypeCol, qSizeCol := quotas.Index(ColGroupName), quotas.Index(ColTypeOfCustomer), quotas.Index(ColSize)
	for _, row := range qRows {
		q := QuotaEntry{
			GroupName: strings.TrimSpace(cell(row, qNameCol)),
			Type:      strings.TrimSpace(cell(row, qTypeCol)),
			Size:      parseSize(cell(row, qSizeCol)),
		}
		if q.GroupName == "" || q.Type == "" {
			return nil, &DataError{Table: quotas.Name, Reason: "has blank GroupName/TypeOfCustomer"}
		}
		if q.Size < 0 {
			return nil, &DataError{Table: quotas.Name, Reason: "has negative Size for group '" + q.GroupName + "'"}
		}
		if q.Size > len(in.Customers) {
			return nil, &DataError{Table: quotas.Name, Reason: fmt.Sprintf(
				"has Size %d for group '%s' exceeding the %d customers", q.Size, q.GroupName, len(in.Customers))}
		}
		in.Quotas = append(in.Quotas, q)
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, q := range in.Quotas {
		if !declared[q.GroupName] && !seen[q.GroupName] {
			seen[q.GroupName] = true
			unknown = append(unknown, q.GroupName)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownGroupsError{Table: quotas.Name, Names: unknown}
	}

	if mm := mismatches(in); len(mm) > 0 {
		return nil, &QuotaMismatchError{Mismatches: mm}
	}

	return in, nil
}

func requireColumns(t *Table, required []string) error {
	var missing []string
	for _, col := range required {
		if t.Index(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func dropBlankRows(rows [][]string) [][]string {
	var kept [][]string
	for _, row := range rows {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}

// parseSize coerces a cell to an integer. Anything non-numeric counts as zero,
// fractions are truncated.
func parseSize(cell string) int {
	s := strings.TrimSpace(cell)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// mismatches compares required and actual counts over the union of types,
// reporting each type once in sorted order.
func mismatches(in *Input) []TypeMismatch {
	required := make(map[string]int)
	for _, q := range in.Quotas {
		required[q.Type] += q.Size
	}
	actual := make(map[string]int)
	for _, c := range in.Customers {
		actual[c.Type]++
	}

	types := make([]string, 0, len(required)+len(actual))
	for t := range required {
		types = append(types, t)
	}
	for t := range actual {
		if _, ok := required[t]; !ok {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	var mm []TypeMismatch
	for _, t := range types {
		if required[t] != actual[t] {
			mm = append(mm, TypeMismatch{Type: t, Required: required[t], Actual: actual[t]})
		}
	}
	return mm
}
