// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quotassign assigns customers to named groups so that every group
// receives exactly the declared quota of each customer type.
package quotassign

import "math/rand/v2"

// Column names of the input and output tables.
const (
	ColCustomerID     = "CustomerID"
	ColTypeOfCustomer = "TypeOfCustomer"
	ColGroupName      = "GroupName"
	ColSize           = "Size"
	ColGroup          = "Group"
)

// Default sheet names.
const (
	SheetCustomers = "Customers"
	SheetGroups    = "GroupName"
	SheetQuotas    = "GroupSize"
	SheetAssigned  = "Assigned"
)

// Table is a raw sheet: a header row and the data rows below it.
// Every row has exactly len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

type Customer struct {
	ID   string
	Type string
	// Row holds every cell of the source row, aligned with Input.Columns.
	Row []string
}

type Group struct {
	Name string
}

type QuotaEntry struct {
	GroupName string
	Type      string
	Size      int
}

type AssignedCustomer struct {
	Customer
	Group string
}

// Input is the validated content of the three source tables.
type Input struct {
	// Columns of the Customers table, in sheet order.
	Columns   []string
	Customers []Customer
	Groups    []Group // canonical order
	Quotas    []QuotaEntry
}

type Assigner interface {
	Assign(in *Input, r *rand.Rand) ([]AssignedCustomer, error)
}
