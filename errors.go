// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quotassign

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by this module matches exactly one
// of them with errors.Is.
var (
	ErrTableRead = errors.New("table read failed")
	ErrSchema    = errors.New("schema error")
	ErrData      = errors.New("data error")
	ErrInternal  = errors.New("internal consistency failure")
)

// TableReadError reports a named table that is absent or unreadable. An
// empty Table means the artifact itself could not be opened.
type TableReadError struct {
	Table string
	Err   error
}

func (e *TableReadError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("cannot read workbook: %v", e.Err)
	}
	return fmt.Sprintf("cannot read sheet '%s': %v", e.Table, e.Err)
}

func (e *TableReadError) Unwrap() error { return e.Err }

func (e *TableReadError) Is(target error) bool { return target == ErrTableRead }

// SchemaError lists the required columns a table lacks.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %s is missing required column(s): %s",
		e.Table, quoteJoin(e.Missing))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

type DataError struct {
	Table  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("sheet %s %s", e.Table, e.Reason)
}

func (e *DataError) Is(target error) bool { return target == ErrData }

// UnknownGroupsError reports quota rows naming groups that are not declared.
type UnknownGroupsError struct {
	Table string
	Names []string // sorted
}

func (e *UnknownGroupsError) Error() string {
	return fmt.Sprintf("sheet %s references group name(s) not declared in the group list: %s",
		e.Table, quoteJoin(e.Names))
}

func (e *UnknownGroupsError) Is(target error) bool { return target == ErrData }

type TypeMismatch struct {
	Type     string
	Required int
	Actual   int
}

// QuotaMismatchError reports every customer type whose quota total differs
// from its customer count.
type QuotaMismatchError struct {
	Mismatches []TypeMismatch
}

func (e *QuotaMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("per-type totals do not match between customers and quotas:")
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, "\n- type '%s': required %d, actual %d", m.Type, m.Required, m.Actual)
	}
	return b.String()
}

func (e *QuotaMismatchError) Is(target error) bool { return target == ErrData }

// LabelCountError is raised by the assigner when a type's label list does not
// cover its customers. Validated input never triggers it.
type LabelCountError struct {
	Type      string
	Labels    int
	Customers int
}

func (e *LabelCountError) Error() string {
	return fmt.Sprintf("quota of type '%s' does not match its customers: labels=%d customers=%d",
		e.Type, e.Labels, e.Customers)
}

func (e *LabelCountError) Is(target error) bool { return target == ErrInternal }

func quoteJoin(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = "'" + s + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}
