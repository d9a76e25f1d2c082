// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package th12

import (
	"fmt"
	"sort"
)

// Rule selects how a header field's raw bytes are decoded.
type Rule int

const (
	// RuleHexDecimal renders the raw bytes as a hexadecimal digit string and
	// parses that string as a decimal integer (0x20 0x24 -> "2024" -> 2024).
	RuleHexDecimal Rule = iota
	// RuleText decodes the raw bytes verbatim as UTF-8 text.
	RuleText
)

func (r Rule) String() string {
	switch r {
	case RuleHexDecimal:
		return "hex-decimal"
	case RuleText:
		return "text"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}

// Header field names.
const (
	FieldYear  = "year"
	FieldMonth = "month"
	FieldDay   = "day"
	FieldHour  = "hour"
	FieldMin   = "min"
	FieldSec   = "sec"
	FieldUID   = "uid"
	FieldLot   = "lot"
	FieldSN    = "sn"
	FieldSID   = "sid"
)

// Field locates a single header field.
type Field struct {
	Name   string
	Offset int64
	Length int
	Rule   Rule
}

// Layout is the byte layout of a capture file: where each header field lives
// and where the segment data region begins.
type Layout struct {
	Fields    []Field
	DataStart int64
}

// DefaultLayout is the layout written by the recorder.
var DefaultLayout = Layout{
	Fields: []Field{
		{Name: FieldYear, Offset: 0x35, Length: 0x2, Rule: RuleHexDecimal},
		{Name: FieldMonth, Offset: 0x37, Length: 0x1, Rule: RuleHexDecimal},
		{Name: FieldDay, Offset: 0x38, Length: 0x1, Rule: RuleHexDecimal},
		{Name: FieldHour, Offset: 0x39, Length: 0x1, Rule: RuleHexDecimal},
		{Name: FieldMin, Offset: 0x3A, Length: 0x1, Rule: RuleHexDecimal},
		{Name: FieldSec, Offset: 0x3B, Length: 0x1, Rule: RuleHexDecimal},
		// 0x3C..0x354 is unidentified padding.
		{Name: FieldUID, Offset: 0x355, Length: 0x22, Rule: RuleText},
		{Name: FieldLot, Offset: 0x377, Length: 0xE, Rule: RuleText},
		{Name: FieldSN, Offset: 0x385, Length: 0xD, Rule: RuleText},
		// 0x392..0x394 is unidentified.
		{Name: FieldSID, Offset: 0x395, Length: 0xA, Rule: RuleText},
	},
	DataStart: 0xB55,
}

var fieldRules = map[string]Rule{
	FieldYear:  RuleHexDecimal,
	FieldMonth: RuleHexDecimal,
	FieldDay:   RuleHexDecimal,
	FieldHour:  RuleHexDecimal,
	FieldMin:   RuleHexDecimal,
	FieldSec:   RuleHexDecimal,
	FieldUID:   RuleText,
	FieldLot:   RuleText,
	FieldSN:    RuleText,
	FieldSID:   RuleText,
}

// Validate checks that every known field is present exactly once with the
// expected rule, that no two fields overlap and that the header region ends
// before the data region.
func (l Layout) Validate() error {
	seen := make(map[string]bool, len(l.Fields))
	for _, f := range l.Fields {
		rule, ok := fieldRules[f.Name]
		if !ok {
			return fmt.Errorf("unknown field %q", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		if f.Rule != rule {
			return fmt.Errorf("field %q must use rule %v, got %v", f.Name, rule, f.Rule)
		}
		if f.Offset < 0 || f.Length <= 0 {
			return fmt.Errorf("field %q has invalid region offset=%d length=%d", f.Name, f.Offset, f.Length)
		}
		// A decimal rendering of more than 4 hex digits cannot fit the int16 year.
		if f.Rule == RuleHexDecimal && f.Length > 2 {
			return fmt.Errorf("field %q is too long for a hex-decimal value: %d bytes", f.Name, f.Length)
		}
	}
	for name := range fieldRules {
		if !seen[name] {
			return fmt.Errorf("missing field %q", name)
		}
	}

	fields := make([]Field, len(l.Fields))
	copy(fields, l.Fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })
	for i := 1; i < len(fields); i++ {
		prev := fields[i-1]
		if prev.Offset+int64(prev.Length) > fields[i].Offset {
			return fmt.Errorf("field %q overlaps field %q", prev.Name, fields[i].Name)
		}
	}
	if last := fields[len(fields)-1]; last.Offset+int64(last.Length) > l.DataStart {
		return fmt.Errorf("field %q extends past the data region at 0x%X", last.Name, l.DataStart)
	}

	return nil
}

// headerEnd is the offset just past the last header field.
func (l Layout) headerEnd() int64 {
	var end int64
	for _, f := range l.Fields {
		if e := f.Offset + int64(f.Length); e > end {
			end = e
		}
	}
	return end
}
