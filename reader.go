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
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
	"unicode/utf8"
)

// ReadHeader decodes the header fields described by layout from r.
func ReadHeader(r io.ReadSeeker, layout Layout) (*Header, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("error seeking to end: %w", err)
	}
	if end := layout.headerEnd(); size < end {
		return nil, newDecodeError(ErrTruncated, size, "header",
			fmt.Errorf("source is %d bytes, header needs %d", size, end))
	}

	hdr := &Header{}
	offsets := make(map[string]int64, len(layout.Fields))
	for _, f := range layout.Fields {
		offsets[f.Name] = f.Offset

		b, err := readField(r, f)
		if err != nil {
			return nil, err
		}

		switch f.Rule {
		case RuleHexDecimal:
			if err := setTimeField(hdr, f, b); err != nil {
				return nil, err
			}
		case RuleText:
			if !utf8.Valid(b) {
				return nil, newDecodeError(ErrEncoding, f.Offset, f.Name,
					fmt.Errorf("invalid text %q", b))
			}
			setTextField(hdr, f.Name, string(b))
		}
	}

	field, err := checkDate(hdr)
	if err != nil {
		return nil, newDecodeError(ErrValidation, offsets[field], field, err)
	}
	hdr.StartTime = time.Date(int(hdr.Year), time.Month(hdr.Month), int(hdr.Day),
		int(hdr.Hour), int(hdr.Min), int(hdr.Sec), 0, time.UTC)

	return hdr, nil
}

func readField(r io.ReadSeeker, f Field) ([]byte, error) {
	if _, err := r.Seek(f.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to %s: %w", f.Name, err)
	}

	b := make([]byte, f.Length)
	if _, err := io.ReadFull(r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, newDecodeError(ErrTruncated, f.Offset, f.Name, err)
		}
		return nil, fmt.Errorf("error reading %s: %w", f.Name, err)
	}
	return b, nil
}

// parseHexDecimal renders b as hexadecimal digits and parses the digits as a
// decimal number, so 0x20 0x24 decodes to 2024 and 0x00 0x25 to 25.
func parseHexDecimal(b []byte, bitSize int) (int64, error) {
	return strconv.ParseInt(hex.EncodeToString(b), 10, bitSize)
}

func setTimeField(hdr *Header, f Field, b []byte) error {
	bitSize := 8
	if f.Name == FieldYear {
		bitSize = 16
	}

	v, err := parseHexDecimal(b, bitSize)
	if err != nil {
		return newDecodeError(ErrValidation, f.Offset, f.Name, err)
	}

	switch f.Name {
	case FieldYear:
		hdr.Year = int16(v)
	case FieldMonth:
		hdr.Month = int8(v)
	case FieldDay:
		hdr.Day = int8(v)
	case FieldHour:
		hdr.Hour = int8(v)
	case FieldMin:
		hdr.Min = int8(v)
	case FieldSec:
		hdr.Sec = int8(v)
	}
	return nil
}

func setTextField(hdr *Header, name, s string) {
	switch name {
	case FieldUID:
		hdr.UID = s
	case FieldLot:
		hdr.Lot = s
	case FieldSN:
		hdr.SN = s
	case FieldSID:
		hdr.SID = s
	}
}

// checkDate returns the name of the first field that does not form a valid
// calendar date and time.
func checkDate(hdr *Header) (string, error) {
	switch {
	case hdr.Year < 1:
		return FieldYear, fmt.Errorf("year %d out of range", hdr.Year)
	case hdr.Month < 1 || hdr.Month > 12:
		return FieldMonth, fmt.Errorf("month %d out of range", hdr.Month)
	case hdr.Day < 1 || int(hdr.Day) > daysIn(int(hdr.Year), time.Month(hdr.Month)):
		return FieldDay, fmt.Errorf("day %d out of range for %04d-%02d", hdr.Day, hdr.Year, hdr.Month)
	case hdr.Hour < 0 || hdr.Hour > 23:
		return FieldHour, fmt.Errorf("hour %d out of range", hdr.Hour)
	case hdr.Min < 0 || hdr.Min > 59:
		return FieldMin, fmt.Errorf("minute %d out of range", hdr.Min)
	case hdr.Sec < 0 || hdr.Sec > 59:
		return FieldSec, fmt.Errorf("second %d out of range", hdr.Sec)
	}
	return "", nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
