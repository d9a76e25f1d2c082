// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package th12_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/OpenPSG/th12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	b := buildCapture(t, testHeader())

	hdr, err := th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
	require.NoError(t, err)

	assert.Equal(t, int16(2024), hdr.Year)
	assert.Equal(t, int8(3), hdr.Month)
	assert.Equal(t, int8(15), hdr.Day)
	assert.Equal(t, int8(10), hdr.Hour)
	assert.Equal(t, int8(20), hdr.Min)
	assert.Equal(t, int8(30), hdr.Sec)
	assert.Equal(t, "0123456789ABCDEF0123456789ABCDEF01", hdr.UID)
	assert.Equal(t, "LOT-2024-00017", hdr.Lot)
	assert.Equal(t, "SN00000004242", hdr.SN)
	assert.Equal(t, "SESSION-07", hdr.SID)
	assert.Equal(t, time.Date(2024, time.March, 15, 10, 20, 30, 0, time.UTC), hdr.StartTime)
}

func TestReadHeaderRawBytes(t *testing.T) {
	b := buildCapture(t, testHeader())

	// 2024-03-15 as stored by the recorder.
	assert.Equal(t, []byte{0x20, 0x24, 0x03, 0x15, 0x10, 0x20, 0x30}, b[0x35:0x3C])
}

func TestReadHeaderYearIsDecimalOfHexDigits(t *testing.T) {
	hdr := testHeader()
	hdr.Raw = map[string][]byte{th12.FieldYear: {0x00, 0x25}}
	b := buildCapture(t, hdr)

	decoded, err := th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
	require.NoError(t, err)

	// "0025" is read as 25, not as the binary value 0x0025 = 37.
	assert.Equal(t, int16(25), decoded.Year)
	assert.Equal(t, 25, decoded.StartTime.Year())
}

func TestReadHeaderTextIsVerbatim(t *testing.T) {
	hdr := testHeader()
	hdr.SID = "S1"
	b := buildCapture(t, hdr)

	decoded, err := th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
	require.NoError(t, err)

	assert.Equal(t, "S1\x00\x00\x00\x00\x00\x00\x00\x00", decoded.SID)
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string][]byte
		kind   error
		offset int64
		field  string
	}{
		{"hex letter in month", map[string][]byte{th12.FieldMonth: {0x1A}}, th12.ErrValidation, 0x37, th12.FieldMonth},
		{"hex letter in year", map[string][]byte{th12.FieldYear: {0x20, 0x2F}}, th12.ErrValidation, 0x35, th12.FieldYear},
		{"month out of range", map[string][]byte{th12.FieldMonth: {0x13}}, th12.ErrValidation, 0x37, th12.FieldMonth},
		{"month zero", map[string][]byte{th12.FieldMonth: {0x00}}, th12.ErrValidation, 0x37, th12.FieldMonth},
		{"year zero", map[string][]byte{th12.FieldYear: {0x00, 0x00}}, th12.ErrValidation, 0x35, th12.FieldYear},
		{"day past end of month", map[string][]byte{th12.FieldMonth: {0x02}, th12.FieldDay: {0x30}}, th12.ErrValidation, 0x38, th12.FieldDay},
		{"hour out of range", map[string][]byte{th12.FieldHour: {0x24}}, th12.ErrValidation, 0x39, th12.FieldHour},
		{"minute out of range", map[string][]byte{th12.FieldMin: {0x60}}, th12.ErrValidation, 0x3A, th12.FieldMin},
		{"second out of range", map[string][]byte{th12.FieldSec: {0x99}}, th12.ErrValidation, 0x3B, th12.FieldSec},
		{"invalid text", map[string][]byte{th12.FieldUID: {0xFF, 0xFE}}, th12.ErrEncoding, 0x355, th12.FieldUID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hdr := testHeader()
			hdr.Raw = tt.raw
			b := buildCapture(t, hdr)

			_, err := th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var decodeErr *th12.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.offset, decodeErr.Offset)
			assert.Equal(t, tt.field, decodeErr.Field)
		})
	}
}

func TestReadHeaderLeapDay(t *testing.T) {
	hdr := testHeader()
	hdr.StartTime = time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	b := buildCapture(t, hdr)

	decoded, err := th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, hdr.StartTime, decoded.StartTime)

	hdr.StartTime = time.Time{}
	hdr.Raw = map[string][]byte{
		th12.FieldYear:  {0x20, 0x23},
		th12.FieldMonth: {0x02},
		th12.FieldDay:   {0x29},
	}
	b = buildCapture(t, hdr)

	_, err = th12.ReadHeader(bytes.NewReader(b), th12.DefaultLayout)
	assert.ErrorIs(t, err, th12.ErrValidation)
}

func TestReadHeaderTruncated(t *testing.T) {
	b := buildCapture(t, testHeader())

	_, err := th12.ReadHeader(bytes.NewReader(b[:0x380]), th12.DefaultLayout)
	require.Error(t, err)
	assert.ErrorIs(t, err, th12.ErrTruncated)

	var decodeErr *th12.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, int64(0x380), decodeErr.Offset)
}

func TestReadHeaderCustomLayout(t *testing.T) {
	layout := cloneLayout()
	for i := range layout.Fields {
		if layout.Fields[i].Name == th12.FieldSID {
			layout.Fields[i].Offset = 0x400
		}
	}
	require.NoError(t, layout.Validate())

	b := buildCapture(t, testHeader())
	copy(b[0x400:], "RELOCATED!")

	hdr, err := th12.ReadHeader(bytes.NewReader(b), layout)
	require.NoError(t, err)
	assert.Equal(t, "RELOCATED!", hdr.SID)
	assert.Equal(t, "LOT-2024-00017", hdr.Lot)
}
