// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fixture_test

import (
	"io"
	"testing"
	"time"

	"github.com/OpenPSG/th12"
	"github.com/OpenPSG/th12/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHexDecimal(t *testing.T) {
	b, err := fixture.EncodeHexDecimal(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x24}, b)

	b, err = fixture.EncodeHexDecimal(7, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07}, b)

	_, err = fixture.EncodeHexDecimal(123, 1)
	assert.Error(t, err)
}

func TestWriter(t *testing.T) {
	var buf fixture.Buffer

	fw, err := fixture.Create(&buf, th12.DefaultLayout, fixture.Header{
		StartTime: time.Date(2023, time.December, 31, 23, 59, 58, 0, time.UTC),
		SID:       "0000000001",
	})
	require.NoError(t, err)

	require.NoError(t, fw.WriteSegment(fixture.Segment{
		Sigil:    th12.SigilData,
		Readings: []th12.Reading{{LA: -2, RA: 3}},
	}))
	require.NoError(t, fw.WriteRaw([]byte{0xAA}))
	assert.Equal(t, 1, fw.Segments())

	b := buf.Bytes()
	require.Len(t, b, int(th12.DefaultLayout.DataStart)+th12.SegmentSize+1)
	assert.Equal(t, []byte{0x20, 0x23, 0x12, 0x31, 0x23, 0x59, 0x58}, b[0x35:0x3C])
	assert.Equal(t, "0000000001", string(b[0x395:0x39F]))

	data := b[th12.DefaultLayout.DataStart:]
	assert.Equal(t, []byte{0xFF, 0x7F, 0, 0, 0, 0, 0, 0}, data[:8])
	assert.Equal(t, []byte{0xFE, 0xFF, 0x03, 0x00}, data[8:12])
	assert.Equal(t, byte(0xAA), data[th12.SegmentSize])

	err = fw.WriteSegment(fixture.Segment{Readings: make([]th12.Reading, th12.ReadingsPerSegment+1)})
	assert.Error(t, err)
}

func TestBufferSeek(t *testing.T) {
	var buf fixture.Buffer

	_, err := buf.Write([]byte("hello"))
	require.NoError(t, err)

	pos, err := buf.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	_, err = buf.Write([]byte("p!"))
	require.NoError(t, err)
	assert.Equal(t, "help!", string(buf.Bytes()))

	_, err = buf.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}
