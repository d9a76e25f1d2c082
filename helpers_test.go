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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/th12"
	"github.com/OpenPSG/th12/internal/fixture"
	"github.com/stretchr/testify/require"
)

func testHeader() fixture.Header {
	return fixture.Header{
		StartTime: time.Date(2024, time.March, 15, 10, 20, 30, 0, time.UTC),
		UID:       "0123456789ABCDEF0123456789ABCDEF01",
		Lot:       "LOT-2024-00017",
		SN:        "SN00000004242",
		SID:       "SESSION-07",
	}
}

func testSegment(i int) fixture.Segment {
	readings := make([]th12.Reading, th12.ReadingsPerSegment)
	for j := range readings {
		v := int16(i*th12.ReadingsPerSegment + j)
		readings[j] = th12.Reading{
			LA: v, RA: -v,
			V1: v + 1, V2: v + 2, V3: v + 3, V4: v + 4, V5: v + 5, V6: v + 6,
		}
	}

	return fixture.Segment{
		Sigil: th12.SigilData,
		Time: th12.SegmentTime{
			Minutes: uint8(i * 2 / 60),
			Seconds: uint8(i * 2 % 60),
		},
		Readings: readings,
	}
}

func testSegments(n int) []fixture.Segment {
	segments := make([]fixture.Segment, n)
	for i := range segments {
		segments[i] = testSegment(i)
	}
	return segments
}

func buildCapture(t *testing.T, hdr fixture.Header, segments ...fixture.Segment) []byte {
	t.Helper()

	b, err := fixture.Build(hdr, segments...)
	require.NoError(t, err)
	return b
}

func writeCapture(t *testing.T, b []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "capture.dat")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

// packetOffset returns the absolute offset of a packet within the data region.
func packetOffset(segment, packet int) int64 {
	return th12.DefaultLayout.DataStart +
		int64(segment)*th12.SegmentSize +
		th12.SegmentHeaderSize +
		int64(packet)*th12.PacketSize
}
