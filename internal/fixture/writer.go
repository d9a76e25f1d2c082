// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package fixture writes synthetic capture files for tests.
package fixture

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/OpenPSG/th12"
)

// Header describes the header region of a synthetic capture.
type Header struct {
	StartTime time.Time
	UID       string
	Lot       string
	SN        string
	SID       string
	// Raw overrides the encoded bytes of a field by name.
	Raw map[string][]byte
}

// Segment describes one synthetic segment. Readings shorter than
// th12.ReadingsPerSegment are padded with zero readings.
type Segment struct {
	Sigil    [2]byte
	Bookmark byte
	Unsure   byte
	Time     th12.SegmentTime
	Readings []th12.Reading
}

// Writer writes synthetic capture files.
type Writer struct {
	w        io.WriteSeeker
	layout   th12.Layout
	segments int // Number of segments written so far.
}

// Create writes the header region described by hdr and leaves w positioned at
// the start of the data region.
func Create(w io.WriteSeeker, layout th12.Layout, hdr Header) (*Writer, error) {
	fw := &Writer{w: w, layout: layout}

	if err := fw.writeHeader(hdr); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	return fw, nil
}

// Segments returns the number of segments written so far.
func (fw *Writer) Segments() int {
	return fw.segments
}

// WriteSegment writes a complete segment.
func (fw *Writer) WriteSegment(seg Segment) error {
	if len(seg.Readings) > th12.ReadingsPerSegment {
		return fmt.Errorf("expected at most %d readings, got %d", th12.ReadingsPerSegment, len(seg.Readings))
	}

	writer := bufio.NewWriter(fw.w)

	if _, err := writer.Write([]byte{
		seg.Sigil[0], seg.Sigil[1],
		seg.Bookmark, seg.Unsure,
		seg.Time.Hours, seg.Time.Minutes, seg.Time.Seconds, seg.Time.Fraction,
	}); err != nil {
		return err
	}

	for i := 0; i < th12.ReadingsPerSegment; i++ {
		var r th12.Reading
		if i < len(seg.Readings) {
			r = seg.Readings[i]
		}
		if _, err := writer.Write(EncodePacket(r)); err != nil {
			return err
		}
	}

	// Ensure all data is flushed to the underlying writer
	if err := writer.Flush(); err != nil {
		return err
	}

	fw.segments++
	return nil
}

// WriteRaw writes arbitrary bytes at the current position, for truncated or
// corrupt tails.
func (fw *Writer) WriteRaw(b []byte) error {
	_, err := fw.w.Write(b)
	return err
}

// EncodePacket encodes r as an 18 byte packet with a zero trailer.
func EncodePacket(r th12.Reading) []byte {
	p := make([]byte, th12.PacketSize)
	for i, v := range r.Channels() {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return p
}

// EncodeHexDecimal is the inverse of the header's hex-decimal rule: the
// decimal digits of v become hexadecimal digits, so 2024 becomes 0x20 0x24.
func EncodeHexDecimal(v, length int) ([]byte, error) {
	s := fmt.Sprintf("%0*d", length*2, v)
	if len(s) != length*2 {
		return nil, fmt.Errorf("%d does not fit in %d bytes", v, length)
	}
	return hex.DecodeString(s)
}

func (fw *Writer) writeHeader(hdr Header) error {
	// Rewind to the beginning of the file.
	if _, err := fw.w.Seek(0, io.SeekStart); err != nil {
		return err
	}

	// Unidentified regions are zero filled.
	region := make([]byte, fw.layout.DataStart)

	values := map[string]int{
		th12.FieldYear:  hdr.StartTime.Year(),
		th12.FieldMonth: int(hdr.StartTime.Month()),
		th12.FieldDay:   hdr.StartTime.Day(),
		th12.FieldHour:  hdr.StartTime.Hour(),
		th12.FieldMin:   hdr.StartTime.Minute(),
		th12.FieldSec:   hdr.StartTime.Second(),
	}
	texts := map[string]string{
		th12.FieldUID: hdr.UID,
		th12.FieldLot: hdr.Lot,
		th12.FieldSN:  hdr.SN,
		th12.FieldSID: hdr.SID,
	}

	for _, f := range fw.layout.Fields {
		var b []byte
		switch {
		case hdr.Raw[f.Name] != nil:
			b = hdr.Raw[f.Name]
		case f.Rule == th12.RuleHexDecimal:
			var err error
			if b, err = EncodeHexDecimal(values[f.Name], f.Length); err != nil {
				return fmt.Errorf("error encoding %s: %w", f.Name, err)
			}
		default:
			b = []byte(texts[f.Name])
		}
		if len(b) > f.Length {
			return fmt.Errorf("field %s is %d bytes, max is %d", f.Name, len(b), f.Length)
		}
		copy(region[f.Offset:], b)
	}

	writer := bufio.NewWriter(fw.w)
	if _, err := writer.Write(region); err != nil {
		return err
	}

	// Ensure all data is flushed to the underlying writer
	return writer.Flush()
}
