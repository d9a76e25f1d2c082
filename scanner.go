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
	"errors"
	"fmt"
	"io"
)

// Scanner walks the data region of a capture one segment at a time.
//
// Each segment's position depends on every previous segment having been
// consumed, so scanning is strictly sequential. Stopping between calls to
// Next is always safe.
type Scanner struct {
	r     io.ReadSeeker
	size  int64 // Total byte length of the source
	off   int64 // Offset of the next segment
	buf   []byte
	seg   *Segment
	count int
	err   error
}

// NewScanner positions r at the start of the data region described by layout.
func NewScanner(r io.ReadSeeker, layout Layout) (*Scanner, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("error seeking to end: %w", err)
	}
	if size < layout.DataStart {
		return nil, newDecodeError(ErrTruncated, size, "data region",
			fmt.Errorf("source is %d bytes, data region starts at %d", size, layout.DataStart))
	}
	if _, err := r.Seek(layout.DataStart, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to data region: %w", err)
	}

	return &Scanner{
		r:    r,
		size: size,
		off:  layout.DataStart,
		buf:  make([]byte, SegmentSize),
	}, nil
}

// Next decodes the next segment. It returns false at the end of the data
// region or on the first error, which is then reported by Err.
func (s *Scanner) Next() bool {
	if s.err != nil || s.off >= s.size {
		s.seg = nil
		return false
	}

	if remaining := s.size - s.off; remaining < SegmentSize {
		s.fail(newDecodeError(ErrTruncated, s.off, "segment",
			fmt.Errorf("%d trailing bytes, a segment needs %d", remaining, SegmentSize)))
		return false
	}

	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.fail(newDecodeError(ErrTruncated, s.off, "segment", err))
		} else {
			s.fail(fmt.Errorf("error reading segment at offset 0x%X: %w", s.off, err))
		}
		return false
	}

	seg, err := decodeSegment(s.buf, s.off)
	if err != nil {
		s.fail(err)
		return false
	}

	s.seg = seg
	s.off += SegmentSize
	s.count++
	return true
}

// Segment returns the segment decoded by the last successful call to Next.
func (s *Scanner) Segment() *Segment {
	return s.seg
}

// Err returns the first error encountered, or nil at a clean end of data.
func (s *Scanner) Err() error {
	return s.err
}

// Count returns the number of segments decoded so far.
func (s *Scanner) Count() int {
	return s.count
}

// Offset returns the offset of the next segment to be decoded.
func (s *Scanner) Offset() int64 {
	return s.off
}

// Size returns the total byte length of the source.
func (s *Scanner) Size() int64 {
	return s.size
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.seg = nil
}

func decodeSegment(b []byte, offset int64) (*Segment, error) {
	var sigil [2]byte
	copy(sigil[:], b[0:2])
	if sigil != SigilData && sigil != SigilZero {
		return nil, newDecodeError(ErrFraming, offset, "segment",
			fmt.Errorf("unrecognised segment header %x", b[:SegmentHeaderSize]))
	}

	seg := &Segment{
		Offset:   offset,
		Sigil:    sigil,
		Bookmark: b[2],
		Unsure:   b[3],
		Time: SegmentTime{
			Hours:    b[4],
			Minutes:  b[5],
			Seconds:  b[6],
			Fraction: b[7],
		},
		Readings: make([]Reading, ReadingsPerSegment),
	}

	for i := range seg.Readings {
		start := SegmentHeaderSize + i*PacketSize
		reading, err := decodePacket(b[start:start+PacketSize], offset+int64(start))
		if err != nil {
			return nil, err
		}
		seg.Readings[i] = reading
	}

	return seg, nil
}
