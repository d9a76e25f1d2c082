// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package th12

import "time"

const (
	// SegmentHeaderSize is the size of the header preceding each segment's packets.
	SegmentHeaderSize = 8
	// PacketSize is the size of a single encoded reading.
	PacketSize = 18
	// ReadingsPerSegment is the number of readings in every segment.
	ReadingsPerSegment = 500
	// SegmentSize is the total size of one segment in the data region.
	SegmentSize = SegmentHeaderSize + ReadingsPerSegment*PacketSize
)

// SampleInterval is the nominal spacing between readings, 500 readings per
// two second segment.
const SampleInterval = 4 * time.Millisecond

// Recognised segment sigils.
var (
	SigilData = [2]byte{0xFF, 0x7F}
	SigilZero = [2]byte{0x00, 0x00}
)

// Header holds the identity and timing fields of a capture file.
type Header struct {
	Year      int16     // Year of the recording start
	Month     int8      // Month of the recording start (1-12)
	Day       int8      // Day of the recording start
	Hour      int8      // Hour of the recording start
	Min       int8      // Minute of the recording start
	Sec       int8      // Second of the recording start
	UID       string    // Device identifier, verbatim 34 bytes
	Lot       string    // Lot code, verbatim 14 bytes
	SN        string    // Serial number, verbatim 13 bytes
	SID       string    // Session identifier, verbatim 10 bytes
	StartTime time.Time // Start of the recording, composed from the time fields
}

// SegmentTime is the elapsed time stored in a segment header.
type SegmentTime struct {
	Hours    uint8
	Minutes  uint8
	Seconds  uint8
	Fraction uint8 // Sub-second part, 0-255 maps onto 0-1 second
}

// Duration converts the elapsed time to a time.Duration with microsecond resolution.
func (t SegmentTime) Duration() time.Duration {
	d := time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second +
		time.Duration(t.Fraction)*time.Second/255
	return d.Round(time.Microsecond)
}

// Segment is one fixed-size block of the data region.
type Segment struct {
	Offset   int64       // Absolute offset of the segment header
	Sigil    [2]byte     // Block type tag, SigilData or SigilZero
	Bookmark byte        // Non-zero when the operator flagged an event
	Unsure   byte        // Unidentified, preserved as read
	Time     SegmentTime // Elapsed time since the recording started
	Readings []Reading   // Exactly ReadingsPerSegment readings
}

// Elapsed returns the time since the recording started.
func (s *Segment) Elapsed() time.Duration {
	return s.Time.Duration()
}

// At returns the wall clock time of the segment given the recording start.
func (s *Segment) At(start time.Time) time.Time {
	return start.Add(s.Elapsed())
}

// ReadingElapsed returns the nominal time of the i-th reading since the
// recording started.
func (s *Segment) ReadingElapsed(i int) time.Duration {
	return s.Elapsed() + time.Duration(i)*SampleInterval
}

// Bookmarked reports whether the bookmark byte is set.
func (s *Segment) Bookmarked() bool {
	return s.Bookmark != 0
}
