// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package fixture

import (
	"errors"
	"io"

	"github.com/OpenPSG/th12"
)

// Buffer is an in-memory io.WriteSeeker.
type Buffer struct {
	buf []byte
	pos int64
}

func (b *Buffer) Write(p []byte) (int, error) {
	if end := b.pos + int64(len(p)); end > int64(len(b.buf)) {
		grown := make([]byte, end)
		copy(grown, b.buf)
		b.buf = grown
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	b.pos = pos
	return pos, nil
}

// Bytes returns the written bytes.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Build returns a complete capture with the given header and segments using
// th12.DefaultLayout.
func Build(hdr Header, segments ...Segment) ([]byte, error) {
	var buf Buffer
	fw, err := Create(&buf, th12.DefaultLayout, hdr)
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		if err := fw.WriteSegment(seg); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
