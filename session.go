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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"
)

// Session is a capture file opened by path. Open decodes the header; Load
// decodes every segment of the data region.
type Session struct {
	Header
	Path     string     // Path of the capture file
	Size     int64      // Total byte length of the capture file
	Segments []*Segment // Populated by Load

	opts options
}

type options struct {
	layout Layout
	mmap   bool
}

// Option configures a Session.
type Option func(*options)

// WithLayout overrides DefaultLayout.
func WithLayout(layout Layout) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// WithMmap maps the capture file into memory for decoding instead of reading
// it through the file handle.
func WithMmap() Option {
	return func(o *options) {
		o.mmap = true
	}
}

// Open reads the header of the capture file at path. The file is closed
// before Open returns.
func Open(path string, opts ...Option) (*Session, error) {
	o := options{layout: DefaultLayout}
	for _, opt := range opts {
		opt(&o)
	}

	src, err := o.open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hdr, err := ReadHeader(src, o.layout)
	if err != nil {
		return nil, fmt.Errorf("error reading header of %s: %w", path, err)
	}

	return &Session{
		Header: *hdr,
		Path:   path,
		Size:   src.size,
		opts:   o,
	}, nil
}

// Timestamp formats the recording start like C's %c.
func (s *Session) Timestamp() string {
	return s.StartTime.Format(time.ANSIC)
}

// Scan reopens the capture file and calls fn for each segment in order. It
// stops at the first decode error, at the first error returned by fn or when
// ctx is done. The file is closed before Scan returns.
func (s *Session) Scan(ctx context.Context, fn func(*Segment) error) error {
	logger := zerolog.Ctx(ctx).With().Str("path", s.Path).Logger()

	src, err := s.opts.open(s.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	sc, err := NewScanner(src, s.opts.layout)
	if err != nil {
		return fmt.Errorf("error scanning %s: %w", s.Path, err)
	}

	logger.Debug().
		Int64("size", sc.Size()).
		Int64("data_start", s.opts.layout.DataStart).
		Bool("mmap", s.opts.mmap).
		Msg("Scanning segments")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sc.Next() {
			break
		}

		seg := sc.Segment()
		logger.Trace().
			Int("segment", sc.Count()).
			Int64("offset", seg.Offset).
			Dur("elapsed", seg.Elapsed()).
			Msg("Decoded segment")

		if err := fn(seg); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("error scanning %s: %w", s.Path, err)
	}

	logger.Debug().Int("segments", sc.Count()).Msg("Finished scanning segments")
	return nil
}

// Load decodes every segment of the capture file into Segments. A single
// corrupt segment or packet fails the whole load and leaves Segments unchanged.
func (s *Session) Load(ctx context.Context) error {
	segments := make([]*Segment, 0, s.segmentHint())
	err := s.Scan(ctx, func(seg *Segment) error {
		segments = append(segments, seg)
		return nil
	})
	if err != nil {
		return err
	}

	s.Segments = segments
	return nil
}

// ReadingCount returns the number of readings loaded.
func (s *Session) ReadingCount() int {
	return len(s.Segments) * ReadingsPerSegment
}

func (s *Session) segmentHint() int64 {
	if n := (s.Size - s.opts.layout.DataStart) / SegmentSize; n > 0 {
		return n
	}
	return 0
}

// source is a scoped byte source over a capture file.
type source struct {
	io.ReadSeeker
	size  int64
	close func() error
}

func (s *source) Close() error {
	return s.close()
}

func (o options) open(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error reading size of %s: %w", path, err)
	}

	// Empty files cannot be mapped.
	if !o.mmap || info.Size() == 0 {
		return &source{ReadSeeker: f, size: info.Size(), close: f.Close}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error mapping %s: %w", path, err)
	}

	return &source{
		ReadSeeker: bytes.NewReader(m),
		size:       info.Size(),
		close: func() error {
			if err := m.Unmap(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}, nil
}
