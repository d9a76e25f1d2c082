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
)

var (
	// ErrFraming indicates the source is misaligned with segment or packet
	// boundaries (unknown sigil, bad packet length or non-zero trailer).
	ErrFraming = errors.New("framing error")
	// ErrTruncated indicates fewer bytes remain than a complete header,
	// segment or packet requires.
	ErrTruncated = errors.New("truncated data")
	// ErrValidation indicates the decoded timestamp fields do not form a
	// valid calendar date and time.
	ErrValidation = errors.New("validation error")
	// ErrEncoding indicates an identity field is not valid text.
	ErrEncoding = errors.New("encoding error")
)

// DecodeError describes a decode failure at an absolute byte offset.
// Kind is one of ErrFraming, ErrTruncated, ErrValidation or ErrEncoding.
type DecodeError struct {
	Kind   error
	Offset int64
	Field  string // Header field or structure being decoded
	Err    error  // Underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("th12: %v at offset 0x%X", e.Kind, e.Offset)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error's kind.
func (e *DecodeError) Is(target error) bool {
	return e.Kind == target
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(kind error, offset int64, field string, err error) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Field: field, Err: err}
}
