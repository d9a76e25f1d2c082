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
	"encoding/binary"
	"fmt"
)

// Channel identifies one of the eight recorded electrode potentials.
type Channel int

const (
	LA Channel = iota // Left arm
	RA                // Right arm
	V1
	V2
	V3
	V4
	V5
	V6
)

// Channels lists the recorded channels in packet order.
var Channels = []Channel{LA, RA, V1, V2, V3, V4, V5, V6}

var channelNames = [...]string{"LA", "RA", "V1", "V2", "V3", "V4", "V5", "V6"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Lead identifies a derived lead.
type Lead int

const (
	LeadI Lead = iota
	LeadII
	LeadIII
	LeadAVL
	LeadAVR
	LeadAVF
)

// Leads lists the derived leads.
var Leads = []Lead{LeadI, LeadII, LeadIII, LeadAVL, LeadAVR, LeadAVF}

var leadNames = [...]string{"I", "II", "III", "aVL", "aVR", "aVF"}

func (l Lead) String() string {
	if l < 0 || int(l) >= len(leadNames) {
		return fmt.Sprintf("Lead(%d)", int(l))
	}
	return leadNames[l]
}

// Reading is a single multi-channel sample.
//
// The limb leads are derived from LA and RA with both legs taken as the
// reference ground. Derived values are computed on every call and never
// stored.
type Reading struct {
	LA, RA                 int16
	V1, V2, V3, V4, V5, V6 int16
}

// DecodePacket decodes one 18 byte packet: eight little-endian signed 16-bit
// channels followed by two zero bytes.
func DecodePacket(p []byte) (Reading, error) {
	return decodePacket(p, 0)
}

func decodePacket(p []byte, offset int64) (Reading, error) {
	if len(p) != PacketSize {
		return Reading{}, newDecodeError(ErrFraming, offset, "packet",
			fmt.Errorf("expected %d bytes, got %d", PacketSize, len(p)))
	}
	if p[16] != 0 || p[17] != 0 {
		return Reading{}, newDecodeError(ErrFraming, offset+16, "packet",
			fmt.Errorf("non-zero trailer %02x%02x", p[16], p[17]))
	}

	return Reading{
		LA: int16(binary.LittleEndian.Uint16(p[0:2])),
		RA: int16(binary.LittleEndian.Uint16(p[2:4])),
		V1: int16(binary.LittleEndian.Uint16(p[4:6])),
		V2: int16(binary.LittleEndian.Uint16(p[6:8])),
		V3: int16(binary.LittleEndian.Uint16(p[8:10])),
		V4: int16(binary.LittleEndian.Uint16(p[10:12])),
		V5: int16(binary.LittleEndian.Uint16(p[12:14])),
		V6: int16(binary.LittleEndian.Uint16(p[14:16])),
	}, nil
}

// Channels returns the recorded channels in packet order.
func (r Reading) Channels() [8]int16 {
	return [8]int16{r.LA, r.RA, r.V1, r.V2, r.V3, r.V4, r.V5, r.V6}
}

// Channel returns the value of a single recorded channel. ok is false for an
// unknown channel.
func (r Reading) Channel(c Channel) (v int16, ok bool) {
	if c < 0 || int(c) >= len(Channels) {
		return 0, false
	}
	return r.Channels()[c], true
}

// LL is the left leg potential. No electrode is recorded for it.
func (r Reading) LL() int { return 0 }

// RL is the right leg potential. No electrode is recorded for it.
func (r Reading) RL() int { return 0 }

// I returns lead I, RA - LA.
func (r Reading) I() int { return int(r.RA) - int(r.LA) }

// II returns lead II, RA - LL.
func (r Reading) II() int { return int(r.RA) - r.LL() }

// III returns lead III, LA - LL.
func (r Reading) III() int { return int(r.LA) - r.LL() }

// AVL returns the augmented lead aVL, (I - III) / 2.
func (r Reading) AVL() float64 { return float64(r.I()-r.III()) / 2 }

// AVR returns the augmented lead aVR, -(I + III) / 2.
func (r Reading) AVR() float64 { return float64(-(r.I() + r.III())) / 2 }

// AVF returns the augmented lead aVF, (II + III) / 2.
func (r Reading) AVF() float64 { return float64(r.II()+r.III()) / 2 }

// Lead returns a derived lead by name. ok is false for an unknown lead.
func (r Reading) Lead(l Lead) (v float64, ok bool) {
	switch l {
	case LeadI:
		return float64(r.I()), true
	case LeadII:
		return float64(r.II()), true
	case LeadIII:
		return float64(r.III()), true
	case LeadAVL:
		return r.AVL(), true
	case LeadAVR:
		return r.AVR(), true
	case LeadAVF:
		return r.AVF(), true
	default:
		return 0, false
	}
}
