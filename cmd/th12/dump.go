// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/OpenPSG/th12"
	"github.com/spf13/cobra"
)

var dumpSegment int

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Write one segment's readings as CSV",
	Long: `Write the readings of a single segment as CSV: elapsed milliseconds, the eight
recorded channels and the six derived leads.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVarP(&dumpSegment, "segment", "s", 0, "Index of the segment to dump")
	rootCmd.AddCommand(dumpCmd)
}

var errFound = errors.New("segment found")

func runDump(cmd *cobra.Command, args []string) error {
	if dumpSegment < 0 {
		return fmt.Errorf("segment index must not be negative, got %d", dumpSegment)
	}

	s, err := th12.Open(args[0], sessionOptions()...)
	if err != nil {
		return err
	}

	// Segments are located by consuming every segment before them.
	var (
		index int
		found *th12.Segment
	)
	err = s.Scan(cmd.Context(), func(seg *th12.Segment) error {
		if index == dumpSegment {
			found = seg
			return errFound
		}
		index++
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return err
	}
	if found == nil {
		return fmt.Errorf("segment %d out of range, %s has %d segments", dumpSegment, s.Path, index)
	}

	return writeSegmentCSV(cmd.OutOrStdout(), found)
}

func writeSegmentCSV(w io.Writer, seg *th12.Segment) error {
	cw := csv.NewWriter(w)

	header := []string{"elapsed_ms"}
	for _, c := range th12.Channels {
		header = append(header, c.String())
	}
	for _, l := range th12.Leads {
		header = append(header, l.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for i, r := range seg.Readings {
		record = record[:0]
		record = append(record, strconv.FormatInt(seg.ReadingElapsed(i).Milliseconds(), 10))
		for _, v := range r.Channels() {
			record = append(record, strconv.Itoa(int(v)))
		}
		for _, l := range th12.Leads {
			v, _ := r.Lead(l)
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
