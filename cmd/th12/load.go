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
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/OpenPSG/th12"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var loadCmd = &cobra.Command{
	Use:   "load FILE...",
	Short: "Decode every segment of capture files",
	Long: `Fully decode each capture file, validating every segment and packet, and
print a summary. Files are decoded concurrently; the first corrupt file
stops the remaining decodes at their next segment boundary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

// loadSummary describes a fully decoded capture.
type loadSummary struct {
	path      string
	start     time.Time
	segments  int
	readings  int
	bookmarks []time.Duration
	span      time.Duration
}

func summarize(s *th12.Session) loadSummary {
	sum := loadSummary{
		path:     s.Path,
		start:    s.StartTime,
		segments: len(s.Segments),
		readings: s.ReadingCount(),
	}
	for _, seg := range s.Segments {
		if seg.Bookmarked() {
			sum.bookmarks = append(sum.bookmarks, seg.Elapsed())
		}
	}
	if n := len(s.Segments); n > 0 {
		sum.span = s.Segments[n-1].ReadingElapsed(th12.ReadingsPerSegment)
	}
	return sum
}

func runLoad(cmd *cobra.Command, args []string) error {
	summaries := make([]*loadSummary, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

			s, err := th12.Open(path, sessionOptions()...)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to read header")
				return err
			}

			started := time.Now()
			if err := s.Load(ctx); err != nil {
				logger.Error().Err(err).Msg("Failed to load capture")
				return err
			}
			logger.Info().
				Int("segments", len(s.Segments)).
				Dur("took", time.Since(started)).
				Msg("Loaded capture")

			sum := summarize(s)
			summaries[i] = &sum
			return nil
		})
	}
	err := g.Wait()

	for _, sum := range summaries {
		if sum != nil {
			printSummary(cmd.OutOrStdout(), sum)
		}
	}
	return err
}

func printSummary(w io.Writer, sum *loadSummary) {
	label := color.New(color.FgCyan, color.Bold)

	_, _ = color.New(color.Bold).Fprintf(w, "%s\n", sum.path)
	_, _ = label.Fprint(w, "  Segments: ")
	_, _ = fmt.Fprintln(w, sum.segments)
	_, _ = label.Fprint(w, "  Readings: ")
	_, _ = fmt.Fprintln(w, sum.readings)
	_, _ = label.Fprint(w, "  Span: ")
	_, _ = fmt.Fprintf(w, "%s (until %s)\n", sum.span, sum.start.Add(sum.span).Format(time.ANSIC))
	_, _ = label.Fprint(w, "  Bookmarks: ")
	_, _ = fmt.Fprintln(w, len(sum.bookmarks))
	for _, at := range sum.bookmarks {
		_, _ = color.New(color.FgYellow).Fprintf(w, "    +%s  %s\n", at, sum.start.Add(at).Format(time.ANSIC))
	}
}
