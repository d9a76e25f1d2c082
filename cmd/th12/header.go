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

	"github.com/OpenPSG/th12"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var headerCmd = &cobra.Command{
	Use:   "header FILE...",
	Short: "Print capture header fields",
	Long:  `Print the identity fields and start timestamp of each capture file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHeader,
}

func init() {
	rootCmd.AddCommand(headerCmd)
}

func runHeader(cmd *cobra.Command, args []string) error {
	logger := zerolog.Ctx(cmd.Context())

	sessions := make([]*th12.Session, len(args))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			s, err := th12.Open(path, sessionOptions()...)
			if err != nil {
				logger.Error().Err(err).Str("path", path).Msg("Failed to read header")
				return err
			}
			sessions[i] = s
			return nil
		})
	}
	err := g.Wait()

	for _, s := range sessions {
		if s != nil {
			printHeader(cmd.OutOrStdout(), s, len(args) > 1)
		}
	}
	return err
}

func printHeader(w io.Writer, s *th12.Session, withPath bool) {
	label := color.New(color.FgCyan, color.Bold)

	if withPath {
		_, _ = color.New(color.Bold).Fprintf(w, "%s\n", s.Path)
	}
	_, _ = label.Fprint(w, "UID: ")
	_, _ = fmt.Fprintln(w, printable(s.UID))
	_, _ = label.Fprint(w, "Lot: ")
	_, _ = fmt.Fprintln(w, printable(s.Lot))
	_, _ = label.Fprint(w, "SN: ")
	_, _ = fmt.Fprintln(w, printable(s.SN))
	_, _ = label.Fprint(w, "SID: ")
	_, _ = fmt.Fprintln(w, printable(s.SID))
	_, _ = label.Fprint(w, "Timestamp: ")
	_, _ = fmt.Fprintln(w, s.Timestamp())
}
