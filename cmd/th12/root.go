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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OpenPSG/th12"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	logLevel string
	useMmap  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "th12",
	Short: "th12 - decoder for 8-lead body surface potential recorder captures",
	Long: `th12 decodes capture files written by an 8-lead body surface potential
recorder: the session header, the two second segments of the data region and
the limb leads derived from each reading.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := setupLogger(logLevel)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&useMmap, "mmap", false, "Memory map capture files instead of reading them")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func sessionOptions() []th12.Option {
	var opts []th12.Option
	if useMmap {
		opts = append(opts, th12.WithMmap())
	}
	return opts
}

// printable trims the NUL padding of fixed-length text fields.
func printable(s string) string {
	return strings.TrimRight(s, "\x00")
}
