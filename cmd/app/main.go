// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/bookings/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Event bookings API and notification pipeline",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "consumer",
				Usage: "Start the notification queue consumer",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunConsumer(ctx, version)
				},
			},
			{
				Name:  "reconcile",
				Usage: "Re-enqueue notifications for bookings stuck in pending state",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "age",
						Aliases: []string{"a"},
						Value:   time.Hour,
						Usage:   "Only consider bookings pending for at least this long",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Value:   0,
						Usage:   "Maximum number of bookings to re-enqueue (0 = no limit)",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "List the candidates without publishing",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunReconcile(
						ctx,
						os.Stdout,
						cmd.Duration("age"),
						cmd.Int("limit"),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "fail-booking",
				Usage: "Mark a booking as failed (compensating action)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "event-id",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Event the booking belongs to",
					},
					&cli.StringFlag{
						Name:     "booking-id",
						Aliases:  []string{"b"},
						Required: true,
						Usage:    "Booking to invalidate",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunFailBooking(ctx, os.Stdout, cmd.String("event-id"), cmd.String("booking-id"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
