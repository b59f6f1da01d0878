// Package main manages the articles-api schema.
// Usage: articles-migrate [-database-url URL] up|down [-to VERSION]|status|seed
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"articles-api/internal/infra/db"
	"articles-api/internal/observability/logging"
	"articles-api/pkg/config"
)

const usage = `Usage: articles-migrate [-database-url URL] <command>

Commands:
  up               apply all pending migrations
  down [-to N]     roll back the latest migration, or every migration above version N
  status           list migrations and whether they are applied
  seed             insert the demo users (idempotent)
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}

	logger, closer := logging.NewLogger(logging.OptionsFromEnv())
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("migrate failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger *slog.Logger) error {
	fset := flag.NewFlagSet("articles-migrate", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	dsn := fset.String("database-url", config.GetEnvString("DATABASE_URL", ""), "database URL (postgres://… or sqlite://…)")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fset.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, cmdArgs := fset.Arg(0), fset.Args()[1:]

	conn, dialect, err := db.Open(ctx, *dsn, db.ConnectionConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	migrator, err := db.NewMigrator(conn, dialect, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		return migrator.Up(ctx)

	case "down":
		downFlags := flag.NewFlagSet("down", flag.ContinueOnError)
		downFlags.SetOutput(io.Discard)
		to := downFlags.Int64("to", -1, "target version")
		if err := downFlags.Parse(cmdArgs); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return migrator.Down(ctx, *to)

	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tPATH")
		for _, s := range statuses {
			state, appliedAt := "pending", "-"
			if s.Applied {
				state, appliedAt = "applied", s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Path)
		}
		return tw.Flush()

	case "seed":
		n, err := db.SeedUsers(ctx, conn)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seeded %d user(s)\n", n)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}
