package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/app"
	"github.com/twitterclarets/clarets-bot/internal/config"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

const exportTimeout = 5 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()
	logging.SetDefault(logger)

	exporter := app.NewExporter(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	switch cmd {
	case "competitions":
		path, err := exporter.WriteCompetitionIDs(ctx)
		if err != nil {
			logger.Error("export competitions failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
	case "teams":
		ids, err := parseCompetitionIDs(os.Args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			printUsage()
			os.Exit(2)
		}
		if err := exporter.WriteCompetitionTeamIDs(ctx, ids); err != nil {
			logger.Error("export teams failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote team listings for %d competition(s)\n", len(ids))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func parseCompetitionIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid competition id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("teams requires at least one competition id")
	}
	return ids, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  export competitions          write comp_ids.csv with every competition id and name
  export teams <id> [id...]    write team_ids_<id>.csv for each competition`)
}
