package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/twitterclarets/clarets-bot/internal/app"
	"github.com/twitterclarets/clarets-bot/internal/config"
	"github.com/twitterclarets/clarets-bot/internal/platform/logging"
)

const purgeTimeout = 15 * time.Minute

func main() {
	yes := flag.Bool("yes", false, "skip the interactive confirmation prompt")
	flag.Parse()

	if flag.NArg() < 1 || strings.ToLower(flag.Arg(0)) != "purge" {
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

	purger, err := app.NewPurger(cfg, logger)
	if err != nil {
		logger.Error("build purger", "error", err)
		os.Exit(1)
	}

	if !*yes && !confirm() {
		fmt.Println("aborted")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	result, err := purger.DeleteAll(ctx)
	if err != nil {
		logger.Error("purge failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("listed=%d deleted=%d failed=%d\n", result.Listed, result.Deleted, result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func confirm() bool {
	fmt.Print("This deletes EVERY tweet on the account. Type 'delete' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "delete"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  tweets [--yes] purge    delete every tweet on the configured account`)
}
