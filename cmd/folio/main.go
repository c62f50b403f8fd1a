package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to folio.toml (default: FOLIO_CONFIG, then binary dir)")
		portfolio  = flag.String("portfolio", "", "path to the portfolio JSON file (overrides config)")
		reports    = flag.String("reports", "", "report output directory (overrides config)")
		version    = flag.Bool("version", false, "print version and exit")
		quiet      = flag.Bool("quiet", false, "suppress the startup banner")
	)
	flag.Parse()

	if *version {
		common.LoadVersionFromFile()
		fmt.Println(common.GetFullVersion())
		return
	}

	// Flags win over config and environment.
	if *portfolio != "" {
		os.Setenv("FOLIO_PORTFOLIO", *portfolio)
	}
	if *reports != "" {
		os.Setenv("FOLIO_REPORTS_PATH", *reports)
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		common.PrintBanner(a.Config, a.Logger)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reportPath, err := a.Run(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("Analysis failed")
		os.Exit(1)
	}

	a.Logger.Info().Str("report", reportPath).Msg("Analysis complete")
	fmt.Println(reportPath)
}
