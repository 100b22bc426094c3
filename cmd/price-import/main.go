// price-import bulk-loads a CSV price sheet (plain or gzipped) into one
// market for a given date, using the same ledger and batch endpoint as the
// interactive tool. Nothing is written until the loaded batch is confirmed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/Unknow2778/farm-admin/internal/gateway"
	"github.com/Unknow2778/farm-admin/internal/ledger"
	"github.com/Unknow2778/farm-admin/internal/remote"
)

func main() {
	var (
		file    string
		market  string
		date    string
		baseURL string
		yes     bool
	)

	flag.StringVar(&file, "file", "", "price sheet path (.csv, optionally gzipped)")
	flag.StringVar(&market, "market", "", "market id to price")
	flag.StringVar(&date, "date", "", "price date as YYYY-MM-DD (defaults to today)")
	flag.StringVar(&baseURL, "base-url", "", "markets API base URL (or API_URL env)")
	flag.BoolVar(&yes, "yes", false, "skip the submit confirmation")
	flag.Parse()

	if baseURL == "" {
		baseURL = os.Getenv("API_URL")
	}
	switch {
	case baseURL == "":
		slog.Error("API base URL is required: set --base-url or API_URL")
		os.Exit(1)
	case file == "":
		slog.Error("price sheet is required: set --file")
		os.Exit(1)
	case market == "":
		slog.Error("market id is required: set --market")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, file, market, date, baseURL, yes); err != nil {
		slog.Error("price import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, file, market, rawDate, baseURL string, yes bool) error {
	date := time.Now()
	if rawDate != "" {
		var err error
		if date, err = time.Parse("2006-01-02", rawDate); err != nil {
			return errors.Wrap(err, "parse date")
		}
	}

	gw := gateway.New(baseURL)
	products := remote.NewProductRepository(gw)
	prices := remote.NewPriceRepository(gw)

	slog.Info("fetching product catalog", slog.String("base_url", baseURL))
	catalog, err := products.List(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch catalog")
	}
	slog.Info("catalog fetched", slog.Int("products", len(catalog)))

	sheet, err := ledger.OpenSheet(file)
	if err != nil {
		return err
	}
	defer func() { _ = sheet.Close() }()

	led := ledger.New(market, date, prices)
	n, err := led.Import(sheet, catalog)
	if err != nil {
		return errors.Wrap(err, "import sheet")
	}
	slog.Info("prices loaded", slog.Int("count", n), slog.String("file", file))

	if n == 0 {
		slog.Info("nothing to submit")
		return nil
	}

	if err := led.RequestSubmit(); err != nil {
		return err
	}
	if !yes && !confirm(n, market) {
		led.CancelSubmit()
		slog.Info("cancelled, nothing submitted")
		return nil
	}

	if err := led.ConfirmSubmit(ctx); err != nil {
		return errors.Wrap(err, "submit batch")
	}
	slog.Info("price batch submitted",
		slog.Int("count", n),
		slog.String("market", market),
		slog.String("date", date.Format("2006-01-02")),
	)
	return nil
}

func confirm(n int, market string) bool {
	fmt.Printf("Submit %d price edits for market %s? Type \"yes\" to confirm: ", n, market)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
