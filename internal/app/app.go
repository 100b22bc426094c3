// Package app wires the admin tool together and dispatches its commands.
package app

import (
	"context"
	"io"
	"os"

	sdkapp "github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/Unknow2778/farm-admin/internal/domain/market"
	"github.com/Unknow2778/farm-admin/internal/domain/price"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
	"github.com/Unknow2778/farm-admin/internal/gateway"
	"github.com/Unknow2778/farm-admin/internal/notify"
	"github.com/Unknow2778/farm-admin/internal/remote"
	"github.com/Unknow2778/farm-admin/internal/store"
	"github.com/Unknow2778/farm-admin/pkg/httpclient"
)

// App holds the tool's dependencies. Commands read catalog data through the
// shared store and mutate through the domain services; after every mutation
// the server is re-fetched as the single source of truth.
type App struct {
	cfg *Config
	lg  *zap.Logger

	store     *store.Store
	markets   *market.Service
	catalog   *product.Service
	history   *price.HistoryService
	submitter price.Submitter
	notifier  notify.Notifier

	out io.Writer
	in  io.Reader
}

// Run creates all dependencies and executes the requested command. It is the
// single wiring point for the tool.
func Run(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config, args []string) error {
	ctx = zctx.Base(ctx, lg)

	client := httpclient.New(httpclient.Config{
		Timeout:        cfg.Timeout,
		Logger:         lg,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	gw := gateway.New(cfg.BaseURL, gateway.WithClient(client))

	productRepo := remote.NewProductRepository(gw)
	marketRepo := remote.NewMarketRepository(gw)
	priceRepo := remote.NewPriceRepository(gw)

	a := &App{
		cfg:       cfg,
		lg:        lg,
		store:     store.New(marketRepo, productRepo),
		markets:   market.NewService(marketRepo),
		catalog:   product.NewService(productRepo),
		history:   price.NewHistoryService(priceRepo),
		submitter: priceRepo,
		notifier:  notify.NewLog(lg),
		out:       os.Stdout,
		in:        os.Stdin,
	}
	return a.run(ctx, args)
}
