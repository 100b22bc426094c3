package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/ledger"
)

const usageText = `Usage: farm-admin [flags] <command>

Commands:
  markets list                           list all markets
  markets add -name N -place P           register a market
  markets remove -id ID                  delete a market (type its place to confirm)
  products list                          list the product catalog
  products add -name N -category C -unit U
  products update -id ID [-name N] [-category C] [-unit U] [-in-demand] [-priority P]
  products remove -id ID                 delete a product (type its name to confirm)
  categories                             list product categories
  overview                               all markets with current prices
  prices set <product=price ...>         stage and submit a price batch (-market, -date)
  prices history -product P              price history for a product (-market)
  prices update -id ID -price V [-date D]
  prices remove -id ID                   delete a price record (type "confirm")
  import -file SHEET                     bulk-load prices from a CSV sheet (-market)
`

func (a *App) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usageText)
		return nil
	}

	switch args[0] {
	case "markets":
		return a.runMarkets(ctx, args[1:])
	case "products":
		return a.runProducts(ctx, args[1:])
	case "categories":
		return a.listCategories(ctx)
	case "overview":
		return a.showOverview(ctx)
	case "prices":
		return a.runPrices(ctx, args[1:])
	case "import":
		return a.importSheet(ctx, args[1:])
	case "help":
		fmt.Fprint(a.out, usageText)
		return nil
	default:
		return errors.Errorf("unknown command %q", args[0])
	}
}

// --- markets ---

func (a *App) runMarkets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("markets: expected list, add, or remove")
	}
	switch args[0] {
	case "list":
		return a.listMarkets(ctx)
	case "add":
		fs := flag.NewFlagSet("markets add", flag.ContinueOnError)
		name := fs.String("name", "", "market name")
		place := fs.String("place", "", "market place")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.markets.Create(ctx, *name, *place); err != nil {
			a.notifier.Error("Failed to add market", err.Error())
			return err
		}
		a.notifier.Info("Market added", *name)
		return a.listMarkets(ctx)
	case "remove":
		fs := flag.NewFlagSet("markets remove", flag.ContinueOnError)
		id := fs.String("id", "", "market id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.removeMarket(ctx, *id)
	default:
		return errors.Errorf("markets: unknown subcommand %q", args[0])
	}
}

func (a *App) listMarkets(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Error("Failed to fetch markets", err.Error())
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPLACE\tCREATED")
	for _, m := range a.store.Markets() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Place, m.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (a *App) removeMarket(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("markets remove: -id is required")
	}
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	m, ok := a.store.MarketByID(id)
	if !ok {
		return errors.Errorf("market %q not found", id)
	}

	typed := a.prompt(fmt.Sprintf("Deleting %q cannot be undone. Type its place (%s) to confirm: ", m.Name, m.Place))
	if err := a.markets.Delete(ctx, m, typed); err != nil {
		a.notifier.Error("Delete failed", err.Error())
		return err
	}
	a.notifier.Info("Market deleted", m.Name)
	return a.listMarkets(ctx)
}

// --- products ---

func (a *App) runProducts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("products: expected list, add, update, or remove")
	}
	switch args[0] {
	case "list":
		return a.listProducts(ctx)
	case "add":
		return a.addProduct(ctx, args[1:])
	case "update":
		return a.updateProduct(ctx, args[1:])
	case "remove":
		fs := flag.NewFlagSet("products remove", flag.ContinueOnError)
		id := fs.String("id", "", "product id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.removeProduct(ctx, *id)
	default:
		return errors.Errorf("products: unknown subcommand %q", args[0])
	}
}

func (a *App) listProducts(ctx context.Context) error {
	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Error("Failed to fetch products", err.Error())
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUNIT\tPRIORITY\tIN DEMAND")
	for _, p := range a.store.Products() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", p.ID, p.Name, p.BaseUnit, p.Priority, p.InDemand)
	}
	return w.Flush()
}

func (a *App) addProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products add", flag.ContinueOnError)
	name := fs.String("name", "", "product name")
	category := fs.String("category", "", "category id")
	unit := fs.String("unit", "kg", "base unit (kg or piece)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p := newProductFields(*name, *category, *unit)
	if err := a.catalog.Create(ctx, p); err != nil {
		a.notifier.Error("Failed to add product", err.Error())
		return err
	}
	a.notifier.Info("Product added", *name)
	return a.listProducts(ctx)
}

func (a *App) updateProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products update", flag.ContinueOnError)
	id := fs.String("id", "", "product id")
	name := fs.String("name", "", "product name")
	category := fs.String("category", "", "category id")
	unit := fs.String("unit", "", "base unit (kg or piece)")
	inDemand := fs.Bool("in-demand", false, "mark the product as in demand")
	priority := fs.Int("priority", 0, "sort priority (higher first)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("products update: -id is required")
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Unset fields fall back to the product's current values.
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	current, ok := a.store.ProductByID(*id)
	if !ok {
		return errors.Errorf("product %q not found", *id)
	}
	u := updateFields(current, *name, *category, *unit,
		*inDemand, set["in-demand"], *priority, set["priority"])

	if err := a.catalog.Update(ctx, *id, u); err != nil {
		a.notifier.Error("Failed to update product", err.Error())
		return err
	}
	a.notifier.Info("Product updated", u.Name)
	return a.listProducts(ctx)
}

func (a *App) removeProduct(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("products remove: -id is required")
	}
	if err := a.store.Refresh(ctx); err != nil {
		return err
	}
	p, ok := a.store.ProductByID(id)
	if !ok {
		return errors.Errorf("product %q not found", id)
	}

	typed := a.prompt(fmt.Sprintf("Deleting %q cannot be undone. Type its name to confirm: ", p.Name))
	if err := a.catalog.Delete(ctx, p, typed); err != nil {
		a.notifier.Error("Delete failed", err.Error())
		return err
	}
	a.notifier.Info("Product deleted", p.Name)
	return a.listProducts(ctx)
}

func (a *App) listCategories(ctx context.Context) error {
	cats, err := a.catalog.Categories(ctx)
	if err != nil {
		a.notifier.Error("Failed to fetch categories", err.Error())
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
	}
	return w.Flush()
}

// --- overview ---

func (a *App) showOverview(ctx context.Context) error {
	overviews, err := a.markets.Overview(ctx)
	if err != nil {
		a.notifier.Error("Failed to fetch overview", err.Error())
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, o := range overviews {
		fmt.Fprintf(w, "%s (%s)\n", o.Market.Name, o.Market.Place)
		fmt.Fprintln(w, "\tPRODUCT\tUNIT\tPRICE")
		for _, item := range o.Products {
			fmt.Fprintf(w, "\t%s\t%s\t%s\n", item.Product.Name, item.Product.BaseUnit, item.CurrentPrice)
		}
	}
	return w.Flush()
}

// --- prices ---

func (a *App) runPrices(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("prices: expected set, history, update, or remove")
	}
	switch args[0] {
	case "set":
		return a.pricesSet(ctx, args[1:])
	case "history":
		return a.pricesHistory(ctx, args[1:])
	case "update":
		return a.pricesUpdate(ctx, args[1:])
	case "remove":
		fs := flag.NewFlagSet("prices remove", flag.ContinueOnError)
		id := fs.String("id", "", "price record id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.pricesRemove(ctx, *id)
	default:
		return errors.Errorf("prices: unknown subcommand %q", args[0])
	}
}

func (a *App) pricesSet(ctx context.Context, args []string) error {
	if a.cfg.MarketID == "" {
		return errors.New("prices set: a market id is required (-market)")
	}
	date, err := a.cfg.PriceDate()
	if err != nil {
		return err
	}

	led := a.newLedger(a.cfg.MarketID, date)
	for _, pair := range args {
		id, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.Errorf("prices set: expected product=price, got %q", pair)
		}
		if err := led.SetPrice(id, raw); err != nil {
			return err
		}
	}
	return a.submitLedger(ctx, led)
}

func (a *App) pricesHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prices history", flag.ContinueOnError)
	productID := fs.String("product", "", "product id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cfg.MarketID == "" || *productID == "" {
		return errors.New("prices history: -market and -product are required")
	}

	records, err := a.history.List(ctx, a.cfg.MarketID, *productID)
	if err != nil {
		a.notifier.Error("Failed to fetch price history", err.Error())
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No price history available")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPRICE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n", rec.ID, rec.Date.Format("2006-01-02"), rec.Price)
	}
	return w.Flush()
}

func (a *App) pricesUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prices update", flag.ContinueOnError)
	id := fs.String("id", "", "price record id")
	rawPrice := fs.String("price", "", "new price")
	rawDate := fs.String("date", "", "new date (YYYY-MM-DD, defaults to today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := decimal.NewFromString(*rawPrice)
	if err != nil {
		a.notifier.Error("Invalid price", *rawPrice)
		return errors.Wrap(err, "parse price")
	}
	date := time.Now()
	if *rawDate != "" {
		if date, err = time.Parse("2006-01-02", *rawDate); err != nil {
			return errors.Wrap(err, "parse date")
		}
	}

	if err := a.history.Save(ctx, *id, v, date); err != nil {
		a.notifier.Error("Failed to update price", err.Error())
		return err
	}
	a.notifier.Info("Price updated", *id)
	return nil
}

func (a *App) pricesRemove(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("prices remove: -id is required")
	}
	typed := a.prompt(`Deleting a price record cannot be undone. Type "confirm" to delete: `)
	if err := a.history.Delete(ctx, id, typed); err != nil {
		a.notifier.Error("Delete failed", err.Error())
		return err
	}
	a.notifier.Info("Price deleted", id)
	return nil
}

// --- import ---

func (a *App) importSheet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "price sheet path (.csv, optionally gzipped)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("import: -file is required")
	}
	if a.cfg.MarketID == "" {
		return errors.New("import: a market id is required (-market)")
	}
	date, err := a.cfg.PriceDate()
	if err != nil {
		return err
	}

	if err := a.store.Refresh(ctx); err != nil {
		a.notifier.Error("Failed to fetch products", err.Error())
		return err
	}

	sheet, err := ledger.OpenSheet(*file)
	if err != nil {
		return err
	}
	defer func() { _ = sheet.Close() }()

	led := a.newLedger(a.cfg.MarketID, date)
	n, err := led.Import(sheet, a.store.Products())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Loaded %d prices from %s\n", n, *file)
	if n == 0 {
		return nil
	}
	return a.submitLedger(ctx, led)
}

// --- shared helpers ---

func (a *App) newLedger(marketID string, date time.Time) *ledger.Ledger {
	return ledger.New(marketID, date, a.submitter,
		ledger.WithNotifier(a.notifier),
		ledger.WithLogger(a.lg),
		ledger.WithRefresh(func(ctx context.Context) {
			if err := a.store.Refresh(ctx); err != nil {
				a.notifier.Error("Failed to refresh catalog", err.Error())
			}
		}),
	)
}

// submitLedger walks the ledger through its confirmation step: request,
// interactive confirm unless -yes, then the batch submit.
func (a *App) submitLedger(ctx context.Context, led *ledger.Ledger) error {
	if err := led.RequestSubmit(); err != nil {
		return err
	}
	if !a.cfg.Yes {
		answer := a.prompt(fmt.Sprintf("Submit %d price edits for market %s? Type \"yes\" to confirm: ",
			led.Len(), a.cfg.MarketID))
		if !strings.EqualFold(answer, "yes") {
			led.CancelSubmit()
			fmt.Fprintln(a.out, "Cancelled, pending edits kept.")
			return nil
		}
	}
	return led.ConfirmSubmit(ctx)
}

func (a *App) prompt(msg string) string {
	fmt.Fprint(a.out, msg)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	return strings.TrimSpace(line)
}
