// Command poscore is a small shell around the POS core library. The
// real presentation layer is a GUI owned elsewhere; this binary exists
// for operating the catalog file from a terminal and as a worked
// example of embedding the library.
//
// Usage:
//
//	poscore demo             seed a sample catalog, run a session, save
//	poscore top [n]          print the best-selling dishes
//	poscore habits           print per-customer analytics
//	poscore search <query>   look up dishes by name/alternate/category
//	poscore prune            delete old catalog backups past retention
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tablerun/go-pos-core/internal/catalog"
	"github.com/tablerun/go-pos-core/internal/config"
	"github.com/tablerun/go-pos-core/internal/domain"
	"github.com/tablerun/go-pos-core/internal/history"
	"github.com/tablerun/go-pos-core/internal/metrics"
	"github.com/tablerun/go-pos-core/internal/order"
	"github.com/tablerun/go-pos-core/internal/search"
	"github.com/tablerun/go-pos-core/internal/store"
	"github.com/tablerun/go-pos-core/internal/sysutil"
	"github.com/tablerun/go-pos-core/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(2)
	}
	log.Logger = zerolog.New(sysutil.LogWriter(cfg.LogPretty)).With().Timestamp().Logger()
	sysutil.SetLogLevel(cfg.LogLevel)

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(cfg, args[0], args[1:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, cmd string, args []string) error {
	switch cmd {
	case "demo":
		return demo(cfg)
	case "top":
		n := 5
		if len(args) > 0 {
			n = utils.AtoiDefault(args[0], 5)
		}
		return top(cfg, n)
	case "habits":
		return habits(cfg)
	case "search":
		if len(args) == 0 {
			return errors.New("search needs a query")
		}
		return lookup(cfg, args[0])
	case "prune":
		removed, err := store.PruneBackups(cfg.DataFile, cfg.BackupKeep)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d backup file(s)\n", removed)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: poscore <demo|top|habits|search|prune> [args]")
}

// openCatalog loads the configured catalog file, or starts a fresh one
// when the file does not exist yet.
func openCatalog(cfg config.Config) (*catalog.Catalog, *history.Log, error) {
	c, hist, err := store.LoadCatalog(cfg.DataFile)
	if err != nil {
		if errors.Is(err, store.ErrCatalogNotFound) {
			log.Info().Str("path", cfg.DataFile).Msg("no catalog file, starting empty")
			return catalog.New(), history.NewLog(nil), nil
		}
		return nil, nil, err
	}
	metrics.DishesInCatalog.Set(float64(c.Count()))
	return c, hist, nil
}

// demo seeds a couple of dishes, takes a two-person order with mixed
// payment modes, prints the settlement, and persists everything.
func demo(cfg config.Config) error {
	c, hist, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	rice, err := c.Add(catalog.DishInput{Name: "Rice", Price: 10})
	if err != nil {
		return err
	}
	soup, err := c.Add(catalog.DishInput{Name: "Soup", Price: 20, Category: "soups", SpicyLevel: domain.SpicyMild})
	if err != nil {
		return err
	}

	sess := order.NewSession(c, hist)
	sess.SetTable("1")
	sess.AddPerson("Alice")
	sess.AddPerson("Bob")
	if err := sess.AddItem("Alice", rice.ID, 2, "extra sauce"); err != nil {
		return err
	}
	if err := sess.AddItem("Bob", soup.ID, 1, ""); err != nil {
		return err
	}
	if err := sess.SetPaymentMethod("Alice", domain.MethodActual, 0); err != nil {
		return err
	}

	res := sess.Settle()
	fmt.Printf("table %s, subtotal %.2f\n", sess.Table(), res.Subtotal)
	for _, name := range res.Names {
		s := res.Shares[name]
		fmt.Printf("  %-10s consumed %.2f  pays %.2f  (%s)\n", name, s.Original, s.Final, s.Method)
	}

	if _, err := sess.Finalize(); err != nil {
		return err
	}
	if err := store.SaveCatalog(cfg.DataFile, c, hist); err != nil {
		return err
	}
	metrics.DishesInCatalog.Set(float64(c.Count()))
	fmt.Println("saved to", cfg.DataFile)
	return nil
}

func top(cfg config.Config, n int) error {
	c, _, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	for i, d := range c.TopSelling(n) {
		fmt.Printf("%2d. %-20s %8.2f  sold %d\n", i+1, d.Name, d.Price, d.SalesCount)
	}
	return nil
}

func habits(cfg config.Config) error {
	c, hist, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	for name, h := range hist.CustomerHabits(c) {
		fmt.Printf("%-12s orders %d  spent %.2f\n", name, h.OrderCount, h.TotalSpent)
		for dish, qty := range h.DishCounts {
			fmt.Printf("    %-20s x%d\n", dish, qty)
		}
	}
	return nil
}

func lookup(cfg config.Config, query string) error {
	c, _, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	idx := search.NewIndex(c.Dishes())
	for _, m := range idx.Lookup(query, 10) {
		fmt.Printf("%4d  %-20s %.2f\n", m.DishID, m.Name, m.Score)
	}
	return nil
}
