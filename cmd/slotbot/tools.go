package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/EgorLis/slotbot/internal/match"
	"github.com/EgorLis/slotbot/internal/summary"
)

type RenderCmd struct {
	Limit int `help:"Character limit; SUMMARY_LIMIT when zero."`
}

func (c *RenderCmd) Run(app *App) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*app.Config.StoreTimeout)
	defer cancel()

	store, err := openStore(ctx, app)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	res, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}
	limit := c.Limit
	if limit <= 0 {
		limit = app.Config.SummaryLimit
	}
	fmt.Print(summary.Renderer{Catalog: app.Catalog, Limit: limit}.Render(res))
	return nil
}

type CatalogCmd struct{}

func (c *CatalogCmd) Run(app *App) error {
	if err := app.Catalog.Validate(); err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tSLOT\tKEY")
	for _, s := range app.Catalog.Slots() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Section, s.Name, match.Normalize(s.Name))
	}
	return w.Flush()
}
