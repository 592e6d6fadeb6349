// Package cli implements the folio command line. Commands work directly on the
// local database through the same services as the HTTP API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/config"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/validation"
)

// Env carries what every command needs. A command opens the database on demand
// through Open and closes it before returning.
type Env struct {
	Open  func(ctx context.Context) (*app.App, error)
	Out   io.Writer
	Err   io.Writer
	Plain bool // print raw markdown instead of rendering it
}

// NewEnv returns an Env that loads configuration from the environment and
// writes to stdout and stderr.
func NewEnv() *Env {
	return &Env{
		Open: func(ctx context.Context) (*app.App, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			logging.Init(cfg.Log.Env)
			return app.Open(ctx, cfg)
		},
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Register adds every folio command to c.
func Register(c *subcommands.Commander, e *Env) {
	c.Register(&assetsCmd{env: e}, "assets")
	c.Register(&addAssetCmd{env: e}, "assets")
	c.Register(&holdingsCmd{env: e}, "assets")

	for _, kind := range []model.TransactionKind{
		model.KindBuy, model.KindSell, model.KindDividend,
		model.KindInterest, model.KindDeposit, model.KindWithdrawal,
	} {
		c.Register(&recordCmd{env: e, kind: kind}, "transactions")
	}
	c.Register(&txCmd{env: e}, "transactions")

	c.Register(&plansCmd{env: e}, "plans")
	c.Register(&addPlanCmd{env: e}, "plans")
	c.Register(&planCmd{env: e}, "plans")

	c.Register(&refreshCmd{env: e}, "market")
	c.Register(&newsCmd{env: e}, "market")
	c.Register(&insightCmd{env: e}, "market")

	c.Register(&exportCmd{env: e}, "data")
	c.Register(&snapshotCmd{env: e}, "data")
}

// run opens the app, calls fn and maps its error to an exit status.
func (e *Env) run(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintf(e.Err, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(a); err != nil {
		e.printError(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (e *Env) printError(err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		fmt.Fprintln(e.Err, "Error: invalid input")
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(e.Err, "  %s: %s\n", field, verr.Fields[field])
		}
		return
	}
	fmt.Fprintf(e.Err, "Error: %v\n", err)
}

// usage prints the first line of cmd's usage text.
func (e *Env) usage(cmd subcommands.Command) subcommands.ExitStatus {
	line, _, _ := strings.Cut(cmd.Usage(), "\n")
	fmt.Fprintf(e.Err, "Usage: %s\n", line)
	return subcommands.ExitUsageError
}

// printMarkdown renders md for the terminal, or writes it unchanged when Plain
// is set or rendering fails.
func (e *Env) printMarkdown(md string) {
	if e.Plain {
		fmt.Fprint(e.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(e.Out, out)
			return
		}
	}
	fmt.Fprint(e.Out, md)
}

// resolveAsset finds an asset by id or, case-insensitively, by symbol. A symbol
// shared by assets of different types must be given as an id.
func resolveAsset(ctx context.Context, a *app.App, ref string) (model.Asset, error) {
	if validation.ValidateUUID(ref) == nil {
		return a.Services.Assets.GetAsset(ctx, ref)
	}

	assets, err := a.Services.Assets.GetAssets(ctx)
	if err != nil {
		return model.Asset{}, err
	}
	var found []model.Asset
	for _, as := range assets {
		if strings.EqualFold(as.Symbol, ref) {
			found = append(found, as)
		}
	}
	switch len(found) {
	case 0:
		return model.Asset{}, fmt.Errorf("no asset with symbol %q", ref)
	case 1:
		return found[0], nil
	}
	return model.Asset{}, fmt.Errorf("symbol %q matches %d assets, use the asset id", ref, len(found))
}
