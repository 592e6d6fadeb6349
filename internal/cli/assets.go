package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/validation"
)

type assetsCmd struct {
	env *Env
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list assets" }
func (*assetsCmd) Usage() string {
	return `folio assets

  Lists every asset with its id.
`
}

func (*assetsCmd) SetFlags(*flag.FlagSet) {}

func (c *assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		assets, err := a.Services.Assets.GetAssets(ctx)
		if err != nil {
			return err
		}
		c.env.printMarkdown(assetsMarkdown(assets))
		return nil
	})
}

type addAssetCmd struct {
	env      *Env
	name     string
	maturity string
	rate     float64
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "add a stock, etf, treasury, cd or cash asset" }
func (*addAssetCmd) Usage() string {
	return `folio add-asset [-name <name>] [-maturity <date> -rate <percent>] <type> <symbol>

  Adds an asset. Types: stock, etf, treasury, cd, cash. Certificates of deposit
  take a maturity date and an interest rate.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name. Defaults to the symbol.")
	f.StringVar(&c.maturity, "maturity", "", "Maturity date (YYYY-MM-DD), certificates of deposit only.")
	f.Float64Var(&c.rate, "rate", 0, "Annual interest rate in percent, certificates of deposit only.")
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.env.usage(c)
	}

	req := request.CreateAssetRequest{
		Type:   strings.ToLower(f.Arg(0)),
		Symbol: f.Arg(1),
		Name:   c.name,
	}
	if req.Name == "" {
		req.Name = strings.ToUpper(req.Symbol)
	}
	if c.maturity != "" {
		req.MaturityDate = &c.maturity
	}
	if c.rate != 0 {
		req.InterestRate = &c.rate
	}

	return c.env.run(ctx, func(a *app.App) error {
		if err := validation.ValidateCreateAsset(req); err != nil {
			return err
		}
		asset, err := a.Services.Assets.CreateAsset(ctx, req)
		if err != nil {
			return err
		}
		c.env.printMarkdown(assetsMarkdown([]model.Asset{asset}))
		return nil
	})
}

type holdingsCmd struct {
	env *Env
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show positions, values and gains" }
func (*holdingsCmd) Usage() string {
	return `folio holdings

  Shows the portfolio summary and every holding, valued at the cached quotes.
  Run "folio refresh" first for current prices.
`
}

func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		summary, err := a.Services.Portfolio.GetSummary(ctx)
		if err != nil {
			return err
		}
		c.env.printMarkdown(holdingsMarkdown(summary))
		return nil
	})
}
