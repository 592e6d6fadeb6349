package cli

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/logging"
)

type refreshCmd struct {
	env *Env
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch current quotes and update the widget snapshot" }
func (*refreshCmd) Usage() string {
	return `folio refresh

  Fetches a quote for every quoted asset. Symbols that fail keep their previous
  price and are listed at the end.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		result, err := a.Services.Prices.Refresh(ctx)
		if err != nil {
			return err
		}
		if _, err := a.Services.Snapshot.Sync(ctx); err != nil {
			logging.Get().Warnw("snapshot sync after refresh failed", "error", err)
		}
		c.env.printMarkdown(refreshMarkdown(result))
		return nil
	})
}

type newsCmd struct {
	env   *Env
	limit int
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "show recent headlines for held symbols" }
func (*newsCmd) Usage() string {
	return `folio news [-n <count>] [<symbol>]

  Shows recent headlines for every quoted asset, or for one symbol.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 5, "Headlines per symbol.")
}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 || c.limit < 1 {
		return c.env.usage(c)
	}
	symbol := strings.ToUpper(f.Arg(0))

	return c.env.run(ctx, func(a *app.App) error {
		feed, err := a.Services.News.GetNews(ctx, symbol, c.limit)
		if err != nil {
			return err
		}
		c.env.printMarkdown(newsMarkdown(feed))
		return nil
	})
}

type insightCmd struct {
	env *Env
}

func (*insightCmd) Name() string     { return "insight" }
func (*insightCmd) Synopsis() string { return "ask the AI model for a commentary on the portfolio" }
func (*insightCmd) Usage() string {
	return `folio insight

  Sends the portfolio summary and recent headlines to the configured model.
  Needs AI_API_KEY or a key stored in settings.
`
}

func (*insightCmd) SetFlags(*flag.FlagSet) {}

func (c *insightCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		insight, err := a.Services.Insight.Generate(ctx)
		if err != nil {
			return err
		}
		c.env.printMarkdown(insight.Markdown + "\n")
		return nil
	})
}
