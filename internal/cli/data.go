package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/service"
)

type exportCmd struct {
	env    *Env
	format string
	output string
	asset  string
	kinds  string
	from   string
	to     string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions as CSV or JSON" }
func (*exportCmd) Usage() string {
	return `folio export [-format csv|json] [-o <file>] [-asset <symbol>] [-kind <k1,k2>] [-from <date>] [-to <date>]

  Writes postings oldest first to stdout or to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", service.FormatCSV, "Output format: csv or json.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.StringVar(&c.asset, "asset", "", "Only postings of this asset (symbol or id).")
	f.StringVar(&c.kinds, "kind", "", "Comma separated kinds.")
	f.StringVar(&c.from, "from", "", "Earliest date (YYYY-MM-DD).")
	f.StringVar(&c.to, "to", "", "Latest date (YYYY-MM-DD).")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return c.env.usage(c)
	}

	return c.env.run(ctx, func(a *app.App) error {
		assetID := ""
		if c.asset != "" {
			asset, err := resolveAsset(ctx, a, c.asset)
			if err != nil {
				return err
			}
			assetID = asset.ID
		}
		filter, err := request.ParseTransactionFilters(assetID, c.kinds, c.from, c.to)
		if err != nil {
			return err
		}

		var w io.Writer = c.env.Out
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", c.output, err)
			}
			defer file.Close()
			w = file
		}
		if err := a.Services.Export.Export(ctx, w, c.format, filter); err != nil {
			return err
		}
		if c.output != "" {
			fmt.Fprintf(c.env.Err, "Wrote %s\n", c.output)
		}
		return nil
	})
}

type snapshotCmd struct {
	env  *Env
	read bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "rewrite the widget snapshot from cached prices" }
func (*snapshotCmd) Usage() string {
	return `folio snapshot [-read]

  Rebuilds the widget snapshot file. With -read, prints the file as last written.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.read, "read", false, "Print the current snapshot file instead of rewriting it.")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		snapshots := a.Services.Snapshot
		if c.read {
			snap, err := snapshots.Read()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.env.Out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		snap, err := snapshots.Sync(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Wrote %s: %s across %d holdings, %d plans\n",
			snapshots.Path(), snap.TotalValueText, len(snap.Holdings), len(snap.Plans))
		return nil
	})
}
