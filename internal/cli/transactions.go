package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/validation"
)

// recordCmd records one logical transaction of a fixed kind.
type recordCmd struct {
	env    *Env
	kind   model.TransactionKind
	date   string
	note   string
	noCash bool
}

func (c *recordCmd) Name() string {
	if c.kind == model.KindWithdrawal {
		return "withdraw"
	}
	return string(c.kind)
}

func (c *recordCmd) Synopsis() string {
	switch c.kind {
	case model.KindBuy:
		return "record a purchase, paid from cash"
	case model.KindSell:
		return "record a sale, paid into cash"
	case model.KindDividend:
		return "record a dividend, paid into cash"
	case model.KindInterest:
		return "record interest income, paid into cash"
	case model.KindDeposit:
		return "add money to a cash asset"
	}
	return "take money out of a cash asset"
}

func (c *recordCmd) Usage() string {
	switch c.kind {
	case model.KindBuy, model.KindSell:
		return fmt.Sprintf(`folio %s [-d <date>] [-note <text>] [-no-cash] <symbol> <quantity> <price>

  Records a %s of quantity units at price. The cash asset is adjusted by the
  total unless -no-cash is given.
`, c.Name(), c.kind)
	case model.KindDividend:
		return `folio dividend [-d <date>] [-note <text>] [-no-cash] <symbol> <shares> <per-share>

  Records a dividend of per-share on shares units.
`
	case model.KindInterest:
		return `folio interest [-d <date>] [-note <text>] [-no-cash] <symbol> <amount>

  Records interest earned on a certificate of deposit or treasury.
`
	}
	return fmt.Sprintf(`folio %s [-d <date>] [-note <text>] [<cash-symbol>] <amount>

  Records a %s on the given cash asset, or on the default one.
`, c.Name(), c.kind)
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", time.Now().Format(time.DateOnly), "Transaction date (YYYY-MM-DD).")
	f.StringVar(&c.note, "note", "", "Free text note.")
	if !c.kind.IsCashKind() {
		f.BoolVar(&c.noCash, "no-cash", false, "Do not adjust the cash asset.")
	}
}

// request builds the create request from positional arguments. ref is the asset
// reference, empty for a cash kind on the default cash asset.
func (c *recordCmd) request(args []string) (ref string, req request.CreateTransactionRequest, err error) {
	req = request.CreateTransactionRequest{Kind: string(c.kind), Date: c.date, Note: c.note}
	if c.noCash {
		linkCash := false
		req.LinkCash = &linkCash
	}

	nums := func(want int) ([]float64, error) {
		if len(args) != want {
			return nil, errWrongArgs
		}
		out := make([]float64, 0, want-1)
		for _, a := range args[1:] {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", a)
			}
			out = append(out, v)
		}
		return out, nil
	}

	switch c.kind {
	case model.KindBuy, model.KindSell, model.KindDividend:
		v, err := nums(3)
		if err != nil {
			return "", req, err
		}
		req.Quantity, req.PricePerUnit = v[0], v[1]
		return args[0], req, nil

	case model.KindInterest:
		v, err := nums(2)
		if err != nil {
			return "", req, err
		}
		req.Quantity, req.PricePerUnit = 1, v[0]
		return args[0], req, nil
	}

	// deposit and withdrawal
	if len(args) == 1 {
		args = append([]string{""}, args...)
	}
	v, err := nums(2)
	if err != nil {
		return "", req, err
	}
	req.Amount = v[0]
	return args[0], req, nil
}

var errWrongArgs = errors.New("wrong number of arguments")

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ref, req, err := c.request(f.Args())
	if errors.Is(err, errWrongArgs) {
		return c.env.usage(c)
	}
	if err != nil {
		c.env.printError(err)
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(a *app.App) error {
		var asset model.Asset
		var err error
		if ref == "" {
			asset, err = a.Services.Settings.CashAsset(ctx)
		} else {
			asset, err = resolveAsset(ctx, a, ref)
		}
		if err != nil {
			return err
		}
		req.AssetID = asset.ID

		if err := validation.ValidateCreateTransaction(req); err != nil {
			return err
		}
		journal, err := a.Services.Transaction.CreateTransaction(ctx, req)
		if err != nil {
			return err
		}
		c.env.printMarkdown(journalMarkdown(journal))
		return nil
	})
}

type txCmd struct {
	env    *Env
	asset  string
	kinds  string
	from   string
	to     string
	head   int
	delete bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list, show or delete transactions" }
func (*txCmd) Usage() string {
	return `folio tx [-asset <symbol>] [-kind <k1,k2>] [-from <date>] [-to <date>] [-head <n>] [-delete] [<id>]

  Lists postings newest first. With an id, shows the logical transaction it
  belongs to; with -delete, removes that whole transaction.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Only postings of this asset (symbol or id).")
	f.StringVar(&c.kinds, "kind", "", "Comma separated kinds: buy, sell, dividend, interest, deposit, withdrawal.")
	f.StringVar(&c.from, "from", "", "Earliest date (YYYY-MM-DD).")
	f.StringVar(&c.to, "to", "", "Latest date (YYYY-MM-DD).")
	f.IntVar(&c.head, "head", 0, "Show only the newest N postings.")
	f.BoolVar(&c.delete, "delete", false, "Delete the transaction with the given id.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 || (c.delete && f.NArg() != 1) {
		return c.env.usage(c)
	}

	if f.NArg() == 1 {
		id := f.Arg(0)
		return c.env.run(ctx, func(a *app.App) error {
			if c.delete {
				if err := a.Services.Transaction.DeleteTransaction(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(c.env.Out, "Deleted transaction %s\n", id)
				return nil
			}
			journal, err := a.Services.Transaction.GetJournal(ctx, id)
			if err != nil {
				return err
			}
			c.env.printMarkdown(journalMarkdown(journal))
			return nil
		})
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
		rows, err := a.Services.Transaction.GetTransactions(ctx, filter)
		if err != nil {
			return err
		}
		if c.head > 0 && len(rows) > c.head {
			rows = rows[:c.head]
		}
		c.env.printMarkdown(transactionsMarkdown(rows))
		return nil
	})
}
