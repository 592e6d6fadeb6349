package cli

import (
	"context"
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

type plansCmd struct {
	env   *Env
	asset string
}

func (*plansCmd) Name() string     { return "plans" }
func (*plansCmd) Synopsis() string { return "list investment plans" }
func (*plansCmd) Usage() string {
	return `folio plans [-asset <symbol>]

  Lists investment plans with their progress and next purchase date.
`
}

func (c *plansCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Only plans for this asset (symbol or id).")
}

func (c *plansCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(a *app.App) error {
		assetID := ""
		if c.asset != "" {
			asset, err := resolveAsset(ctx, a, c.asset)
			if err != nil {
				return err
			}
			assetID = asset.ID
		}
		plans, err := a.Services.Plans.GetPlans(ctx, assetID)
		if err != nil {
			return err
		}
		c.env.printMarkdown(plansMarkdown(plans))
		return nil
	})
}

type addPlanCmd struct {
	env     *Env
	cadence string
	every   int
	start   string
	note    string
}

func (*addPlanCmd) Name() string     { return "add-plan" }
func (*addPlanCmd) Synopsis() string { return "create a dollar-cost averaging plan" }
func (*addPlanCmd) Usage() string {
	return `folio add-plan [-cadence weekly|biweekly|monthly|custom] [-every <days>] [-start <date>] [-note <text>] <symbol> <total> <purchases>

  Spreads total over the given number of purchases. A custom cadence needs -every.
`
}

func (c *addPlanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cadence, "cadence", string(model.CadenceMonthly), "Purchase cadence.")
	f.IntVar(&c.every, "every", 0, "Days between purchases for a custom cadence.")
	f.StringVar(&c.start, "start", time.Now().Format(time.DateOnly), "Date of the first purchase (YYYY-MM-DD).")
	f.StringVar(&c.note, "note", "", "Free text note.")
}

func (c *addPlanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return c.env.usage(c)
	}
	total, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		c.env.printError(fmt.Errorf("invalid total %q", f.Arg(1)))
		return subcommands.ExitUsageError
	}
	count, err := strconv.Atoi(f.Arg(2))
	if err != nil {
		c.env.printError(fmt.Errorf("invalid number of purchases %q", f.Arg(2)))
		return subcommands.ExitUsageError
	}

	return c.env.run(ctx, func(a *app.App) error {
		asset, err := resolveAsset(ctx, a, f.Arg(0))
		if err != nil {
			return err
		}
		req := request.CreatePlanRequest{
			AssetID:           asset.ID,
			TotalAmount:       total,
			NumberOfPurchases: count,
			Cadence:           c.cadence,
			CustomDays:        c.every,
			StartDate:         c.start,
			Note:              c.note,
		}
		if err := validation.ValidateCreatePlan(req); err != nil {
			return err
		}
		plan, err := a.Services.Plans.CreatePlan(ctx, req)
		if err != nil {
			return err
		}
		c.env.printMarkdown(plansMarkdown([]model.PlanResponse{plan}))
		return nil
	})
}

// planCmd acts on one plan.
type planCmd struct {
	env      *Env
	date     string
	quantity float64
	note     string
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "pause, resume, cancel or delete a plan, or record a purchase" }
func (*planCmd) Usage() string {
	return `folio plan pause|resume|cancel|delete <id>
folio plan [-d <date>] [-qty <units>] [-note <text>] purchase <id> <price>

  Changes the status of a plan or records its next scheduled purchase at price.
  The quantity defaults to the amount per purchase divided by price.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", time.Now().Format(time.DateOnly), "Purchase date (YYYY-MM-DD).")
	f.Float64Var(&c.quantity, "qty", 0, "Units bought, when not derived from the price.")
	f.StringVar(&c.note, "note", "", "Free text note for the purchase.")
}

var planActions = map[string]model.PlanStatus{
	"pause":  model.PlanPaused,
	"resume": model.PlanActive,
	"cancel": model.PlanCancelled,
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		return c.env.usage(c)
	}
	action, id := f.Arg(0), f.Arg(1)

	switch action {
	case "pause", "resume", "cancel":
		if f.NArg() != 2 {
			return c.env.usage(c)
		}
		return c.env.run(ctx, func(a *app.App) error {
			plan, err := a.Services.Plans.ChangeStatus(ctx, id, planActions[action])
			if err != nil {
				return err
			}
			c.env.printMarkdown(plansMarkdown([]model.PlanResponse{plan}))
			return nil
		})

	case "delete":
		if f.NArg() != 2 {
			return c.env.usage(c)
		}
		return c.env.run(ctx, func(a *app.App) error {
			if err := a.Services.Plans.DeletePlan(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(c.env.Out, "Deleted plan %s\n", id)
			return nil
		})

	case "purchase":
		if f.NArg() != 3 {
			return c.env.usage(c)
		}
		price, err := strconv.ParseFloat(f.Arg(2), 64)
		if err != nil {
			c.env.printError(fmt.Errorf("invalid price %q", f.Arg(2)))
			return subcommands.ExitUsageError
		}
		req := request.RecordPurchaseRequest{Date: c.date, PricePerUnit: price, Note: c.note}
		if c.quantity > 0 {
			req.Quantity = &c.quantity
		}
		return c.env.run(ctx, func(a *app.App) error {
			if err := validation.ValidateRecordPurchase(req); err != nil {
				return err
			}
			purchase, err := a.Services.Plans.RecordPurchase(ctx, id, req)
			if err != nil {
				return err
			}
			tx := purchase.Transaction
			fmt.Fprintf(c.env.Out, "Bought %s @ %s (%d of %d)\n",
				qty(tx.Quantity), money(tx.PricePerUnit), purchase.Plan.CompletedPurchases, purchase.Plan.NumberOfPurchases)
			return nil
		})
	}

	return c.env.usage(c)
}
