package cli

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/ndewijer/folio/internal/model"
)

// Completion builds a shell completion tree from the commands registered on c.
// Flags are discovered through each command's SetFlags.
//
// Install with COMP_INSTALL=1 folio.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}

	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)

		sub := &complete.Command{
			Flags: map[string]complete.Predictor{},
			Args:  argPredictor(cmd.Name()),
		}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = flagPredictor(f)
		})
		root.Sub[cmd.Name()] = sub
	})

	return root
}

func flagPredictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}

	switch f.Name {
	case "format":
		return predict.Set{"csv", "json"}
	case "cadence":
		return predict.Set{
			string(model.CadenceWeekly), string(model.CadenceBiweekly),
			string(model.CadenceMonthly), string(model.CadenceCustom),
		}
	case "kind":
		return predict.Set{
			string(model.KindBuy), string(model.KindSell), string(model.KindDividend),
			string(model.KindInterest), string(model.KindDeposit), string(model.KindWithdrawal),
		}
	case "o":
		return predict.Files("*")
	}
	return predict.Something
}

func argPredictor(name string) complete.Predictor {
	switch name {
	case "add-asset":
		types := make(predict.Set, 0, len(model.AssetTypes))
		for _, t := range model.AssetTypes {
			types = append(types, string(t))
		}
		return types
	case "plan":
		return predict.Set{"pause", "resume", "cancel", "delete", "purchase"}
	}
	return nil
}
