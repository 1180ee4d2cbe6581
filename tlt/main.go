package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/taxlot/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, effective only when invoked by the completion hooks.
	completion().Complete("tlt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// Unknown subcommands fall through to tlt-<subcommand> extensions.
	if flag.NArg() > 0 {
		if found, code := runExtension(commander, flag.Arg(0), flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

// runExtension only runs an extension for names the commander does not know.
func runExtension(commander *subcommands.Commander, name string, args []string) (bool, int) {
	known := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			known = true
		}
	})
	if known {
		return false, 0
	}
	return cmd.RunExtension(name, args)
}

// completion declares the command tree for shell completion.
func completion() *complete.Command {
	ledgerFiles := predict.Files("*.jsonl")
	dates := predict.Nothing
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": ledgerFiles,
			"currency":    predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
			"v":           predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"convert": {Flags: map[string]complete.Predictor{
				"format":  predict.Set{"csv", "json"},
				"o":       predict.Files("*"),
				"qif":     predict.Nothing,
				"records": predict.Nothing,
			}},
			"buy":      {Flags: map[string]complete.Predictor{"d": dates}},
			"sell":     {Flags: map[string]complete.Predictor{"d": dates}},
			"transfer": {Flags: map[string]complete.Predictor{"d": dates, "out": predict.Nothing}},
			"fmt":      {},
			"gains": {Flags: map[string]complete.Predictor{
				"period": predict.Set{"day", "week", "month", "quarter", "year"},
				"policy": predict.Set{"fifo", "lifo", "highest-cost", "lowest-cost"},
				"qif":    predict.Nothing,
			}},
			"lots":   {},
			"topic":  {},
			"assist": {},
		},
	}
}
