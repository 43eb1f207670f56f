// Command mtgsim drives one simulated game between two decks (or a loaded
// puzzle state) to completion, end-state, or a configured stop condition,
// per spec.md §6's external CLI surface. Grounded on the teacher's
// cmd/mtgsim/main.go flag set and log-level wiring, moved from stdlib
// `flag` onto cobra/pflag (already in the teacher's go.mod but unused by
// its own CLI) since cobra is the idiom this corpus reaches for elsewhere
// for command-line tools.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mtgsim/mtgsim/internal/logger"
	"github.com/mtgsim/mtgsim/pkg/card"
	"github.com/mtgsim/mtgsim/pkg/controller"
	"github.com/mtgsim/mtgsim/pkg/deckfile"
	"github.com/mtgsim/mtgsim/pkg/engine"
	"github.com/mtgsim/mtgsim/pkg/exec"
	"github.com/mtgsim/mtgsim/pkg/puzzle"
	"github.com/mtgsim/mtgsim/pkg/snapshot"
	"github.com/mtgsim/mtgsim/pkg/stack"
	"github.com/mtgsim/mtgsim/pkg/state"
	"github.com/mtgsim/mtgsim/pkg/types"
)

// exitError carries the specific process exit code a failure maps to
// (spec §6 "Exit codes": 0 graceful/clean-stop, 1 engine invariant
// violation, 2 input/format errors), since cobra itself only knows
// success/failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func inputErr(err error) *exitError  { return &exitError{code: 2, err: err} }
func engineErr(err error) *exitError { return &exitError{code: 1, err: err} }

func main() {
	cmd := newRootCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// cliFlags mirrors spec.md §6's flag table directly, one field per flag.
type cliFlags struct {
	deck1, deck2               string
	seed, deckSeed             string
	fixedInputs1, fixedInputs2 string
	stopWhenFixedExhausted     bool
	stopEvery                  int
	startState                 string
	snapshotOutput             string
	draw1, draw2               string
	verbosity                  string
	numericChoices             bool
	controller1, controller2   string
}

func newRootCmd() *cobra.Command {
	var f cliFlags

	cmd := &cobra.Command{
		Use:   "mtgsim",
		Short: "Simulate one game of the two-player card engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.deck1, "deck1", "", "player A decklist (.dck)")
	flags.StringVar(&f.deck2, "deck2", "", "player B decklist (.dck)")
	flags.StringVar(&f.seed, "seed", "clock", `primary RNG seed (integer or "clock")`)
	flags.StringVar(&f.deckSeed, "deck-seed", "", "RNG seed for pre-game shuffles only (defaults to seed)")
	flags.StringVar(&f.fixedInputs1, "fixed-inputs1", "", "semicolon-separated pre-baked choices for player A")
	flags.StringVar(&f.fixedInputs2, "fixed-inputs2", "", "semicolon-separated pre-baked choices for player B")
	flags.BoolVar(&f.stopWhenFixedExhausted, "stop-when-fixed-exhausted", false, "halt at the next prompt once fixed-inputs run out")
	flags.IntVar(&f.stopEvery, "stop-every", 0, "halt every N choices made, producing a snapshot (0 disables)")
	flags.StringVar(&f.startState, "start-state", "", "load a puzzle state (.pzl) as the initial state, skipping deck setup")
	flags.StringVar(&f.snapshotOutput, "snapshot-output", "", "destination file for the next snapshot")
	flags.StringVar(&f.draw1, "draw1", "", "comma-separated card names to place in player A's opening hand")
	flags.StringVar(&f.draw2, "draw2", "", "comma-separated card names to place in player B's opening hand")
	flags.StringVar(&f.verbosity, "verbosity", "normal", "silent | normal | verbose")
	flags.BoolVar(&f.numericChoices, "numeric-choices", true, "interactive mode prompts one integer at a time")
	flags.StringVar(&f.controller1, "controller1", "random", "player A controller: random | interactive")
	flags.StringVar(&f.controller2, "controller2", "random", "player B controller: random | interactive")

	return cmd
}

func run(f cliFlags) error {
	if err := applyVerbosity(f.verbosity); err != nil {
		return inputErr(err)
	}

	if f.startState == "" && (f.deck1 == "" || f.deck2 == "") {
		return inputErr(errors.New("either --start-state or both --deck1 and --deck2 are required"))
	}

	seed, err := parseSeed(f.seed)
	if err != nil {
		return inputErr(err)
	}
	deckSeed := seed
	if f.deckSeed != "" {
		deckSeed, err = parseSeed(f.deckSeed)
		if err != nil {
			return inputErr(err)
		}
	}

	db, err := card.LoadCardDatabase()
	if err != nil {
		return inputErr(err)
	}

	g, err := buildInitialState(f, db, deckSeed)
	if err != nil {
		return inputErr(err)
	}

	stk := stack.New()
	x := exec.New(g, stk)

	controllers, descCtrls, err := buildControllers(f, seed, g)
	if err != nil {
		return inputErr(err)
	}

	eng := engine.New(g, stk, x, controllers)
	eng.StopConditions = buildStopConditions(f, descCtrls)

	res, err := eng.Run()
	if err != nil {
		return engineErr(err)
	}

	if f.snapshotOutput != "" && res.Stopped {
		if err := writeSnapshot(g, stk, f.snapshotOutput); err != nil {
			return engineErr(err)
		}
	}

	logger.LogMeta("game over: winner=%v reason=%q stopped=%v turn=%d", res.Winner, res.Reason, res.Stopped, g.Turn)
	return nil
}

func applyVerbosity(v string) error {
	switch v {
	case "silent":
		logger.SetSilent(true)
	case "normal", "":
		logger.SetLogLevel(types.GAME)
	case "verbose":
		logger.SetLogLevel(types.CARD)
	default:
		return errors.Errorf("unknown verbosity %q (want silent|normal|verbose)", v)
	}
	return nil
}

func buildInitialState(f cliFlags, db *card.CardDB, deckSeed uint64) (*state.GameState, error) {
	if f.startState != "" {
		g, meta, err := puzzle.Load(f.startState, db)
		if err != nil {
			return nil, err
		}
		logger.LogMeta("loaded puzzle %q: %s", meta.Name, meta.Goal)
		return g, nil
	}

	list1, err := deckfile.Load(f.deck1, db)
	if err != nil {
		return nil, err
	}
	list2, err := deckfile.Load(f.deck2, db)
	if err != nil {
		return nil, err
	}
	return buildFreshGame([2]*deckfile.Decklist{list1, list2}, deckSeed, [2][]string{splitList(f.draw1), splitList(f.draw2)})
}

func buildControllers(f cliFlags, seed uint64, g *state.GameState) ([2]controller.Controller, [2]*descriptorController, error) {
	var controllers [2]controller.Controller
	var descCtrls [2]*descriptorController

	kinds := [2]string{f.controller1, f.controller2}
	tokens := [2][]string{splitTokens(f.fixedInputs1), splitTokens(f.fixedInputs2)}

	for i := range controllers {
		c, dc, err := buildController(kinds[i], seed+uint64(i), tokens[i], g, f.numericChoices, os.Stdin, os.Stdout)
		if err != nil {
			return controllers, descCtrls, err
		}
		controllers[i] = c
		descCtrls[i] = dc
	}
	return controllers, descCtrls, nil
}

func buildStopConditions(f cliFlags, descCtrls [2]*descriptorController) []engine.StopCondition {
	var conds []engine.StopCondition

	if f.stopEvery > 0 {
		n := f.stopEvery
		conds = append(conds, func(g *state.GameState) bool {
			return g.Undo.ChoiceCount() >= n
		})
	}

	if f.stopWhenFixedExhausted {
		conds = append(conds, func(g *state.GameState) bool {
			any := false
			for _, dc := range descCtrls {
				if dc == nil {
					continue
				}
				any = true
				if !dc.Exhausted() {
					return false
				}
			}
			return any
		})
	}

	return conds
}

func writeSnapshot(g *state.GameState, stk *stack.Stack, path string) error {
	snap, err := snapshot.Save(g, stk)
	if err != nil {
		return errors.Wrap(err, "building snapshot")
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot file")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.LogMeta("error closing snapshot file %s: %v", path, cerr)
		}
	}()
	if err := snap.WriteTo(out); err != nil {
		return errors.Wrap(err, "writing snapshot")
	}
	logger.LogMeta("snapshot written to %s", path)
	return nil
}
