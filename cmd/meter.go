/**************************************************************************************************
** Meter command implementation for the filmroll CLI.
** Runs one linked editing session: start from a metered EV and a triple, apply gestures, print
** the resolved exposure and optionally log it as a frame.
**************************************************************************************************/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/majorfi/filmroll/pkg/exposure"
	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

/**************************************************************************************************
** rollLog is the part of the store the commands use.
**************************************************************************************************/
type rollLog interface {
	CreateRoll(ctx context.Context, roll utils.TFilm) (utils.TFilm, error)
	GetRoll(ctx context.Context, id int64) (utils.TFilm, error)
	ListRolls(ctx context.Context) ([]utils.TFilm, error)
	DeleteRoll(ctx context.Context, id int64) error
	AddFrame(ctx context.Context, frame utils.TFrame) (utils.TFrame, error)
	ListFrames(ctx context.Context, rollID int64) ([]utils.TFrame, error)
}

type meterOptions struct {
	TargetEV     float64
	Aperture     string
	Shutter      string
	ISO          string
	RollID       int64
	Lock         string
	Sets         []string
	FullStopOnly bool
	Commit       bool
	Note         string
	DebugDump    bool
}

var meterOpts meterOptions

func newMeterCommand() *cobra.Command {
	var meterCmd = &cobra.Command{
		Use:   "meter",
		Short: "Resolve a linked exposure for a metered EV",
		Long: "Start from a metered EV (at ISO 100) and a starting triple, then apply --set gestures in order. " +
			"Each gesture keeps the EV by adjusting the other controls in priority order, skipping the locked one.",
		Example: "  filmroll meter --ev 12 --aperture 2.8 --shutter 1/125 --iso 100 --set aperture=8 --lock iso",
		Run:     runMeter,
	}

	meterCmd.Flags().Float64Var(&meterOpts.TargetEV, "ev", 0, "Metered scene EV at ISO 100 (required)")
	meterCmd.Flags().StringVar(&meterOpts.Aperture, "aperture", utils.DefaultApertureLabel, "Starting aperture, e.g. 2.8 or f/2.8")
	meterCmd.Flags().StringVar(&meterOpts.Shutter, "shutter", utils.DefaultShutterLabel, "Starting shutter speed, e.g. 1/125 or 0.5")
	meterCmd.Flags().StringVar(&meterOpts.ISO, "iso", "100", "Starting ISO")
	meterCmd.Flags().Int64Var(&meterOpts.RollID, "roll", 0, "Select a roll from the log: its ISO is pinned and locked")
	meterCmd.Flags().StringVar(&meterOpts.Lock, "lock", "", "Lock a control: aperture, shutter or iso")
	meterCmd.Flags().StringArrayVar(&meterOpts.Sets, "set", nil, "Gesture as control=value, repeatable and applied in order")
	meterCmd.Flags().BoolVar(&meterOpts.Commit, "commit", false, "Log the resolved exposure as a frame of --roll")
	meterCmd.Flags().StringVar(&meterOpts.Note, "note", "", "Note stored with the committed frame")
	_ = meterCmd.MarkFlagRequired("ev")

	return meterCmd
}

/**************************************************************************************************
** Main execution logic for the meter command.
**
** @param cmd - Cobra command instance
** @param args - Command line arguments
**************************************************************************************************/
func runMeter(cmd *cobra.Command, args []string) {
	logger := loadEnv()

	opts := meterOpts
	opts.FullStopOnly = fullStopOnly
	opts.DebugDump = debugDump
	if err := validateMeterOptions(opts); err != nil {
		logger.Fatalf("Error: %v", err)
	}

	var db rollLog
	if opts.RollID != 0 || opts.Commit {
		storeDB := openStore(logger)
		defer storeDB.Close()
		db = storeDB
	}

	if err := meter(cmd.Context(), cmd.OutOrStdout(), db, opts, logger); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

/**************************************************************************************************
** validateMeterOptions rejects flag combinations that cannot work, before anything is opened.
**************************************************************************************************/
func validateMeterOptions(opts meterOptions) error {
	if opts.Commit && opts.RollID == 0 {
		return errCommitNeedsRoll
	}
	return nil
}

var errCommitNeedsRoll = errors.New("--commit needs --roll")

/**************************************************************************************************
** meter runs the session described by opts and prints every step to w.
**
** @param ctx - Context for store access
** @param w - Output for the human readable report
** @param db - Roll log, may be nil when neither a roll nor a commit is requested
** @param opts - Command options
** @param logger - Logger passed to the session
** @return error - Any input, resolver or store error
**************************************************************************************************/
func meter(ctx context.Context, w io.Writer, db rollLog, opts meterOptions, logger *logrus.Logger) error {
	if err := validateMeterOptions(opts); err != nil {
		return err
	}
	session, err := exposure.NewSession(exposure.SessionConfig{
		TargetEV:     opts.TargetEV,
		Aperture:     opts.Aperture,
		Shutter:      opts.Shutter,
		ISO:          opts.ISO,
		FullStopOnly: opts.FullStopOnly,
	}, logger)
	if err != nil {
		return err
	}
	session.OnProgrammaticUpdate = func(v exposure.Variable, index int) {
		if index >= 0 {
			logger.Debugf("%s picker moved to %s", v, session.Options(v)[index])
		}
	}

	utils.Info(w, "Target:", fmt.Sprintf("EV %.2f", session.TargetEV()))
	utils.Info(w, "Start:", session.State().String())

	lock, err := exposure.ParseVariable(opts.Lock)
	if err != nil {
		return err
	}
	if err := session.SetLock(lock); err != nil {
		return err
	}

	if opts.RollID != 0 {
		if db == nil {
			return errors.New("no roll log available")
		}
		roll, err := db.GetRoll(ctx, opts.RollID)
		if err != nil {
			return err
		}
		if lock != exposure.None && lock != exposure.ISO {
			utils.Warning(w, fmt.Sprintf("--lock %s replaced by the film's ISO lock", lock))
		}
		res, err := session.SelectFilm(&roll)
		if err != nil {
			return err
		}
		utils.Info(w, "Film:", fmt.Sprintf("%s (ISO %d)", roll.Name, roll.ISO))
		printResolution(w, res)
	}

	for _, set := range opts.Sets {
		key, value, ok := utils.SplitKeyValue(set)
		if !ok {
			return fmt.Errorf("invalid --set %q, expected control=value", set)
		}
		v, err := exposure.ParseVariable(key)
		if err != nil {
			return err
		}
		res, err := session.Select(v, value)
		if errors.Is(err, exposure.ErrVariableLocked) {
			utils.Warning(w, fmt.Sprintf("%s is locked, --set %s ignored", v, set))
			continue
		}
		if err != nil {
			return err
		}
		utils.Info(w, "Set:", fmt.Sprintf("%s %s", v, session.State().Label(v)))
		printResolution(w, res)
	}

	state := session.State()
	utils.Info(w, "Exposure:", state.String())
	utils.Info(w, "Lock:", session.Lock())
	utils.Info(w, "Deviation:", utils.Stops(session.Deviation()))

	if opts.DebugDump {
		utils.Pretty(w, state, session.Snapshot())
	}

	if !opts.Commit {
		return nil
	}
	film := session.Film()
	if film == nil || db == nil {
		return errCommitNeedsRoll
	}
	frame := session.Snapshot()
	frame.Note = opts.Note
	stored, err := db.AddFrame(ctx, frame)
	if err != nil {
		return fmt.Errorf("log frame: %w", err)
	}
	utils.Success(w, fmt.Sprintf("Frame %d logged on %s: %s", stored.Number, film.Name, state))
	return nil
}

/**************************************************************************************************
** printResolution prints the resolver's adjustments and the conditions it ran into.
**************************************************************************************************/
func printResolution(w io.Writer, res exposure.Resolution) {
	for _, adj := range res.Adjustments {
		fmt.Fprintf(w, "    %s %s -> %s\n", adj.Variable, adj.From, adj.To)
		if adj.HitLimit {
			utils.Warning(w, fmt.Sprintf("%s %s", adj.Variable, utils.CONDITION_LIMIT_REACHED))
		}
	}
	if res.NoOp {
		utils.Warning(w, utils.CONDITION_TARGET_UNREACHABLE)
	}
}
