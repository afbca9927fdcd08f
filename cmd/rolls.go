/**************************************************************************************************
** Roll log commands for the filmroll CLI.
** Manages the rolls loaded in a camera and lists the frames logged on them.
**************************************************************************************************/

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/majorfi/filmroll/pkg/exposure"
	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/spf13/cobra"
)

var rollISO int
var rollCamera string

func newRollsCommand() *cobra.Command {
	var rollsCmd = &cobra.Command{
		Use:   "rolls",
		Short: "Manage film rolls",
	}

	var addCmd = &cobra.Command{
		Use:     "add <name>",
		Short:   "Load a new roll",
		Example: `  filmroll rolls add "Portra 400" --iso 400 --camera "Nikon FM2"`,
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := loadEnv()
			db := openStore(logger)
			defer db.Close()
			if err := addRoll(cmd.Context(), cmd.OutOrStdout(), db, strings.Join(args, " "), rollISO, rollCamera); err != nil {
				logger.Fatalf("Error adding roll: %v", err)
			}
		},
	}
	addCmd.Flags().IntVar(&rollISO, "iso", 0, "Film speed the roll is shot at (required)")
	addCmd.Flags().StringVar(&rollCamera, "camera", "", "Camera the roll is loaded in")
	_ = addCmd.MarkFlagRequired("iso")

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List rolls, most recent first",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := loadEnv()
			db := openStore(logger)
			defer db.Close()
			if err := listRolls(cmd.Context(), cmd.OutOrStdout(), db); err != nil {
				logger.Fatalf("Error listing rolls: %v", err)
			}
		},
	}

	var deleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a roll and its frames",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := loadEnv()
			id, err := parseRollID(args[0])
			if err != nil {
				logger.Fatalf("%v", err)
			}
			db := openStore(logger)
			defer db.Close()
			if err := deleteRoll(cmd.Context(), cmd.OutOrStdout(), db, id); err != nil {
				logger.Fatalf("Error deleting roll: %v", err)
			}
		},
	}

	rollsCmd.AddCommand(addCmd, listCmd, deleteCmd)
	return rollsCmd
}

func newFramesCommand() *cobra.Command {
	var framesCmd = &cobra.Command{
		Use:   "frames",
		Short: "Inspect logged frames",
	}

	var listCmd = &cobra.Command{
		Use:   "list <roll-id>",
		Short: "List the frames of a roll",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := loadEnv()
			id, err := parseRollID(args[0])
			if err != nil {
				logger.Fatalf("%v", err)
			}
			db := openStore(logger)
			defer db.Close()
			if err := listFrames(cmd.Context(), cmd.OutOrStdout(), db, id); err != nil {
				logger.Fatalf("Error listing frames: %v", err)
			}
		},
	}

	framesCmd.AddCommand(listCmd)
	return framesCmd
}

func parseRollID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid roll id %q", raw)
	}
	return id, nil
}

func addRoll(ctx context.Context, w io.Writer, db rollLog, name string, iso int, camera string) error {
	roll, err := db.CreateRoll(ctx, utils.TFilm{Name: name, ISO: iso, Camera: camera})
	if err != nil {
		return err
	}
	utils.Success(w, fmt.Sprintf("Roll %d loaded: %s", roll.ID, formatRoll(roll)))
	return nil
}

func listRolls(ctx context.Context, w io.Writer, db rollLog) error {
	rolls, err := db.ListRolls(ctx)
	if err != nil {
		return err
	}
	if len(rolls) == 0 {
		utils.Warning(w, "No rolls loaded yet")
		return nil
	}
	for _, roll := range rolls {
		utils.Info(w, fmt.Sprintf("#%d", roll.ID), formatRoll(roll))
	}
	return nil
}

func deleteRoll(ctx context.Context, w io.Writer, db rollLog, id int64) error {
	if err := db.DeleteRoll(ctx, id); err != nil {
		return err
	}
	utils.Success(w, fmt.Sprintf("Roll %d deleted", id))
	return nil
}

/**************************************************************************************************
** listFrames prints the frames of a roll with their settings, EV and note.
**************************************************************************************************/
func listFrames(ctx context.Context, w io.Writer, db rollLog, rollID int64) error {
	roll, err := db.GetRoll(ctx, rollID)
	if err != nil {
		return err
	}
	frames, err := db.ListFrames(ctx, rollID)
	if err != nil {
		return err
	}

	utils.Info(w, "Roll:", formatRoll(roll))
	if len(frames) == 0 {
		utils.Warning(w, "No frames logged on this roll")
		return nil
	}
	for _, frame := range frames {
		aperture, _ := exposure.ParseAperture(frame.Aperture)
		state := exposure.ExposureState{Aperture: aperture, Shutter: frame.Shutter, ISO: frame.ISO}
		line := fmt.Sprintf("%-24s EV %5.2f  %s", state, frame.EV, frame.CreatedAt.Local().Format("2006-01-02 15:04"))
		if frame.Note != "" {
			line += "  " + frame.Note
		}
		utils.Info(w, fmt.Sprintf("%2d", frame.Number), line)
	}
	return nil
}

func formatRoll(roll utils.TFilm) string {
	parts := utils.RemoveEmptyStrings([]string{
		roll.Name,
		"ISO " + strconv.Itoa(roll.ISO),
		roll.Camera,
		roll.LoadedAt.Local().Format("2006-01-02"),
	})
	return strings.Join(parts, ", ")
}
