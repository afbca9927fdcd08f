/**************************************************************************************************
** Suggest command implementation for the filmroll CLI.
** Reads the exposure of a digital photo and prints aperture/shutter pairs for a film speed.
**************************************************************************************************/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/majorfi/filmroll/pkg/exif"
	"github.com/majorfi/filmroll/pkg/exposure"
	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type suggestOptions struct {
	Photo        string
	ExifJSON     string
	FNumber      float64
	ExposureTime string
	ExifISO      int
	FilmISO      int
	RollID       int64
	DebugDump    bool
}

var suggestOpts suggestOptions

func newSuggestCommand() *cobra.Command {
	var suggestCmd = &cobra.Command{
		Use:   "suggest",
		Short: "Suggest film settings from a photo's EXIF",
		Long: "Meter the scene from a digital photo's aperture, exposure time and ISO, re-base it to the film speed " +
			"and list the closest shutter speed for common apertures.",
		Example: "  filmroll suggest --photo IMG_0042.jpg --film-iso 400\n" +
			"  exiftool -j IMG_0042.jpg | filmroll suggest --exif-json - --roll 3\n" +
			"  filmroll suggest --fnumber 2 --exposure-time 1/250 --exif-iso 100 --film-iso 400",
		Run: runSuggest,
	}

	suggestCmd.Flags().StringVar(&suggestOpts.Photo, "photo", "", "Photo to read with exiftool")
	suggestCmd.Flags().StringVar(&suggestOpts.ExifJSON, "exif-json", "", "File holding `exiftool -j` output, - for stdin")
	suggestCmd.Flags().Float64Var(&suggestOpts.FNumber, "fnumber", 0, "Photo f-number")
	suggestCmd.Flags().StringVar(&suggestOpts.ExposureTime, "exposure-time", "", "Photo exposure time, e.g. 1/250 or 0.5")
	suggestCmd.Flags().IntVar(&suggestOpts.ExifISO, "exif-iso", 0, "Photo ISO")
	suggestCmd.Flags().IntVar(&suggestOpts.FilmISO, "film-iso", 0, "Film speed to expose for")
	suggestCmd.Flags().Int64Var(&suggestOpts.RollID, "roll", 0, "Use the film speed of a roll from the log")
	suggestCmd.MarkFlagsMutuallyExclusive("photo", "exif-json")
	suggestCmd.MarkFlagsMutuallyExclusive("film-iso", "roll")

	return suggestCmd
}

/**************************************************************************************************
** Main execution logic for the suggest command.
**
** @param cmd - Cobra command instance
** @param args - Command line arguments
**************************************************************************************************/
func runSuggest(cmd *cobra.Command, args []string) {
	logger := loadEnv()

	opts := suggestOpts
	opts.DebugDump = debugDump

	var db rollLog
	if opts.RollID != 0 {
		storeDB := openStore(logger)
		defer storeDB.Close()
		db = storeDB
	}

	exifData, err := readExif(cmd.InOrStdin(), opts, logger)
	if err != nil {
		logger.Fatalf("Error reading EXIF: %v", err)
	}
	if err := suggest(cmd.Context(), cmd.OutOrStdout(), db, exifData, opts); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

/**************************************************************************************************
** readExif picks the EXIF source: the photo through exiftool, a JSON dump, or the explicit flags.
**
** @param stdin - Input used when --exif-json is "-"
** @param opts - Command options
** @param logger - Logger passed to the exiftool reader
** @return utils.TExifData - The exposure triple, zero fields when missing
** @return error - Any error running exiftool or reading the dump
**************************************************************************************************/
func readExif(stdin io.Reader, opts suggestOptions, logger *logrus.Logger) (utils.TExifData, error) {
	switch {
	case opts.Photo != "":
		reader, err := exif.NewReader(logger)
		if err != nil {
			return utils.TExifData{}, err
		}
		defer reader.Close()
		return reader.Read(opts.Photo)

	case opts.ExifJSON != "":
		var (
			data []byte
			err  error
		)
		if opts.ExifJSON == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(opts.ExifJSON)
		}
		if err != nil {
			return utils.TExifData{}, err
		}
		return exif.ParseJSON(data)

	default:
		exposureTime := 0.0
		if opts.ExposureTime != "" {
			exposureTime = exposure.ShutterLabelToSeconds(opts.ExposureTime)
			if math.IsNaN(exposureTime) || math.IsInf(exposureTime, 0) {
				exposureTime = 0
			}
		}
		return utils.TExifData{FNumber: opts.FNumber, ExposureTime: exposureTime, ISO: opts.ExifISO}, nil
	}
}

/**************************************************************************************************
** suggest prints the suggestion table for exifData. Missing EXIF data is reported as a warning,
** not an error.
**
** @param ctx - Context for store access
** @param w - Output for the table
** @param db - Roll log, only used with --roll
** @param exifData - Exposure triple of the photo
** @param opts - Command options
** @return error - Missing film speed, unknown roll or bad tables
**************************************************************************************************/
func suggest(ctx context.Context, w io.Writer, db rollLog, exifData utils.TExifData, opts suggestOptions) error {
	filmISO := opts.FilmISO
	filmName := ""
	if opts.RollID != 0 {
		if db == nil {
			return errors.New("no roll log available")
		}
		roll, err := db.GetRoll(ctx, opts.RollID)
		if err != nil {
			return err
		}
		filmISO, filmName = roll.ISO, roll.Name
	}
	if filmISO <= 0 {
		return errors.New("a film speed is required, use --film-iso or --roll")
	}

	set, err := exposure.Suggest(exifData, filmISO, exposure.DefaultTables())
	if errors.Is(err, exposure.ErrMissingExifData) {
		utils.Warning(w, utils.CONDITION_MISSING_EXIF_DATA)
		return nil
	}
	if err != nil {
		return err
	}

	if filmName != "" {
		utils.Info(w, "Film:", fmt.Sprintf("%s (ISO %d)", filmName, filmISO))
	}
	utils.Info(w, "Photo:", fmt.Sprintf("f/%s %ss ISO %d", exposure.FormatAperture(exifData.FNumber), exposure.SecondsToLabel(exifData.ExposureTime), exifData.ISO))
	utils.Info(w, "Scene:", fmt.Sprintf("EV100 %.2f, EV %.2f at ISO %d", set.EV100, set.TargetEV, filmISO))

	best, _ := set.Closest()
	for _, s := range set.Suggestions {
		marker := " "
		if s.ApertureLabel == best.ApertureLabel {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s f/%-4s %-7s (exact %s) %s\n", marker, s.ApertureLabel, s.ShutterLabel, exposure.SecondsToLabel(s.TheoreticalSeconds), utils.Stops(s.DeviationStops))
	}

	if opts.DebugDump {
		utils.Pretty(w, exifData, set)
	}
	return nil
}
