/**************************************************************************************************
** Main entry point for the filmroll CLI. This tool keeps a film camera's exposure triple linked
** to a metered EV, suggests film settings from a digital photo's EXIF and logs exposed frames.
**************************************************************************************************/

package main

import (
	"os"

	"github.com/spf13/cobra"
)

/**************************************************************************************************
** Application entry point. Builds the command tree and reports a non-zero exit status on error.
**************************************************************************************************/
func main() {
	if err := CreateRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

/**************************************************************************************************
** CreateRootCommand sets up the CLI command structure using Cobra, including all available
** commands and their associated flags.
**
** @return *cobra.Command - The root command
**************************************************************************************************/
func CreateRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "filmroll",
		Short: "Film exposure companion",
		Long:  "Keep aperture, shutter and ISO linked to a metered EV, suggest film settings from EXIF and log your frames.",
	}

	bindFlags(rootCmd)

	rootCmd.AddCommand(newMeterCommand())
	rootCmd.AddCommand(newSuggestCommand())
	rootCmd.AddCommand(newRollsCommand())
	rootCmd.AddCommand(newFramesCommand())

	return rootCmd
}

/**************************************************************************************************
** bindFlags registers the persistent flags shared by every subcommand.
**************************************************************************************************/
func bindFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Roll log database (or set FILMROLL_DB env var, default ~/.filmroll.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (or set LOG_LEVEL env var)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format, text or json (or set LOG_FORMAT env var)")
	rootCmd.PersistentFlags().BoolVar(&fullStopOnly, "full-stop", false, "Restrict shutter speeds to full stops (or set FULL_STOP_ONLY=true)")
	rootCmd.PersistentFlags().BoolVar(&debugDump, "debug-dump", false, "Dump internal state after each command (or set DEBUG_DUMP=true)")
}
