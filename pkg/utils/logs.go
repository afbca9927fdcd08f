// Package utils provides the shared record types, constants and small console helpers used by
// the filmroll CLI. The printers below write coloured, human oriented lines; structured logging
// goes through logrus.
package utils

import (
	"fmt"
	"io"
	"math"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

var colorGreen = color.New(color.FgGreen).Add(color.Bold).SprintFunc()
var colorRed = color.New(color.FgRed).Add(color.Bold).SprintFunc()
var colorYellow = color.New(color.FgYellow).Add(color.Bold).SprintFunc()
var colorBlue = color.New(color.FgBlue).Add(color.Bold).SprintFunc()
var colorCyan = color.New(color.FgCyan).SprintFunc()

// StopsTolerance is the deviation under which an exposure is printed as "on target".
const StopsTolerance = 1.0 / 6

// Success prints a success line
func Success(w io.Writer, success interface{}) {
	fmt.Fprintf(w, "%s %s\n", colorGreen(`[OK]`), colorCyan(success))
}

// Warning prints a warning line, used for recoverable conditions such as missing EXIF data
func Warning(w io.Writer, warning interface{}) {
	fmt.Fprintf(w, "%s %s\n", colorYellow(`[WARNING]`), colorYellow(warning))
}

// Info prints a label/value line
func Info(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %v\n", colorBlue(label), value)
}

/**************************************************************************************************
** Stops colours a signed stop deviation: green when within StopsTolerance of the target, yellow
** when overexposed and red when underexposed. A deviation within the tolerance is printed as
** "0.0 EV" so an on-target exposure never reads as off by a tenth.
**
** @param stops - Signed deviation in stops, positive = overexposed
** @return string - The formatted, coloured deviation
**************************************************************************************************/
func Stops(stops float64) string {
	if math.Abs(stops) <= StopsTolerance {
		return colorGreen(FormatStops(0) + " EV")
	}
	label := FormatStops(stops) + " EV"
	switch {
	case stops > 0:
		return colorYellow(label)
	default:
		return colorRed(label)
	}
}

// Pretty function disasemble a variable and display it's struct and values
func Pretty(w io.Writer, variable ...interface{}) {
	cfg := spew.ConfigState{Indent: "    ", DisablePointerAddresses: true, SortKeys: true}
	fmt.Fprintf(w, "%s", colorYellow("----------------------------------\n"))
	for _, each := range variable {
		cfg.Fdump(w, each)
	}
	fmt.Fprintf(w, "%s", colorYellow("----------------------------------\n"))
}
