package utils

/**************************************************************************************************
** TimeFormat is the standard format for all time values stored or printed by the application.
**************************************************************************************************/
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

/**************************************************************************************************
** Fallback values used when an external or initial exposure input cannot be read.
**************************************************************************************************/
const (
	DefaultApertureLabel = "2.8"
	DefaultShutterLabel  = "1/125"
	DefaultISO           = 100
)

/**************************************************************************************************
** AutoShutterLabel is the sentinel shutter label for cameras metering the shutter themselves.
** It converts to +Inf seconds, meaning "no constraint".
**************************************************************************************************/
const AutoShutterLabel = "Auto"

/**************************************************************************************************
** DefaultDatabaseName is the file name of the roll log, created in the home directory unless
** FILMROLL_DB or --db points elsewhere.
**************************************************************************************************/
const DefaultDatabaseName = ".filmroll.db"

/**************************************************************************************************
** Condition messages surfaced to the user
**************************************************************************************************/
var CONDITION_MISSING_EXIF_DATA = "missing EXIF data"
var CONDITION_TARGET_UNREACHABLE = "target EV cannot be reached, both dependent settings are locked"
var CONDITION_LIMIT_REACHED = "setting clamped to the end of its range"
