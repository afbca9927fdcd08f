// Package exif reads the exposure triple (FNumber, ExposureTime, ISO) of a photo, either by
// running exiftool on the file or from an `exiftool -j` dump.
package exif

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/majorfi/filmroll/pkg/exposure"
	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ErrNoMetadata is returned when exiftool or a dump yields no record at all.
var ErrNoMetadata = errors.New("no metadata returned")

/**************************************************************************************************
** Tag names tried, in order, for each field. Cameras and converters disagree on which one they
** fill, exiftool exposes all of them. ApertureValue and ShutterSpeedValue are left out: with
** `exiftool -n` they hold APEX values (Av, Tv), not an f-number or a duration. The composite
** Aperture and ShutterSpeed tags are real values with or without -n.
**************************************************************************************************/
var (
	fNumberTags      = []string{"FNumber", "Aperture"}
	exposureTimeTags = []string{"ExposureTime", "ShutterSpeed"}
	isoTags          = []string{"ISO", "ISOSpeedRatings", "PhotographicSensitivity", "RecommendedExposureIndex"}
)

/**************************************************************************************************
** Reader wraps a long-running exiftool process. Create it once, read as many files as needed and
** Close it.
**************************************************************************************************/
type Reader struct {
	et     *exiftool.Exiftool
	logger *logrus.Logger
}

/**************************************************************************************************
** NewReader starts exiftool. It fails when the exiftool binary is not installed.
**
** @param logger - Logger for per-field traces, discarded when nil
** @return *Reader - The reader
** @return error - Any error starting exiftool
**************************************************************************************************/
func NewReader(logger *logrus.Logger) (*Reader, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Reader{et: et, logger: logger}, nil
}

// Close stops the exiftool process.
func (r *Reader) Close() error {
	return r.et.Close()
}

/**************************************************************************************************
** Read extracts the exposure triple of one file. Missing tags are not an error, they are left at
** zero so the suggester can report missing EXIF data; only an unreadable file is.
**
** @param path - Photo to read
** @return utils.TExifData - The exposure triple
** @return error - Any error extracting metadata from the file
**************************************************************************************************/
func (r *Reader) Read(path string) (utils.TExifData, error) {
	fis := r.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return utils.TExifData{}, fmt.Errorf("%s: %w", path, ErrNoMetadata)
	}
	fi := fis[0]
	if fi.Err != nil {
		return utils.TExifData{}, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	data := FromFields(fi.Fields)
	r.logger.WithFields(logrus.Fields{
		"file":         path,
		"fNumber":      data.FNumber,
		"exposureTime": data.ExposureTime,
		"iso":          data.ISO,
	}).Debugf("EXIF read")
	if !data.HasExposure() {
		r.logger.Debugf("%s: %s", path, utils.CONDITION_MISSING_EXIF_DATA)
	}
	return data, nil
}

/**************************************************************************************************
** FromFields converts an exiftool field map (as decoded from its JSON output) to TExifData.
** Values may be numbers, numeric strings, fractions ("1/250") or lists, in which case the first
** element is used.
**************************************************************************************************/
func FromFields(fields map[string]interface{}) utils.TExifData {
	lookup := func(tags []string, parse func(string) float64) float64 {
		for _, tag := range tags {
			v, ok := fields[tag]
			if !ok {
				continue
			}
			if f := valueToFloat(v, parse); f > 0 {
				return f
			}
		}
		return 0
	}

	return utils.TExifData{
		FNumber:      lookup(fNumberTags, parseDecimal),
		ExposureTime: lookup(exposureTimeTags, exposure.ShutterLabelToSeconds),
		ISO:          int(math.Round(lookup(isoTags, parseDecimal))),
	}
}

func valueToFloat(v interface{}, parse func(string) float64) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		return positive(parse(firstListItem(value)))
	case []interface{}:
		if len(value) == 0 {
			return 0
		}
		return valueToFloat(value[0], parse)
	}
	return 0
}

/**************************************************************************************************
** ParseJSON reads an `exiftool -j` dump. The dump is an array with one object per file; only the
** first object is used. A bare object is accepted as well.
**
** @param data - Raw JSON
** @return utils.TExifData - The exposure triple, zero fields when tags are missing
** @return error - When data is not JSON or holds no record
**************************************************************************************************/
func ParseJSON(data []byte) (utils.TExifData, error) {
	if !gjson.ValidBytes(data) {
		return utils.TExifData{}, fmt.Errorf("invalid exiftool JSON")
	}
	record := gjson.ParseBytes(data)
	if record.IsArray() {
		items := record.Array()
		if len(items) == 0 {
			return utils.TExifData{}, ErrNoMetadata
		}
		record = items[0]
	}
	if !record.IsObject() {
		return utils.TExifData{}, ErrNoMetadata
	}

	lookup := func(tags []string, parse func(string) float64) float64 {
		for _, tag := range tags {
			if f := resultToFloat(record.Get(tag), parse); f > 0 {
				return f
			}
		}
		return 0
	}

	return utils.TExifData{
		FNumber:      lookup(fNumberTags, parseDecimal),
		ExposureTime: lookup(exposureTimeTags, exposure.ShutterLabelToSeconds),
		ISO:          int(math.Round(lookup(isoTags, parseDecimal))),
	}, nil
}

func resultToFloat(r gjson.Result, parse func(string) float64) float64 {
	switch {
	case !r.Exists():
		return 0
	case r.IsArray():
		items := r.Array()
		if len(items) == 0 {
			return 0
		}
		return resultToFloat(items[0], parse)
	case r.Type == gjson.Number:
		return r.Float()
	case r.Type == gjson.String:
		return positive(parse(firstListItem(r.String())))
	}
	return 0
}

// firstListItem keeps the first entry of a comma separated tag value ("100, 100").
func firstListItem(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(first)
}

func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// positive maps NaN, infinities and non-positive values to 0 ("missing").
func positive(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	return f
}
