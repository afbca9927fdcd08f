package exposure

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable is returned when an option table has no entries.
	ErrEmptyTable = errors.New("empty option table")
	// ErrInvalidTarget is returned for a NaN target value or target EV.
	ErrInvalidTarget = errors.New("invalid target value")
	// ErrUnknownVariable is returned for a Variable outside Aperture, Shutter and ISO.
	ErrUnknownVariable = errors.New("unknown exposure variable")
	// ErrInvalidIndex is returned when a gesture selects an index outside the control's table.
	ErrInvalidIndex = errors.New("index out of range")
	// ErrLockHeldByFilm is returned when the lock is changed while a film roll pins the ISO.
	ErrLockHeldByFilm = errors.New("lock is held by the selected film")
	// ErrMissingExifData is returned by Suggest when FNumber, ExposureTime or ISO is absent.
	ErrMissingExifData = errors.New("missing EXIF data")
)

func emptyTableError(name string) error {
	return fmt.Errorf("%s: %w", name, ErrEmptyTable)
}
