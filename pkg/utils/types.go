package utils

import "time"

/**************************************************************************************************
** TFilm represents a film roll loaded in a camera. The exposure engine only reads the ISO, the
** other fields are kept for the roll log.
**************************************************************************************************/
type TFilm struct {
	ID       int64     `json:"id"`       // Roll identifier in the store
	Name     string    `json:"name"`     // Film stock name, e.g. "Portra 400"
	ISO      int       `json:"iso"`      // Box speed (or the speed the roll is shot at)
	Camera   string    `json:"camera"`   // Camera the roll is loaded in
	LoadedAt time.Time `json:"loadedAt"` // When the roll was loaded
}

/**************************************************************************************************
** TFrame represents one exposed frame of a roll. Aperture and shutter are stored as their
** display labels, exactly as selected from the option tables.
**************************************************************************************************/
type TFrame struct {
	ID        int64     `json:"id"`        // Frame identifier in the store
	RollID    int64     `json:"rollId"`    // Owning roll
	Number    int       `json:"number"`    // Frame number on the roll, starting at 1
	Aperture  string    `json:"aperture"`  // Aperture label, e.g. "2.8"
	Shutter   string    `json:"shutter"`   // Shutter label, e.g. "1/125"
	ISO       int       `json:"iso"`       // ISO the frame was exposed at
	EV        float64   `json:"ev"`        // Exposure value of the settings, relative to ISO 100
	Note      string    `json:"note"`      // Free-form note
	CreatedAt time.Time `json:"createdAt"` // When the frame was logged
}

/**************************************************************************************************
** TExifData is the exposure triple read from a photo's EXIF block. A zero value means the field
** was missing or unreadable.
**************************************************************************************************/
type TExifData struct {
	FNumber      float64 `json:"fNumber"`      // Aperture f-number
	ExposureTime float64 `json:"exposureTime"` // Exposure time in seconds
	ISO          int     `json:"iso"`          // First value of ISOSpeedRatings
}

/**************************************************************************************************
** HasExposure reports whether all three exposure fields are present and positive.
**************************************************************************************************/
func (e TExifData) HasExposure() bool {
	return e.FNumber > 0 && e.ExposureTime > 0 && e.ISO > 0
}
