package utils

import (
	"math"
	"strconv"
	"strings"
)

/**************************************************************************************************
** RemoveEmptyStrings removes all empty strings from a string array and returns a new array
** without the empty strings. Preserves the order of non-empty strings.
**
** @param arr - Array to process
** @return []string - New array containing only non-empty strings
**************************************************************************************************/
func RemoveEmptyStrings(arr []string) []string {
	result := make([]string, 0, len(arr))

	for _, str := range arr {
		if str != "" {
			result = append(result, str)
		}
	}

	return result
}

/**************************************************************************************************
** Contains checks if a string is present in a slice of strings.
**
** @param list - Slice of strings to search
** @param s - String to search for
** @return bool - True if string is present in slice, false otherwise
**************************************************************************************************/
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

/**************************************************************************************************
** SplitKeyValue splits a "key=value" pair, trimming whitespace on both sides. The key is
** lower-cased so flags like "Aperture=2" and "aperture=2" are the same.
**
** @param pair - The raw pair
** @return key - Lower-cased key
** @return value - Trimmed value
** @return ok - False when the pair has no '=' or an empty key
**************************************************************************************************/
func SplitKeyValue(pair string) (string, string, bool) {
	key, value, found := strings.Cut(pair, "=")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

/**************************************************************************************************
** FormatStops renders a signed stop value with one decimal, e.g. "+0.3" or "-1.0". Values that
** round to zero are printed as "0.0" without a sign.
**************************************************************************************************/
func FormatStops(stops float64) string {
	rounded := math.Round(stops*10) / 10
	if rounded == 0 {
		return "0.0"
	}
	s := strconv.FormatFloat(rounded, 'f', 1, 64)
	if rounded > 0 {
		return "+" + s
	}
	return s
}

/**************************************************************************************************
** BoolToString converts a boolean value to its string representation ("true" or "false").
**************************************************************************************************/
func BoolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
