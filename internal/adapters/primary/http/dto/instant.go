package dto

import "time"

// instantLayout renders timestamps minute-precise in GMT, matching the
// format clients already parse.
const instantLayout = "2006-01-02 15:04 MST"

var gmt = time.FixedZone("GMT", 0)

func FormatInstant(t time.Time) string {
	return t.In(gmt).Format(instantLayout)
}

func ParseInstant(s string) (time.Time, error) {
	return time.ParseInLocation(instantLayout, s, gmt)
}
