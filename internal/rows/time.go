package rows

import "time"

// Clock formats a wall-clock instant the way the capture screens and the
// backend expect it: HH:MM:SS.mmm.
func Clock(t time.Time) string {
	return t.Format("15:04:05.000")
}

var spanishWeekdays = map[time.Weekday]string{
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
	time.Sunday:    "domingo",
}

// Weekday returns the lowercase Spanish day name stamped into persisted
// payloads as diaSemana.
func Weekday(t time.Time) string {
	return spanishWeekdays[t.Weekday()]
}
