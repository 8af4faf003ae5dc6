package trend

// DefaultAdherenceDays is the default window for AdherenceStats.
const DefaultAdherenceDays = 28

// Adherence measures tracking discipline over a window. All values are in [0, 1].
type Adherence struct {
	LoggingAdherence float64 `json:"logging_adherence"` // distinct logged days / calendar span
	CalorieAdherence float64 `json:"calorie_adherence"`
	ProteinAdherence float64 `json:"protein_adherence"`
}

// AdherenceStats looks at the most recent days logs. Logging adherence counts
// distinct dates against the number of calendar days the window spans, so a
// sparse history scores below 1 even when every log is complete.
func AdherenceStats(logs []DailyLog, days int) (Adherence, bool) {
	if days <= 0 || len(logs) < days {
		return Adherence{}, false
	}
	window := recent(logs, days)

	span := daysBetween(window[0].Date, window[len(window)-1].Date) + 1
	logged := make(map[int64]struct{}, len(window))
	for _, l := range window {
		logged[civilDay(l.Date).Unix()] = struct{}{}
	}

	return Adherence{
		LoggingAdherence: float64(len(logged)) / span,
		CalorieAdherence: fractionWhere(window, hasCalories),
		ProteinAdherence: fractionWhere(window, hasProtein),
	}, true
}
