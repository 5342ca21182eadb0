package domain

import "fmt"

// Progress is the completion of one request measured in its category's unit.
type Progress struct {
	Expected   float64
	Completed  float64
	Percentage float64
	Label      string
}

// CalculateProgress measures req against its sessions. Planned sessions are
// ignored; the result never has a percentage outside [0, 100].
func CalculateProgress(req Request, sessions []Session) Progress {
	performed := performedSessions(sessions)

	switch req.Category {
	case CategoryIrradiation:
		d, ok := req.Detail.(IrradiationDetail)
		if !ok {
			return noDetails()
		}
		var units float64
		for _, s := range performed {
			units += s.Units
		}
		expected := float64(d.Canisters)
		return newProgress(expected, units, fmt.Sprintf("%s/%s canisters", formatNumber(units), formatNumber(expected)))

	case CategoryDosimetry:
		d, ok := req.Detail.(DosimetryDetail)
		if !ok {
			return noDetails()
		}
		months := map[string]struct{}{}
		for _, s := range performed {
			if s.MonthTag != "" {
				months[s.MonthTag] = struct{}{}
			}
		}
		done := float64(len(months))
		return newProgress(float64(d.Months), done, fmt.Sprintf("%d/%d months (%d dosimeters)", len(months), d.Months, d.Dosimeters))

	case CategoryCounter:
		d, ok := req.Detail.(CounterDetail)
		if !ok {
			return noDetails()
		}
		var hours float64
		for _, s := range performed {
			hours += s.Hours
		}
		return newProgress(d.Hours, hours, fmt.Sprintf("%.1f/%.1f hours", hours, d.Hours))

	case CategoryWasteManagement:
		if len(performed) > 0 {
			return newProgress(1, 1, "managed")
		}
		return newProgress(1, 0, "pending")

	default:
		n := float64(len(performed))
		if n == 0 {
			return newProgress(0, 0, "no sessions")
		}
		return newProgress(2*n, n, fmt.Sprintf("%d session(s)", len(performed)))
	}
}

func newProgress(expected, completed float64, label string) Progress {
	return Progress{
		Expected:   expected,
		Completed:  completed,
		Percentage: Percentage(completed, expected),
		Label:      label,
	}
}

func noDetails() Progress {
	return Progress{Label: "no details"}
}

// Percentage is completed/expected scaled to 0-100 and clamped. An expected
// value of zero gives zero.
func Percentage(completed, expected float64) float64 {
	if expected <= 0 {
		return 0
	}
	pct := completed / expected * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

func performedSessions(sessions []Session) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Kind == SessionPerformed {
			out = append(out, s)
		}
	}
	return out
}
