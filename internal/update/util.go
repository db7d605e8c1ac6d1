package update

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func yesNoLabel(v string) string {
	if v == "" {
		return "(choose)"
	}
	return v
}

func percentFraction(percent int) float64 {
	if percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return 1
	}
	return float64(percent) / 100
}
