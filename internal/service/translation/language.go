package translation

// SelectMainLanguage returns the first language code that is not remove.
// ok is false when remove is the only language left.
func SelectMainLanguage(codes []string, remove string) (main string, ok bool) {
	for _, code := range codes {
		if code != remove {
			return code, true
		}
	}
	return "", false
}

// RemainingLanguages returns codes without remove, keeping their order
func RemainingLanguages(codes []string, remove string) []string {
	remaining := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != remove {
			remaining = append(remaining, code)
		}
	}
	return remaining
}
