package local

import "github.com/xuri/nfp"

// builtinDateFormats are the built-in number format IDs that render dates or
// times. excelize keeps the built-in format codes unexported.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// isDateFormat reports whether a number format renders a date or time.
// custom is the format code for custom formats and empty for built-ins.
func isDateFormat(id int, custom string) bool {
	if custom == "" {
		return builtinDateFormats[id]
	}
	return hasDateTokens(custom)
}

// hasDateTokens reports whether the first section of a format code, the one
// applied to positive numbers, contains date, time or elapsed time tokens.
func hasDateTokens(code string) bool {
	p := nfp.NumberFormatParser()
	sections := p.Parse(code)
	if len(sections) == 0 {
		return false
	}
	for _, token := range sections[0].Items {
		switch token.TType {
		case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
			return true
		}
	}
	return false
}
