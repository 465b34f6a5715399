package dailynote

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format tokens, longest first so MM is never consumed as two Ms.
var formatTokens = []string{"YYYY", "MMM", "YY", "MM", "DD", "M", "D"}

var shortMonths = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ValidateFormat rejects date format templates that cannot name a file.
// This runs at configuration time; resolution never re-validates.
func ValidateFormat(format string) error {
	if strings.TrimSpace(format) == "" {
		return errors.New("format must not be empty")
	}
	if strings.ContainsAny(format, "/\\") {
		return errors.New("format must not contain a path separator")
	}
	hasToken := false
	for rest := format; rest != ""; {
		token, _ := nextToken(rest)
		if token != "" {
			hasToken = true
			rest = rest[len(token):]
			continue
		}
		rest = rest[1:]
	}
	if !hasToken {
		return fmt.Errorf("format %q contains no date tokens", format)
	}
	return nil
}

// FormatDate renders date using the template tokens YYYY YY MM M DD D MMM.
// Characters outside tokens pass through verbatim.
func FormatDate(format string, date time.Time) string {
	var b strings.Builder
	for rest := format; rest != ""; {
		token, _ := nextToken(rest)
		if token == "" {
			b.WriteByte(rest[0])
			rest = rest[1:]
			continue
		}
		rest = rest[len(token):]
		switch token {
		case "YYYY":
			b.WriteString(fmt.Sprintf("%04d", date.Year()))
		case "YY":
			b.WriteString(fmt.Sprintf("%02d", date.Year()%100))
		case "MM":
			b.WriteString(fmt.Sprintf("%02d", int(date.Month())))
		case "M":
			b.WriteString(strconv.Itoa(int(date.Month())))
		case "DD":
			b.WriteString(fmt.Sprintf("%02d", date.Day()))
		case "D":
			b.WriteString(strconv.Itoa(date.Day()))
		case "MMM":
			b.WriteString(shortMonths[date.Month()-1])
		}
	}
	return b.String()
}

// ParseDate parses value strictly against the template: every literal must
// match and the whole input must be consumed. The returned time is midnight
// UTC of the parsed date.
func ParseDate(format, value string) (time.Time, bool) {
	year, month, day := -1, -1, -1
	rest := format
	input := value
	for rest != "" {
		token, _ := nextToken(rest)
		if token == "" {
			if input == "" || input[0] != rest[0] {
				return time.Time{}, false
			}
			rest = rest[1:]
			input = input[1:]
			continue
		}
		rest = rest[len(token):]
		var ok bool
		switch token {
		case "YYYY":
			year, input, ok = takeDigits(input, 4, 4)
		case "YY":
			year, input, ok = takeDigits(input, 2, 2)
			if ok {
				year += 2000
			}
		case "MM":
			month, input, ok = takeDigits(input, 2, 2)
		case "M":
			month, input, ok = takeDigits(input, 1, 2)
		case "DD":
			day, input, ok = takeDigits(input, 2, 2)
		case "D":
			day, input, ok = takeDigits(input, 1, 2)
		case "MMM":
			month, input, ok = takeShortMonth(input)
		}
		if !ok {
			return time.Time{}, false
		}
	}
	if input != "" {
		return time.Time{}, false
	}
	if year < 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject overflow dates such as Feb 30.
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, false
	}
	return date, true
}

func nextToken(s string) (string, bool) {
	for _, token := range formatTokens {
		if strings.HasPrefix(s, token) {
			return token, true
		}
	}
	return "", false
}

func takeDigits(s string, min, max int) (int, string, bool) {
	n := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n < min {
		return 0, s, false
	}
	value, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0, s, false
	}
	return value, s[n:], true
}

func takeShortMonth(s string) (int, string, bool) {
	for i, name := range shortMonths {
		if strings.HasPrefix(s, name) {
			return i + 1, s[len(name):], true
		}
	}
	return 0, s, false
}
