package flow

import (
	"strconv"
	"strings"
	"unicode"
)

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseQuantity turns a spoken quantity into a count. It accepts plain
// digits, English number words up to ninety-nine including hyphenated
// compounds, the articles "a" and "an", and strings with an embedded digit
// run. Anything else defaults to 1 with defaulted set, so the caller can ask
// the guest to confirm.
func ParseQuantity(raw string) (qty int, defaulted bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 1, true
	}

	if n, err := strconv.Atoi(text); err == nil && n >= 0 {
		return n, false
	}

	if text == "a" || text == "an" {
		return 1, false
	}

	if n, ok := numberWords[text]; ok {
		return n, false
	}

	// Hyphenated compound like "twenty-five".
	if strings.Contains(text, "-") {
		total := 0
		ok := true
		for _, part := range strings.Split(text, "-") {
			n, found := numberWords[part]
			if !found {
				ok = false
				break
			}
			total += n
		}
		if ok {
			return total, false
		}
	}

	// First embedded digit run, e.g. "2x" or "about 3 of them".
	start := -1
	for i, r := range text {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(text[start:i])
			return n, false
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(text[start:])
		return n, false
	}

	return 1, true
}
