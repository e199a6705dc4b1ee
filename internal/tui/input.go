package tui

import "unicode/utf8"

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 200

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// editDigits is editRune restricted to 0-9, for numeric form fields.
func editDigits(text string, key string) string {
	if key == "backspace" {
		return editRune(text, key)
	}
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return editRune(text, key)
	}
	return text
}

// editDate is editRune restricted to digits and '-', for YYYY-MM-DD fields.
func editDate(text string, key string) string {
	if key == "backspace" {
		return editRune(text, key)
	}
	if len(key) == 1 && (key == "-" || (key[0] >= '0' && key[0] <= '9')) {
		return editRune(text, key)
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
