package main

import (
	"regexp"
	"strings"
)

// Naturalize converts a raw statement or expression into readable text
// for display inside a diagram block. It symbolizes operators, strips
// type-keyword noise and simplifies common call idioms. The output is
// display-only and is never written back into source.
//
// Rules run in a fixed order; later rules operate on the output of the
// earlier ones, so reordering them changes results.
var (
	reTypeKeyword = regexp.MustCompile(`\b(int8|int16|int32|int64|uint8|uint16|uint32|uint64|int|uint|uintptr|float32|float64|complex64|complex128|string|bool|byte|rune|var|const)\b`)
	reLenEmpty    = regexp.MustCompile(`len\(([^()]*)\)\s*==\s*0`)
	reLenNotEmpty = regexp.MustCompile(`len\(([^()]*)\)\s*[>!]=?\s*0`)
	reLen         = regexp.MustCompile(`\blen\(([^()]*)\)`)
	reEquals      = regexp.MustCompile(`([\w.\[\]]+)\.Equals?\(([^()]*)\)`)
	reContains    = regexp.MustCompile(`strings\.Contains\(([^(),]+),\s*([^()]+)\)`)
	reDeepEqual   = regexp.MustCompile(`reflect\.DeepEqual\(([^(),]+),\s*([^()]+)\)`)
	reIncrement   = regexp.MustCompile(`([\w.\[\]]+)\s*\+\+`)
	reDecrement   = regexp.MustCompile(`([\w.\[\]]+)\s*--`)
	reAddAssign   = regexp.MustCompile(`([\w.\[\]]+)\s*\+=\s*(.+)`)
	reSubAssign   = regexp.MustCompile(`([\w.\[\]]+)\s*-=\s*(.+)`)
	reMulAssign   = regexp.MustCompile(`([\w.\[\]]+)\s*\*=\s*(.+)`)
	reDivAssign   = regexp.MustCompile(`([\w.\[\]]+)\s*/=\s*(.+)`)
	reBareAssign  = regexp.MustCompile(`(^|[^:=<>!≠≤≥])=($|[^=])`)
	rePrintCall   = regexp.MustCompile(`^(?:fmt\.F?Print(?:ln|f)?|print(?:ln)?|log\.Print(?:ln|f)?)\s*\(`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

func Naturalize(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimSuffix(text, ";")
	text = strings.TrimSpace(text)

	// Print idiom: keep only the arguments.
	if loc := rePrintCall.FindStringIndex(text); loc != nil {
		if end := strings.LastIndex(text, ")"); end > loc[1]-1 {
			return "Print " + collapse(text[loc[1]:end])
		}
	}

	text = reTypeKeyword.ReplaceAllString(text, "")

	// Membership and size idioms, best effort. These are regexes, not a
	// parser, and may mis-fire on pathological nested calls.
	text = reLenEmpty.ReplaceAllString(text, "$1 is empty")
	text = reLenNotEmpty.ReplaceAllString(text, "$1 is not empty")
	text = reLen.ReplaceAllString(text, "size of $1")
	text = reEquals.ReplaceAllString(text, "$1 is equal to $2")
	text = reDeepEqual.ReplaceAllString(text, "$1 is equal to $2")
	text = reContains.ReplaceAllString(text, "$2 is in $1")

	text = replaceWord(text, "true", "True")
	text = replaceWord(text, "false", "False")
	text = replaceWord(text, "nil", "Nil")

	// Increment, decrement and compound assignment become verb phrases.
	text = reIncrement.ReplaceAllString(text, "increment $1")
	text = reDecrement.ReplaceAllString(text, "decrement $1")
	text = reAddAssign.ReplaceAllString(text, "increase $1 by $2")
	text = reSubAssign.ReplaceAllString(text, "decrease $1 by $2")
	text = reMulAssign.ReplaceAllString(text, "multiply $1 by $2")
	text = reDivAssign.ReplaceAllString(text, "divide $1 by $2")

	// The bare-assignment rewrite runs while ==, !=, <= and >= are still
	// intact, so its neighbor exclusions can tell a lone = apart from
	// half of a comparison. The comparisons then become their symbols.
	text = reBareAssign.ReplaceAllString(text, "$1 := $2")
	text = strings.ReplaceAll(text, "!=", " ≠ ")
	text = strings.ReplaceAll(text, "<=", " ≤ ")
	text = strings.ReplaceAll(text, ">=", " ≥ ")
	text = strings.ReplaceAll(text, "==", " = ")

	text = strings.ReplaceAll(text, "&&", " and ")
	text = strings.ReplaceAll(text, "||", " or ")
	text = replaceNot(text)

	return collapse(text)
}

// replaceWord substitutes whole-word occurrences only.
func replaceWord(text, word, with string) string {
	re := regexp.MustCompile(`\b` + word + `\b`)
	return re.ReplaceAllString(text, with)
}

// replaceNot rewrites unary ! to "not ". A bare ! can only be a negation
// here because != was already consumed by the comparison rewrite.
func replaceNot(text string) string {
	return strings.ReplaceAll(text, "!", "not ")
}

func collapse(text string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}
