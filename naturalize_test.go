package main

import "testing"

func TestNaturalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"x = 5;", "x := 5"},
		{"x = y", "x := y"},
		{"a == b", "a = b"},
		{"a != b", "a ≠ b"},
		{"a <= b", "a ≤ b"},
		{"a >= b", "a ≥ b"},
		{"a > b", "a > b"},
		{`fmt.Println("hello")`, `Print "hello"`},
		{`fmt.Printf("%d", n)`, `Print "%d", n`},
		{"var x int = 3", "x := 3"},
		{"flag && !done", "flag and not done"},
		{"a || b", "a or b"},
		{"ok == true", "ok = True"},
		{"err != nil", "err ≠ Nil"},
		{"x++", "increment x"},
		{"count--", "decrement count"},
		{"total += v", "increase total by v"},
		{"total -= v", "decrease total by v"},
		{"scale *= 2", "multiply scale by 2"},
		{"len(items) == 0", "items is empty"},
		{"len(items) > 0", "items is not empty"},
		{"len(name)", "size of name"},
		{"strings.Contains(haystack, needle)", "needle is in haystack"},
		{"  spaced    out  ", "spaced out"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Naturalize(tc.in); got != tc.want {
			t.Errorf("Naturalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Once the output contains only stable tokens, running the rewriter
// again must change nothing.
func TestNaturalizeIdempotent(t *testing.T) {
	inputs := []string{
		"x = 5",
		"x := 5",
		"i <= 10",
		"a > b",
		"flag && !done",
		"total += v",
		"x++",
		`fmt.Println("hi")`,
		"len(items) == 0",
		"",
	}
	for _, in := range inputs {
		once := Naturalize(in)
		twice := Naturalize(once)
		if once != twice {
			t.Errorf("Naturalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
