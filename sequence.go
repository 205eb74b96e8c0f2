package main

import "strings"

// Alphabet is a set of allowed sequence letters.
type Alphabet [256]bool

func newAlphabet(letters string) *Alphabet {
	var a Alphabet
	for i := 0; i < len(letters); i++ {
		a[letters[i]] = true
	}
	return &a
}

var (
	// dnaAlphabet accepts the four bases only, used for the linker.
	dnaAlphabet = newAlphabet("ACGTacgt")
	// iupacAlphabet adds the IUPAC ambiguity codes, used for reads.
	iupacAlphabet = newAlphabet("ACGTRYSWKMBDHVNZacgtryswkmbdhvnz")
)

// validSequence reports whether every byte of seq belongs to alphabet.
func validSequence(seq string, alphabet *Alphabet) bool {
	for i := 0; i < len(seq); i++ {
		if !alphabet[seq[i]] {
			return false
		}
	}
	return true
}

// splitBySep splits text at the first occurrence of sep and parses both
// sides. ok is false when sep is absent or either side fails to parse.
func splitBySep[T any](text, sep string, parse func(string) (T, error)) (left, right T, ok bool) {
	index := strings.Index(text, sep)
	if index == -1 {
		return left, right, false
	}
	l, err := parse(text[:index])
	if err != nil {
		return left, right, false
	}
	r, err := parse(text[index+len(sep):])
	if err != nil {
		return left, right, false
	}
	return l, r, true
}

func parseString(s string) (string, error) {
	return s, nil
}
