package atom

import "testing"

func TestClassOf(t *testing.T) {
	cases := map[byte]Class{
		'a': Alpha,
		'Z': Alpha,
		'5': Digit,
		' ': White,
		'\t': White,
		'_': Any,
		'.': Any,
	}
	for b, want := range cases {
		if got := ClassOf(b); got != want {
			t.Errorf("ClassOf(%q) = %v, want %v", b, got, want)
		}
	}
}

func TestMergeAlphaDigitIsSymmetricallyWord(t *testing.T) {
	// Digit then alpha -> Word.
	if got := Merge(Digit, 'a'); got != WordClass {
		t.Fatalf("Merge(Digit, 'a') = %v, want Word", got)
	}
	// Word then another alpha byte stays Word (no further merge loses
	// the accumulated class).
	if got := Merge(WordClass, 'a'); got != WordClass {
		t.Fatalf("Merge(Word, 'a') = %v, want Word", got)
	}
	// Word then a digit byte stays Word.
	if got := Merge(WordClass, '3'); got != WordClass {
		t.Fatalf("Merge(Word, '3') = %v, want Word", got)
	}
	// Alpha then a digit byte becomes Word too.
	if got := Merge(Alpha, '3'); got != WordClass {
		t.Fatalf("Merge(Alpha, '3') = %v, want Word", got)
	}
}

func TestAcceptsNarrowAbsorption(t *testing.T) {
	// An Alpha class accepts further alpha bytes but not whitespace.
	if !Accepts(Alpha, Byte('x')) {
		t.Fatal("Alpha should accept alpha byte")
	}
	if Accepts(Alpha, Byte(' ')) {
		t.Fatal("Alpha should not accept whitespace byte")
	}
	// White accepts only white.
	if !Accepts(White, Byte('\t')) {
		t.Fatal("White should accept whitespace byte")
	}
	if Accepts(White, Byte('a')) {
		t.Fatal("White should not accept alpha byte")
	}
	// Any never absorbs neighboring context, even though Merge(Any, x)
	// == Any for every byte x.
	if Accepts(Any, Byte('z')) {
		t.Fatal("Any should never absorb context")
	}
	if Accepts(Any, Byte(' ')) {
		t.Fatal("Any should never absorb context")
	}
}

func TestWordClass(t *testing.T) {
	// "ab1" merges Alpha+Alpha=Alpha, then Alpha+'1' (digit) -> Word.
	w := Word("ab1")
	if got := w.Class(); got != WordClass {
		t.Fatalf("Word(%q).Class() = %v, want Word", w, got)
	}
	// "a1b": Alpha -> Word (digit) -> Word (alpha byte keeps it Word).
	w2 := Word("a1b")
	if got := w2.Class(); got != WordClass {
		t.Fatalf("Word(%q).Class() = %v, want Word", w2, got)
	}
	// Whitespace anywhere in the run forces Any.
	w3 := Word("a 1")
	if got := w3.Class(); got != Any {
		t.Fatalf("Word(%q).Class() = %v, want Any", w3, got)
	}
}
