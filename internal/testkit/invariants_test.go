package testkit

import (
	"testing"

	"textlen/internal/length"
)

func TestCheckLengthInvariants(t *testing.T) {
	if err := CheckLengthInvariants(length.New(3, 9), 3, 9); err != nil {
		t.Fatal(err)
	}
	if err := CheckLengthInvariants(length.New(3, 9), 3, 8); err == nil {
		t.Fatal("expected decode mismatch")
	}
}

func TestCheckAnchorInvariants(t *testing.T) {
	doc := length.New(2, 0)
	ok := []length.Length{length.New(0, 0), length.New(1, 0), length.New(2, 0)}
	if err := CheckAnchorInvariants(ok, doc); err != nil {
		t.Fatal(err)
	}
	dup := []length.Length{length.New(1, 0), length.New(1, 0)}
	if err := CheckAnchorInvariants(dup, doc); err == nil {
		t.Error("expected error for duplicate anchors")
	}
	past := []length.Length{length.New(2, 1)}
	if err := CheckAnchorInvariants(past, doc); err == nil {
		t.Error("expected error for anchor past the end")
	}
}

func TestCheckConcatenation(t *testing.T) {
	for _, tc := range [][2]string{{"ab", "cd"}, {"a\n", "b"}, {"a\r", "\nb"}, {"", "x\ny"}} {
		if err := CheckConcatenation(tc[0], tc[1]); err != nil {
			t.Errorf("%q+%q: %v", tc[0], tc[1], err)
		}
	}
}
