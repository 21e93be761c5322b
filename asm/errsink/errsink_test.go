// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errsink

import "testing"

func TestReportFormat(t *testing.T) {
	s := New()
	s.Report(LabelDuplicate, "prog", 7, "label already defined: '%s'", "MAIN")

	if s.Empty() {
		t.Fatal("expected sink to be non-empty after Report")
	}
	got := s.Errors()[0].Message
	want := "[LABEL-DUPLICATE] prog:7: label already defined: 'MAIN'"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReportFilelessFormat(t *testing.T) {
	s := New()
	s.ReportFileless(FileOpen, "cannot open %s", "prog.as")
	got := s.Errors()[0].Message
	want := "[FILE-OPEN] cannot open prog.as"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Report(InvalidToken, "prog", 1, "bad token")
	s.Clear()
	if !s.Empty() || s.Len() != 0 {
		t.Fatal("expected sink to be empty after Clear")
	}
}

func TestAllLabelsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for k := SymbolNotFound; k >= FileOpen; k-- {
		label := k.Label()
		if label == "INVALID" {
			t.Fatalf("kind %d has no label", k)
		}
		if seen[label] {
			t.Fatalf("duplicate label %q", label)
		}
		seen[label] = true
		if k == FileOpen {
			break
		}
	}
}
