package scanner_test

import (
	"strings"
	"testing"

	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// Ensure that the scanner tracks lines and columns as it advances.
func TestScanner_Next(t *testing.T) {
	s := scanner.New("ab\ncd")
	if s.Current() != 'a' || s.Line() != 1 || s.Column() != 1 {
		t.Fatalf("unexpected start: %q %d:%d", s.Current(), s.Line(), s.Column())
	}
	if ch := s.Next(); ch != 'b' || s.Column() != 2 {
		t.Fatalf("unexpected next: %q col=%d", ch, s.Column())
	}
	s.Next()
	if ch := s.Next(); ch != 'c' || s.Line() != 2 || s.Column() != 1 {
		t.Fatalf("unexpected newline handling: %q %d:%d", ch, s.Line(), s.Column())
	}
	s.Next()
	s.Next()
	if !s.EOF() || s.Index() != 5 {
		t.Fatalf("expected eof at 5, got index %d", s.Index())
	}
	if ch := s.Next(); ch != scanner.EOF {
		t.Fatalf("expected EOF sentinel, got %q", ch)
	}
}

// Ensure that peeking never consumes and returns EOF out of range.
func TestScanner_Peek(t *testing.T) {
	s := scanner.New("abc")
	if s.PeekPrevious() != scanner.EOF {
		t.Fatal("expected EOF before the start")
	}
	if s.Peek(2) != 'c' || s.Peek(3) != scanner.EOF {
		t.Fatal("unexpected peek results")
	}
	s.Next()
	if s.PeekPrevious() != 'a' || s.Index() != 1 {
		t.Fatal("unexpected previous")
	}
}

// Ensure that forward refuses to move past the end of the buffer.
func TestScanner_Forward(t *testing.T) {
	var tests = []struct {
		s   string
		n   int
		i   int
		err string
	}{
		{s: `abcdef`, n: 3, i: 3},
		{s: `abcdef`, n: 6, i: 6},
		{s: `abc`, n: 4, i: 0, err: `Unable to advance 4 characters, only 3 remaining (line 1, column 1)`},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		err := s.Forward(tt.n)
		if tt.err != errstring(err) {
			t.Errorf("%d. <%q> error: exp=%q, got=%q", i, tt.s, tt.err, errstring(err))
		} else if s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		}
	}
}

// Ensure that escapes are detected with backslash parity.
func TestScanner_IsEscaped(t *testing.T) {
	var tests = []struct {
		s   string
		n   int
		exp bool
	}{
		{s: `a\b`, n: 2, exp: true},
		{s: `a\\b`, n: 3, exp: false},
		{s: `a\\\b`, n: 4, exp: true},
		{s: `ab`, n: 1, exp: false},
		{s: `\`, n: 0, exp: false},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		_ = s.Forward(tt.n)
		if got := s.IsEscaped(); got != tt.exp {
			t.Errorf("%d. <%q> exp=%v, got=%v", i, tt.s, tt.exp, got)
		}
	}
}

// Ensure that string state is toggled by unescaped quotes outside of comments.
func TestScanner_InString(t *testing.T) {
	var tests = []struct {
		s   string
		n   int
		exp bool
	}{
		{s: `a"bc"d`, n: 2, exp: true},
		{s: `a"bc"d`, n: 5, exp: false},
		{s: `a\"bc`, n: 4, exp: false},
		{s: `"a\"b`, n: 4, exp: true},
		{s: `"it's"x`, n: 5, exp: true},
		{s: `'a"b'`, n: 3, exp: true},
		{s: `/* it's */x`, n: 10, exp: false},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		_ = s.Forward(tt.n)
		if got := s.InString(); got != tt.exp {
			t.Errorf("%d. <%q> at %d exp=%v, got=%v", i, tt.s, tt.n, tt.exp, got)
		}
	}
}

// Ensure that optional never fails and expect reports the description.
func TestScanner_OptionalExpect(t *testing.T) {
	s := scanner.New("a;")
	if _, ok := s.Optional(token.Semicolon); ok || s.Index() != 0 {
		t.Fatal("optional should not match")
	}
	if ch, ok := s.Optional(token.Letter); !ok || ch != 'a' || s.Index() != 1 {
		t.Fatal("optional should match the letter")
	}
	if err := s.Expect(token.Colon); errstring(err) != `Expected to find colon ':' (line 1, column 2)` {
		t.Fatalf("unexpected error: %s", errstring(err))
	}
	if err := s.Expect(token.Semicolon); err != nil || !s.EOF() {
		t.Fatalf("unexpected error: %s", errstring(err))
	}
}

// Ensure that identifiers are read according to the CSS naming rules.
func TestScanner_ReadIdent(t *testing.T) {
	var tests = []struct {
		s     string
		ident string
		ok    bool
		i     int
	}{
		{s: `abc`, ident: `abc`, ok: true, i: 3},
		{s: `abc def`, ident: `abc`, ok: true, i: 3},
		{s: `-abc`, ident: `-abc`, ok: true, i: 4},
		{s: `-moz-border-radius:`, ident: `-moz-border-radius`, ok: true, i: 18},
		{s: `_a1-b_`, ident: `_a1-b_`, ok: true, i: 6},
		{s: `a\:b c`, ident: `a\:b`, ok: true, i: 4},
		{s: `\31 23`, ident: `\31 23`, ok: true, i: 6},
		{s: `111a`},
		{s: `--abc`},
		{s: `-1abc`},
		{s: `-`},
		{s: ` abc`},
		{s: ``},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		ident, ok := s.ReadIdent()
		if ok != tt.ok || ident != tt.ident {
			t.Errorf("%d. <%q> exp=%q/%v, got=%q/%v", i, tt.s, tt.ident, tt.ok, ident, ok)
		} else if s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		}
	}
}

// Ensure that quoted strings are read with escapes intact.
func TestScanner_ReadString(t *testing.T) {
	var tests = []struct {
		s   string
		str string
		ok  bool
		i   int
		err string
	}{
		{s: `"abc"`, str: `abc`, ok: true, i: 5},
		{s: `'abc' x`, str: `abc`, ok: true, i: 5},
		{s: `"a\"b"`, str: `a\"b`, ok: true, i: 6},
		{s: `"a'b"`, str: `a'b`, ok: true, i: 5},
		{s: `""`, str: ``, ok: true, i: 2},
		{s: `abc`},
		{s: `'abc`, err: `Expected to find closing quote ' (line 1, column 5)`},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		str, ok, err := s.ReadString()
		if tt.err != errstring(err) {
			t.Errorf("%d. <%q> error: exp=%q, got=%q", i, tt.s, tt.err, errstring(err))
		} else if ok != tt.ok || str != tt.str {
			t.Errorf("%d. <%q> exp=%q/%v, got=%q/%v", i, tt.s, tt.str, tt.ok, str, ok)
		} else if s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		}
	}

	// An escaped opening quote does not start a string.
	s := scanner.New(`\"abc"`)
	s.Next()
	if _, ok, err := s.ReadString(); ok || err != nil {
		t.Fatalf("escaped quote matched: %v %v", ok, err)
	}
}

// Ensure that constants are consumed only when fully present.
func TestScanner_ReadConstant(t *testing.T) {
	s := scanner.New("url(a)")
	if s.ReadConstant("uri(") || s.Index() != 0 {
		t.Fatal("unexpected match")
	}
	if !s.ReadConstant("url(") || s.Index() != 4 {
		t.Fatal("expected match")
	}
	s = scanner.New("URL(a)")
	if s.ReadConstant("url(") || !s.ReadConstantFold("url(") {
		t.Fatal("unexpected fold behavior")
	}
	s = scanner.New("ur")
	if s.ReadConstant("url(") {
		t.Fatal("unexpected match past eof")
	}
}

// Ensure that until stops only on unescaped delimiters outside of strings,
// comments and parentheses.
func TestScanner_Until(t *testing.T) {
	var tests = []struct {
		s     string
		tok   token.Token
		exp   string
		i     int
		inStr bool
	}{
		{s: `abc"111"abc1`, tok: token.Digit, exp: `abc"111"abc`, i: 11},
		{s: `abc(abcd12349;ad"adada") ; 123`, tok: token.Semicolon, exp: `abc(abcd12349;ad"adada") `, i: 25},
		{s: `abc\}123}`, tok: token.CloseBrace, exp: `abc\}123`, i: 8},
		{s: `abc/*;*/;`, tok: token.Semicolon, exp: `abc/*;*/`, i: 8},
		{s: `a/*;*/b;c`, tok: token.Semicolon, exp: `a/*;*/b`, i: 7},
		{s: `no delimiter`, tok: token.Semicolon, exp: `no delimiter`, i: 12},
		{s: ``, tok: token.Semicolon, exp: ``, i: 0},

		// An escape is evaluated before string state: an escaped quote
		// neither opens a string nor can it hide a later delimiter.
		{s: `a\";b`, tok: token.Semicolon, exp: `a\"`, i: 3},
		{s: `"a\";b";c`, tok: token.Semicolon, exp: `"a\";b"`, i: 7},
		{s: `a\;b;`, tok: token.Semicolon, exp: `a\;b`, i: 4},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		got := s.Until(tt.tok)
		if got != tt.exp {
			t.Errorf("%d. <%q> exp=%q, got=%q", i, tt.s, tt.exp, got)
		} else if s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		} else if s.InString() != tt.inStr {
			t.Errorf("%d. <%q> unexpected string state", i, tt.s)
		}
	}
}

// Ensure that until always advances by exactly the length of its result.
func TestScanner_Until_Length(t *testing.T) {
	for i, src := range []string{`a;b`, `"x;y";z`, `(;);`, `ü;ß`, `;`, `\\;x`} {
		s := scanner.New(src)
		got := s.Until(token.Semicolon)
		if n := len([]rune(got)); n != s.Index() {
			t.Errorf("%d. <%q> advanced %d for %d characters", i, src, s.Index(), n)
		}
		if !strings.HasPrefix(src, got) {
			t.Errorf("%d. <%q> result %q is not a prefix", i, src, got)
		}
	}
}

// Ensure that chomp consumes the maximal matching run.
func TestScanner_Chomp(t *testing.T) {
	s := scanner.New("123abc")
	if got := s.Chomp(token.Digit); got != "123" || s.Index() != 3 {
		t.Fatalf("unexpected chomp: %q", got)
	}
	if got := s.Chomp(token.Digit); got != "" || s.Index() != 3 {
		t.Fatalf("unexpected empty chomp: %q", got)
	}
}

// Ensure that enclosed values are balanced exactly.
func TestScanner_ChompEnclosedValue(t *testing.T) {
	one := token.Char{Value: '1'}
	var tests = []struct {
		s     string
		open  token.Token
		close token.Token
		exp   string
		i     int
		err   string
	}{
		{s: "(abc(abc)ab\nc)", open: token.OpenParen, close: token.CloseParen, exp: "abc(abc)ab\nc", i: 14},
		{s: `(abc) (d)`, open: token.OpenParen, close: token.CloseParen, exp: `abc`, i: 5},
		{s: `1abcd_efg1`, open: one, close: one, exp: `abcd_efg`, i: 10},
		{s: `"abcd\"efg" 1`, open: token.DoubleQuote, close: token.DoubleQuote, exp: `abcd\"efg`, i: 11},
		{s: `(a\)b)`, open: token.OpenParen, close: token.CloseParen, exp: `a\)b`, i: 6},
		{s: `(a ")" b)`, open: token.OpenParen, close: token.CloseParen, exp: `a ")" b`, i: 9},
		{s: `(a'b)c`, open: token.OpenParen, close: token.CloseParen, err: `Expected to find closing parenthesis ')' (line 1, column 7)`},
		{s: `(abc`, open: token.OpenParen, close: token.CloseParen, err: `Expected to find closing parenthesis ')' (line 1, column 5)`},
		{s: `abc)`, open: token.OpenParen, close: token.CloseParen, err: `Expected to find opening parenthesis '(' (line 1, column 1)`},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		got, err := s.ChompEnclosedValue(tt.open, tt.close)
		if tt.err != errstring(err) {
			t.Errorf("%d. <%q> error: exp=%q, got=%q", i, tt.s, tt.err, errstring(err))
		} else if got != tt.exp {
			t.Errorf("%d. <%q> exp=%q, got=%q", i, tt.s, tt.exp, got)
		} else if err == nil && s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		}
	}
}

// Ensure that comments are collected and flushed.
func TestScanner_CollectComments(t *testing.T) {
	var tests = []struct {
		s        string
		skip     bool
		comments []string
		i        int
		err      string
	}{
		{s: `/*ab*\/c*/a`, skip: true, comments: []string{`ab*\/c`}, i: 10},
		{s: ` /*a*/ /*b*/ x`, skip: true, comments: []string{`a`, `b`}, i: 13},
		{s: ` /*a*/`, skip: false, comments: nil, i: 0},
		{s: `/*a*/ /*b*/`, skip: false, comments: []string{`a`}, i: 5},
		{s: `/**/`, skip: true, comments: []string{``}, i: 4},
		{s: `abc`, skip: true, comments: nil, i: 0},
		{s: `/*abc`, skip: true, err: `Expected to find closing comment '*/' (line 1, column 1)`},
	}

	for i, tt := range tests {
		s := scanner.New(tt.s)
		err := s.CollectComments(tt.skip)
		if tt.err != errstring(err) {
			t.Errorf("%d. <%q> error: exp=%q, got=%q", i, tt.s, tt.err, errstring(err))
			continue
		} else if err != nil {
			continue
		}
		if got := s.FlushComments(); strings.Join(got, "|") != strings.Join(tt.comments, "|") {
			t.Errorf("%d. <%q> comments: exp=%q, got=%q", i, tt.s, tt.comments, got)
		} else if s.Index() != tt.i {
			t.Errorf("%d. <%q> index: exp=%d, got=%d", i, tt.s, tt.i, s.Index())
		} else if s.HasComments() {
			t.Errorf("%d. <%q> comments not cleared", i, tt.s)
		}
	}
}

// Ensure that rollback restores every tracked field.
func TestScanner_Rollback(t *testing.T) {
	s := scanner.New("a\n\"bc\nd\"")
	s.Next()
	snap := s.Snapshot()

	_ = s.Forward(4)
	if !s.InString() || s.Line() != 2 {
		t.Fatalf("unexpected state before rollback: %s", s)
	}
	s.Rollback(snap)
	if got := s.Snapshot(); got != snap {
		t.Fatalf("rollback mismatch: exp=%+v, got=%+v", snap, got)
	}

	err := s.RollbackWithError(snap, "bad %s", "thing")
	if errstring(err) != `bad thing (line 1, column 2)` {
		t.Fatalf("unexpected error: %s", errstring(err))
	}
}

// Ensure that rollback drops comments collected after the snapshot.
func TestScanner_Rollback_Comments(t *testing.T) {
	s := scanner.New("/*a*/ /*b*/")
	_ = s.CollectComments(false)
	snap := s.Snapshot()
	_ = s.CollectComments(true)
	s.Rollback(snap)
	if got := s.FlushComments(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected comments: %q", got)
	}
}

// Ensure that anchored scanners report positions of the enclosing document.
func TestScanner_Anchored(t *testing.T) {
	s := scanner.NewAnchored("ab\ncd", 5, 10)
	if p := s.Pos(); p.Line != 5 || p.Column != 10 {
		t.Fatalf("unexpected start: %s", p)
	}
	s.Next()
	if p := s.Pos(); p.Line != 5 || p.Column != 11 {
		t.Fatalf("unexpected first line: %s", p)
	}
	_ = s.Forward(2)
	if p := s.Pos(); p.Line != 6 || p.Column != 1 {
		t.Fatalf("unexpected second line: %s", p)
	}
	err := s.Expect(token.Digit)
	if e, ok := err.(*scanner.Error); !ok || e.Pos.Line != 6 || e.Pos.Column != 1 {
		t.Fatalf("unexpected error: %#v", err)
	}
}

// Ensure that the debug representation marks the cursor.
func TestScanner_String(t *testing.T) {
	s := scanner.New("abc")
	s.Next()
	if got := s.String(); got != "1:2 a»bc" {
		t.Fatalf("unexpected string: %q", got)
	}
}

// Ensure that an error list summarizes its contents.
func TestErrorList_Error(t *testing.T) {
	var tests = []struct {
		errs scanner.ErrorList
		exp  string
	}{
		{errs: nil, exp: `no errors`},
		{errs: scanner.ErrorList{&scanner.Error{Message: "a"}}, exp: `a`},
		{errs: scanner.ErrorList{&scanner.Error{Message: "a"}, &scanner.Error{Message: "b"}}, exp: `a (and 1 more errors)`},
	}
	for i, tt := range tests {
		if got := tt.errs.Error(); got != tt.exp {
			t.Errorf("%d. exp=%q, got=%q", i, tt.exp, got)
		}
	}
}

// errstring returns the string representation of the error.
func errstring(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
