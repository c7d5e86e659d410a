package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AdamWorthington/omakase/token"
)

// EOF is returned by the peeking functions when reading outside of the input.
const EOF = token.EOF

// Scanner is a cursor over an immutable buffer of CSS source text.
//
// The scanner tracks the current line and column, whether the cursor sits
// inside of a quoted string, and whether it sits inside of a comment. It
// supports snapshots so that grammars can speculatively read ahead and roll
// back on a mismatch. Indexes count code points, not bytes.
//
// A scanner may be anchored at a line and column of an enclosing document.
// This is the case for fragments being refined, so that positions are always
// reported in the coordinates of the original document.
type Scanner struct {
	src []rune
	i   int

	line   int
	column int

	anchorLine   int
	anchorColumn int

	inString     bool
	quote        rune
	inComment    bool
	commentStart int

	comments []string
}

// New returns a new instance of Scanner over text.
func New(text string) *Scanner {
	return NewAnchored(text, 1, 1)
}

// NewAnchored returns a scanner whose first character is located at the
// given line and column of an enclosing document.
func NewAnchored(text string, line, column int) *Scanner {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	return &Scanner{
		src:          []rune(text),
		line:         1,
		column:       1,
		anchorLine:   line,
		anchorColumn: column,
	}
}

// Index returns the index of the current code point.
func (s *Scanner) Index() int { return s.i }

// Len returns the number of code points in the buffer.
func (s *Scanner) Len() int { return len(s.src) }

// Line returns the current line, relative to the start of this buffer.
func (s *Scanner) Line() int { return s.line }

// Column returns the current column, relative to the start of this buffer.
func (s *Scanner) Column() int { return s.column }

// OriginalLine returns the current line in the enclosing document.
func (s *Scanner) OriginalLine() int {
	return s.anchorLine + s.line - 1
}

// OriginalColumn returns the current column in the enclosing document.
func (s *Scanner) OriginalColumn() int {
	if s.line == 1 {
		return s.anchorColumn + s.column - 1
	}
	return s.column
}

// Pos returns the current position in the enclosing document.
func (s *Scanner) Pos() token.Pos {
	return token.Pos{Line: s.OriginalLine(), Column: s.OriginalColumn()}
}

// EOF returns true if the whole buffer has been consumed.
func (s *Scanner) EOF() bool { return s.i >= len(s.src) }

// InString returns true if the cursor is inside of an unclosed quoted string.
func (s *Scanner) InString() bool { return s.inString }

// Text returns the full buffer.
func (s *Scanner) Text() string { return string(s.src) }

// Remaining returns the unconsumed text.
func (s *Scanner) Remaining() string {
	if s.EOF() {
		return ""
	}
	return string(s.src[s.i:])
}

// Current returns the current code point without consuming it.
func (s *Scanner) Current() rune { return s.Peek(0) }

// Peek returns the code point n places ahead of the cursor without
// consuming anything, or EOF when out of range.
func (s *Scanner) Peek(n int) rune {
	i := s.i + n
	if i < 0 || i >= len(s.src) {
		return EOF
	}
	return s.src[i]
}

// PeekPrevious returns the code point just before the cursor, or EOF.
func (s *Scanner) PeekPrevious() rune { return s.Peek(-1) }

// IsEscaped returns true if the current code point is escaped, that is if it
// is preceded by an odd number of backslashes.
func (s *Scanner) IsEscaped() bool {
	n := 0
	for j := s.i - 1; j >= 0 && s.src[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// Next consumes the current code point and returns the new current code point.
//
// The line and column are updated, as are the string and comment states.
// Escaped characters never toggle either state.
func (s *Scanner) Next() rune {
	if s.EOF() {
		return EOF
	}
	ch := s.src[s.i]
	escaped := s.IsEscaped()

	switch {
	case s.inComment:
		if ch == '/' && s.i >= s.commentStart+3 && s.src[s.i-1] == '*' {
			s.inComment = false
		}
	case s.inString:
		if ch == s.quote && !escaped {
			s.inString = false
		}
	case escaped:
	case ch == '/' && s.Peek(1) == '*':
		s.inComment, s.commentStart = true, s.i
	case ch == '"' || ch == '\'':
		s.inString, s.quote = true, ch
	}

	if ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.i++
	return s.Current()
}

// Forward consumes n code points. It is an error to advance past the end of
// the buffer.
func (s *Scanner) Forward(n int) error {
	if rem := len(s.src) - s.i; n > rem {
		return s.Errorf("Unable to advance %d characters, only %d remaining", n, rem)
	}
	for ; n > 0; n-- {
		s.Next()
	}
	return nil
}

// SkipWhitespace consumes contiguous whitespace.
func (s *Scanner) SkipWhitespace() {
	for token.IsWhitespace(s.Current()) {
		s.Next()
	}
}

// Optional consumes the current code point if it matches t.
func (s *Scanner) Optional(t token.Token) (rune, bool) {
	ch := s.Current()
	if !t.Matches(ch) {
		return 0, false
	}
	s.Next()
	return ch, true
}

// OptionallyPresent is like Optional but only reports whether it matched.
func (s *Scanner) OptionallyPresent(t token.Token) bool {
	_, ok := s.Optional(t)
	return ok
}

// Expect consumes the current code point, returning an error if it does not
// match t.
func (s *Scanner) Expect(t token.Token) error {
	if _, ok := s.Optional(t); !ok {
		return s.Errorf("Expected to find %s", t.Description())
	}
	return nil
}

// ReadIdent consumes an identifier.
//
// Identifiers contain letters, digits, hyphens, underscores, non-ascii code
// points and escape sequences. They may not start with a digit, a hyphen
// followed by a digit, or two hyphens. Escape sequences are returned as
// written. Nothing is consumed when the cursor does not start an identifier.
func (s *Scanner) ReadIdent() (string, bool) {
	if !s.startsIdent() {
		return "", false
	}
	start := s.i
	if s.Current() == '-' {
		s.Next()
	}
	for !s.EOF() {
		ch := s.Current()
		if ch == '\\' {
			s.consumeEscape()
		} else if token.IsName(ch) {
			s.Next()
		} else {
			break
		}
	}
	return string(s.src[start:s.i]), true
}

func (s *Scanner) startsIdent() bool {
	ch := s.Current()
	if ch == '-' {
		ch = s.Peek(1)
		if ch == '-' || token.IsDigit(ch) {
			return false
		}
		return token.IsNameStart(ch) || (ch == '\\' && s.Peek(2) != EOF)
	}
	return token.IsNameStart(ch) || (ch == '\\' && s.Peek(1) != EOF && s.Peek(1) != '\n')
}

// consumeEscape consumes a backslash and the escape sequence following it.
func (s *Scanner) consumeEscape() {
	s.Next()
	if !token.IsHexDigit(s.Current()) {
		s.Next()
		return
	}
	for n := 0; n < 6 && token.IsHexDigit(s.Current()); n++ {
		s.Next()
	}
	if token.IsWhitespace(s.Current()) {
		s.Next()
	}
}

// ReadString consumes a single or double quoted string and returns its
// content without the enclosing quotes. Escape sequences are returned as
// written. An error is returned if the string is never closed.
func (s *Scanner) ReadString() (string, bool, error) {
	q := s.Current()
	if (q != '"' && q != '\'') || s.IsEscaped() {
		return "", false, nil
	}
	snap := s.Snapshot()
	s.Next()
	start := s.i
	for !s.EOF() {
		if s.Current() == q && !s.IsEscaped() {
			content := string(s.src[start:s.i])
			s.Next()
			return content, true, nil
		}
		s.Next()
	}
	err := s.Errorf("Expected to find closing quote %c", q)
	s.Rollback(snap)
	return "", false, err
}

// ReadConstant consumes lit if the buffer contains it at the cursor.
func (s *Scanner) ReadConstant(lit string) bool {
	return s.readConstant(lit, false)
}

// ReadConstantFold is like ReadConstant but compares case-insensitively.
func (s *Scanner) ReadConstantFold(lit string) bool {
	return s.readConstant(lit, true)
}

func (s *Scanner) readConstant(lit string, fold bool) bool {
	n := utf8.RuneCountInString(lit)
	if s.i+n > len(s.src) {
		return false
	}
	text := string(s.src[s.i : s.i+n])
	if text != lit && (!fold || !strings.EqualFold(text, lit)) {
		return false
	}
	for ; n > 0; n-- {
		s.Next()
	}
	return true
}

// Until consumes and returns all text up to the first occurrence of t that
// is not escaped, not inside of a string, not inside of a comment and not
// inside of nested parentheses. If there is no such occurrence the remainder
// of the buffer is consumed and returned.
func (s *Scanner) Until(t token.Token) string {
	start := s.i
	depth := 0
	for !s.EOF() {
		ch := s.Current()
		if !s.IsEscaped() && !s.inString && !s.inComment {
			if depth == 0 && t.Matches(ch) {
				break
			}
			switch ch {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			}
		}
		s.Next()
	}
	return string(s.src[start:s.i])
}

// Chomp consumes and returns the maximal run of code points matching t.
func (s *Scanner) Chomp(t token.Token) string {
	start := s.i
	for !s.EOF() && t.Matches(s.Current()) {
		s.Next()
	}
	return string(s.src[start:s.i])
}

// ChompEnclosedValue consumes a value enclosed by open and close and returns
// the content between them.
//
// Nested occurrences of the same open and close pair are balanced. The close
// token is checked before the open token, which allows the two to be the
// same, e.g. quotes. Quoted strings inside of the enclosure are skipped
// unless the enclosure itself is quote delimited.
func (s *Scanner) ChompEnclosedValue(open, close token.Token) (string, error) {
	if err := s.Expect(open); err != nil {
		return "", err
	}
	quoted := open.Matches('"') || open.Matches('\'')
	start := s.i
	depth := 1
	for !s.EOF() {
		ch := s.Current()
		if !s.IsEscaped() && (quoted || !s.inString) {
			if close.Matches(ch) {
				if depth--; depth == 0 {
					content := string(s.src[start:s.i])
					s.Next()
					return content, nil
				}
			} else if open.Matches(ch) {
				depth++
			}
		}
		s.Next()
	}
	return "", s.Errorf("Expected to find closing %s", close.Description())
}

// CollectComments consumes contiguous comments, buffering their content
// until the next call to FlushComments. When skipWhitespace is true any
// whitespace before, between and after the comments is consumed as well.
func (s *Scanner) CollectComments(skipWhitespace bool) error {
	for {
		if skipWhitespace {
			s.SkipWhitespace()
		}
		if s.Current() != '/' || s.Peek(1) != '*' || s.IsEscaped() {
			return nil
		}
		pos := s.Pos()
		s.Next()
		s.Next()
		start := s.i
		for {
			if s.EOF() {
				return &Error{Message: "Expected to find closing comment '*/'", Pos: pos}
			}
			if s.Current() == '*' && s.Peek(1) == '/' {
				break
			}
			s.Next()
		}
		s.comments = append(s.comments, string(s.src[start:s.i]))
		s.Next()
		s.Next()
	}
}

// FlushComments returns and clears the buffered comments.
func (s *Scanner) FlushComments() []string {
	c := s.comments
	s.comments = nil
	return c
}

// HasComments returns true if there are buffered comments.
func (s *Scanner) HasComments() bool { return len(s.comments) > 0 }

// Snapshot represents the captured state of a scanner.
type Snapshot struct {
	Index    int
	Line     int
	Column   int
	InString bool

	quote        rune
	inComment    bool
	commentStart int
	ncomments    int
}

// Snapshot captures the current state so it can be restored with Rollback.
func (s *Scanner) Snapshot() Snapshot {
	return Snapshot{
		Index:        s.i,
		Line:         s.line,
		Column:       s.column,
		InString:     s.inString,
		quote:        s.quote,
		inComment:    s.inComment,
		commentStart: s.commentStart,
		ncomments:    len(s.comments),
	}
}

// Rollback restores the state captured in snap.
func (s *Scanner) Rollback(snap Snapshot) {
	s.i = snap.Index
	s.line = snap.Line
	s.column = snap.Column
	s.inString = snap.InString
	s.quote = snap.quote
	s.inComment = snap.inComment
	s.commentStart = snap.commentStart
	if snap.ncomments < len(s.comments) {
		s.comments = s.comments[:snap.ncomments]
	}
}

// RollbackWithError restores snap and returns an error positioned at the
// restored location.
func (s *Scanner) RollbackWithError(snap Snapshot, format string, args ...interface{}) error {
	s.Rollback(snap)
	return s.Errorf(format, args...)
}

// Errorf returns an error located at the current position.
func (s *Scanner) Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: s.Pos()}
}

// String returns the buffer with a marker at the cursor.
func (s *Scanner) String() string {
	i := s.i
	if i > len(s.src) {
		i = len(s.src)
	}
	return fmt.Sprintf("%d:%d %s»%s", s.OriginalLine(), s.OriginalColumn(), string(s.src[:i]), string(s.src[i:]))
}

// Error represents a parse error.
type Error struct {
	Message string
	Pos     token.Pos
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}

// ErrorList represents a list of errors.
type ErrorList []error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}
