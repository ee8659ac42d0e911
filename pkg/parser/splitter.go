package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	symComment          = postgresLexer.Symbols()["Comment"]
	symMultilineComment = postgresLexer.Symbols()["MultilineComment"]
	symWhitespace       = postgresLexer.Symbols()["Whitespace"]
)

type (
	// Span is one semicolon-delimited top-level statement extracted from a
	// migration file. Text excludes leading comments and surrounding
	// whitespace but keeps everything else verbatim, including any comment
	// on the same line as the closing semicolon (where foreign key hints
	// commonly live).
	Span struct {
		File string
		Text string
		Line int
	}

	// StatementScanner splits a migration file into statement spans,
	// honoring string literals, quoted identifiers, dollar-quoted bodies,
	// and comments so that semicolons inside them never end a statement.
	// It follows the bufio.Scanner protocol: call Scan until it returns
	// false, then check Err. A scanner is consumed once and cannot be
	// reset or reused.
	//
	// Example usage:
	//
	//	sc := parser.SplitStatements("0001_init.sql", sql)
	//	for sc.Scan() {
	//		span := sc.Statement()
	//		// classify and parse span
	//	}
	//	if err := sc.Err(); err != nil {
	//		return err
	//	}
	StatementScanner struct {
		file    string
		src     string
		lex     lexer.Lexer
		pending *lexer.Token
		current Span
		err     error
		done    bool
	}
)

// SplitStatements returns a scanner over the top-level statements of src.
// The file name is only used to label spans for diagnostics.
func SplitStatements(file, src string) *StatementScanner {
	s := &StatementScanner{file: file, src: src}

	lex, err := postgresLexer.Lex(file, strings.NewReader(src))
	if err != nil {
		s.err = errors.Wrapf(err, "failed to lex %s", file)
		s.done = true
		return s
	}

	s.lex = lex
	return s
}

// Scan advances to the next statement span. It returns false when the input
// is exhausted or lexing failed; Err distinguishes the two.
func (s *StatementScanner) Scan() bool {
	if s.done {
		return false
	}

	start := -1
	end := -1
	line := 0
	significant := false

	for {
		tok, err := s.next()
		if err != nil {
			s.err = errors.Wrapf(err, "failed to lex %s", s.file)
			s.done = true
			return false
		}

		if tok.EOF() {
			s.done = true
			break
		}

		if tok.Type == symWhitespace {
			continue
		}

		isComment := tok.Type == symComment || tok.Type == symMultilineComment
		if start < 0 {
			if isComment {
				// Comments between statements belong to no span.
				continue
			}
			start = tok.Pos.Offset
			line = tok.Pos.Line
		}
		if !isComment && tok.Value != ";" {
			significant = true
		}
		end = tok.Pos.Offset + len(tok.Value)

		if tok.Value == ";" {
			end = s.extendTrailingComment(tok.Pos.Line, end)
			break
		}
	}

	if start < 0 || !significant {
		if !s.done {
			// A run of comments terminated by a bare semicolon; keep going.
			return s.Scan()
		}
		return false
	}

	s.current = Span{
		File: s.file,
		Text: strings.TrimSpace(s.src[start:end]),
		Line: line,
	}
	return true
}

// Statement returns the span produced by the last successful Scan.
func (s *StatementScanner) Statement() Span {
	return s.current
}

// Err returns the first error encountered while lexing the input.
func (s *StatementScanner) Err() error {
	return s.err
}

// extendTrailingComment pulls comments that share the terminating
// semicolon's line into the current span, so hints written after the
// semicolon stay attached to the statement they annotate.
func (s *StatementScanner) extendTrailingComment(semiLine, end int) int {
	for {
		tok, err := s.lex.Next()
		if err != nil {
			s.err = errors.Wrapf(err, "failed to lex %s", s.file)
			s.done = true
			return end
		}
		if tok.EOF() {
			s.done = true
			return end
		}
		if tok.Pos.Line != semiLine {
			s.pending = &tok
			return end
		}

		switch tok.Type {
		case symWhitespace:
			continue
		case symComment, symMultilineComment:
			end = tok.Pos.Offset + len(tok.Value)
		default:
			s.pending = &tok
			return end
		}
	}
}

func (s *StatementScanner) next() (lexer.Token, error) {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok, nil
	}
	return s.lex.Next()
}
