package lexer

import (
	"testing"

	"github.com/naab-lang/naab/internal/token"
)

type expectedTok struct {
	kind   token.Kind
	lexeme string
}

// runLexerTest drains the lexer, skipping NEWLINE tokens (irrelevant to
// these checks), and compares the remaining stream against expected.
func runLexerTest(t *testing.T, input string, expected []expectedTok) {
	t.Helper()
	l := New(input)
	i := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Kind == token.NEWLINE {
			continue
		}
		if i >= len(expected) {
			t.Fatalf("more tokens than expected, got extra %v", tok)
		}
		if tok.Kind != expected[i].kind {
			t.Fatalf("tests[%d] - kind mismatch. expected=%q, got=%q", i, expected[i].kind, tok.Kind)
		}
		if tok.Lexeme != expected[i].lexeme {
			t.Fatalf("tests[%d] - lexeme mismatch. expected=%q, got=%q", i, expected[i].lexeme, tok.Lexeme)
		}
		i++
		if tok.Kind == token.EOF {
			break
		}
	}
}

func TestNextToken_Literals(t *testing.T) {
	input := `
x = 10
name = "Amogh"
flag = true
pi = 3.14
nothing = null
`
	runLexerTest(t, input, []expectedTok{
		{token.IDENT, "x"}, {token.ASSIGN, "="}, {token.INT, "10"},
		{token.IDENT, "name"}, {token.ASSIGN, "="}, {token.STRING, "Amogh"},
		{token.IDENT, "flag"}, {token.ASSIGN, "="}, {token.BOOL, "true"},
		{token.IDENT, "pi"}, {token.ASSIGN, "="}, {token.FLOAT, "3.14"},
		{token.IDENT, "nothing"}, {token.ASSIGN, "="}, {token.NULL, "null"},
		{token.EOF, ""},
	})
}

func TestNextToken_Operators(t *testing.T) {
	input := `a + b - c * d / e % f == g != h <= i >= j && k || l |> m`
	runLexerTest(t, input, []expectedTok{
		{token.IDENT, "a"}, {token.PLUS, "+"}, {token.IDENT, "b"},
		{token.MINUS, "-"}, {token.IDENT, "c"},
		{token.STAR, "*"}, {token.IDENT, "d"},
		{token.SLASH, "/"}, {token.IDENT, "e"},
		{token.PERCENT, "%"}, {token.IDENT, "f"},
		{token.EQ, "=="}, {token.IDENT, "g"},
		{token.NOT_EQ, "!="}, {token.IDENT, "h"},
		{token.LT_EQ, "<="}, {token.IDENT, "i"},
		{token.GT_EQ, ">="}, {token.IDENT, "j"},
		{token.AND, "&&"}, {token.IDENT, "k"},
		{token.OR, "||"}, {token.IDENT, "l"},
		{token.PIPE, "|>"}, {token.IDENT, "m"},
		{token.EOF, ""},
	})
}

func TestNextToken_BlockID(t *testing.T) {
	input := `use BLOCK-CPP-MATH01 as math`
	runLexerTest(t, input, []expectedTok{
		{token.USE, "use"},
		{token.BLOCK_ID, "BLOCK-CPP-MATH01"},
		{token.AS, "as"},
		{token.IDENT, "math"},
		{token.EOF, ""},
	})
}

func TestNextToken_BlockIDFallsBackWhenMalformed(t *testing.T) {
	// "BLOCK" not followed by a valid "-LANG-CODE" suffix stays a plain
	// identifier rather than erroring.
	input := `BLOCK - 1`
	runLexerTest(t, input, []expectedTok{
		{token.IDENT, "BLOCK"},
		{token.MINUS, "-"},
		{token.INT, "1"},
		{token.EOF, ""},
	})
}

func TestNextToken_InlineBlock(t *testing.T) {
	input := `let r = <<sh[] echo hello >>`
	l := New(input)
	var got token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Kind == token.INLINE_BLOCK {
			got = tok
			break
		}
		if tok.Kind == token.EOF {
			t.Fatal("did not find INLINE_BLOCK token")
		}
	}
	if got.Payload == nil {
		t.Fatal("expected inline payload")
	}
	if got.Payload.Language != "sh" {
		t.Fatalf("expected language sh, got %s", got.Payload.Language)
	}
	if got.Payload.Body != "echo hello" {
		t.Fatalf("expected body %q, got %q", "echo hello", got.Payload.Body)
	}
}

func TestNextToken_InlineBlockIgnoresNestedBrackets(t *testing.T) {
	input := `<<cpp[x] vector<vector<int>> v; >>`
	l := New(input)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if tok.Kind != token.INLINE_BLOCK {
		t.Fatalf("expected INLINE_BLOCK, got %s", tok.Kind)
	}
}

func TestNextToken_Comment(t *testing.T) {
	input := "x = 1 # this is a comment\ny = 2"
	runLexerTest(t, input, []expectedTok{
		{token.IDENT, "x"}, {token.ASSIGN, "="}, {token.INT, "1"},
		{token.IDENT, "y"}, {token.ASSIGN, "="}, {token.INT, "2"},
		{token.EOF, ""},
	})
}

func TestNextToken_StringEscapes(t *testing.T) {
	input := `"a\nb\t\x41"`
	l := New(input)
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if tok.Lexeme != "a\nb\tA" {
		t.Fatalf("expected %q, got %q", "a\nb\tA", tok.Lexeme)
	}
}

func TestNextToken_UnterminatedStringIsFatal(t *testing.T) {
	l := New(`"never closed`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an error for unterminated string")
	}
}

// collectKinds drains every token (including NEWLINE) and returns their
// kinds, used to check newline significance directly.
func collectKinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	l := New(input)
	var kinds []token.Kind
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestNextToken_NewlineTerminatesStatement(t *testing.T) {
	kinds := collectKinds(t, "x = 1\ny = 2")
	want := []token.Kind{
		token.IDENT, token.ASSIGN, token.INT, token.NEWLINE,
		token.IDENT, token.ASSIGN, token.INT, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}

func TestNextToken_NewlineSwallowedAfterOperator(t *testing.T) {
	// Trailing "+" means the statement clearly continues on the next line.
	kinds := collectKinds(t, "x = 1 +\n2")
	for _, k := range kinds {
		if k == token.NEWLINE {
			t.Fatalf("did not expect a NEWLINE token in %v", kinds)
		}
	}
}

func TestNextToken_NewlineSwallowedBeforePipeline(t *testing.T) {
	// A "|>" on the next line continues the pipeline regardless of what
	// came before the newline.
	kinds := collectKinds(t, "x\n|> f()")
	for _, k := range kinds {
		if k == token.NEWLINE {
			t.Fatalf("did not expect a NEWLINE token in %v", kinds)
		}
	}
}

func TestNextToken_BlankLinesCollapseToOneNewline(t *testing.T) {
	kinds := collectKinds(t, "x = 1\n\n\n\ny = 2")
	count := 0
	for _, k := range kinds {
		if k == token.NEWLINE {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 NEWLINE token, got %d in %v", count, kinds)
	}
}
