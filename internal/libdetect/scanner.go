package libdetect

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// includeQueries holds, per language, the tree-sitter query used to pull
// every #include / import path out of a parsed tree, grounded on the capture-driven
// query execution shown in termfx-morfx's universal evaluator
// (internal/evaluator/universal.go): NewQuery + QueryCursor.Exec + NextMatch.
var includeQueries = map[string]string{
	"CPP": `(preproc_include path: (_) @path)`,
	"PY": `[
		(import_statement name: (dotted_name) @path)
		(import_from_statement module_name: (dotted_name) @path)
		(import_from_statement module_name: (relative_import) @path)
	]`,
	"JS": `[
		(import_statement source: (string) @path)
		(call_expression function: (identifier) @fn arguments: (arguments (string) @path) (#eq? @fn "require"))
	]`,
}

func grammarFor(language string) (*sitter.Language, error) {
	switch language {
	case "CPP":
		return cpp.GetLanguage(), nil
	case "PY":
		return python.GetLanguage(), nil
	case "JS":
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("libdetect: unsupported language %q", language)
	}
}

// Includes parses source as language ("CPP", "PY", or "JS") and returns
// every include/import path it references, stripped of quoting/angle
// brackets. Parse errors from tree-sitter's error-tolerant grammar are not
// fatal: partial ASTs still yield whatever includes parsed cleanly.
func Includes(ctx context.Context, language, source string) ([]string, error) {
	lang, err := grammarFor(language)
	if err != nil {
		return nil, err
	}
	queryStr, ok := includeQueries[language]
	if !ok {
		return nil, fmt.Errorf("libdetect: no include query for %q", language)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, []byte(source))
	if err != nil {
		return nil, fmt.Errorf("libdetect: parsing %s source: %w", language, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(queryStr), lang)
	if err != nil {
		return nil, fmt.Errorf("libdetect: compiling %s include query: %w", language, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	src := []byte(source)
	var includes []string
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range m.Captures {
			name := q.CaptureNameForId(capture.Index)
			if name != "path" {
				continue
			}
			includes = append(includes, cleanInclude(capture.Node.Content(src)))
		}
	}
	return includes, nil
}

// cleanInclude strips the quoting a raw captured include/import node still
// carries: C++'s <...> / "...", and JS/Python's string quotes.
func cleanInclude(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	return s
}
