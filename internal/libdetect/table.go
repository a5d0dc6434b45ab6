// Package libdetect scans a block's source for #include/import statements
// and resolves them to linker flags via a static, additive table (§6
// "Library detection table"). It is consumed by the C++ executor before a
// first-time compile; the JS and Python executors do not call it.
package libdetect

import "github.com/bmatcuk/doublestar/v4"

// Entry maps one doublestar include-path pattern to the linker flags it
// contributes. Multiple matching entries union their flags (§6: "Entries
// must be additive").
type Entry struct {
	Pattern string
	Flags   []string
}

// DefaultTable is the built-in include/import -> linker-flag table (§6).
// It is a configuration input, not code: callers may supply their own via
// NewScanner's table argument instead of editing this slice.
var DefaultTable = []Entry{
	{Pattern: "llvm/IR/**", Flags: []string{"-lLLVM"}},
	{Pattern: "spdlog/**", Flags: []string{"-lspdlog", "-lfmt"}},
	{Pattern: "fmt/**", Flags: []string{"-lfmt"}},
	{Pattern: "boost/**", Flags: []string{"-lboost_system", "-lboost_filesystem"}},
	{Pattern: "Eigen/**", Flags: nil}, // header-only
	{Pattern: "opencv2/**", Flags: []string{"-lopencv_core", "-lopencv_imgproc"}},
	{Pattern: "openssl/**", Flags: []string{"-lssl", "-lcrypto"}},
	{Pattern: "curl/**", Flags: []string{"-lcurl"}},
	{Pattern: "zlib.h", Flags: []string{"-lz"}},
	{Pattern: "sqlite3.h", Flags: []string{"-lsqlite3"}},
	{Pattern: "google/protobuf/**", Flags: []string{"-lprotobuf"}},
	{Pattern: "gtest/**", Flags: []string{"-lgtest", "-lgtest_main"}},
	{Pattern: "nlohmann/json.hpp", Flags: nil}, // header-only
	{Pattern: "numpy/**", Flags: nil},          // interpreted, no link step
	{Pattern: "math.h", Flags: []string{"-lm"}},
	{Pattern: "pthread.h", Flags: []string{"-lpthread"}},
}

// Resolve unions the flags of every table entry whose pattern matches one
// of includes, and returns the deduplicated list of includes that matched
// at least one entry alongside the deduplicated, order-stable flag list.
func Resolve(table []Entry, includes []string) (detected []string, flags []string) {
	seenLib := make(map[string]bool)
	seenFlag := make(map[string]bool)
	for _, inc := range includes {
		matched := false
		for _, e := range table {
			ok, err := doublestar.Match(e.Pattern, inc)
			if err != nil || !ok {
				continue
			}
			matched = true
			for _, f := range e.Flags {
				if !seenFlag[f] {
					seenFlag[f] = true
					flags = append(flags, f)
				}
			}
		}
		if matched && !seenLib[inc] {
			seenLib[inc] = true
			detected = append(detected, inc)
		}
	}
	return detected, flags
}
