package libdetect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludesCPPExtractsAngleAndQuotedPaths(t *testing.T) {
	src := `
#include <spdlog/spdlog.h>
#include "local_helper.h"
#include <math.h>

int add(int a, int b) { return a + b; }
`
	includes, err := Includes(context.Background(), "CPP", src)
	require.NoError(t, err)
	assert.Contains(t, includes, "spdlog/spdlog.h")
	assert.Contains(t, includes, "local_helper.h")
	assert.Contains(t, includes, "math.h")
}

func TestIncludesPythonExtractsImportAndFromImport(t *testing.T) {
	src := `
import numpy
from os import path

def greet():
    return "hi"
`
	includes, err := Includes(context.Background(), "PY", src)
	require.NoError(t, err)
	assert.Contains(t, includes, "numpy")
	assert.Contains(t, includes, "os")
}

func TestIncludesJavaScriptExtractsImportAndRequire(t *testing.T) {
	src := `
import fs from "fs";
const lodash = require("lodash");
`
	includes, err := Includes(context.Background(), "JS", src)
	require.NoError(t, err)
	assert.Contains(t, includes, "fs")
	assert.Contains(t, includes, "lodash")
}

func TestResolveUnionsFlagsAcrossMultipleMatches(t *testing.T) {
	detected, flags := Resolve(DefaultTable, []string{"spdlog/spdlog.h", "math.h", "unknown/thing.h"})
	assert.ElementsMatch(t, detected, []string{"spdlog/spdlog.h", "math.h"})
	assert.Contains(t, flags, "-lspdlog")
	assert.Contains(t, flags, "-lfmt")
	assert.Contains(t, flags, "-lm")
}

func TestScannerScanCombinesExtractionAndResolution(t *testing.T) {
	s := NewScanner(nil)
	report, err := s.Scan(context.Background(), "CPP", `#include <openssl/ssl.h>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"openssl/ssl.h"}, report.Includes)
	assert.Equal(t, []string{"openssl/ssl.h"}, report.Detected)
	assert.ElementsMatch(t, []string{"-lssl", "-lcrypto"}, report.Flags)
}

func TestScanUnsupportedLanguageErrors(t *testing.T) {
	_, err := Includes(context.Background(), "RUBY", "require 'set'")
	require.Error(t, err)
}
