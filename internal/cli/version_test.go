package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersionInfo_LdflagsOverride(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "1.2.3", "abc1234", "2026-01-02"
	v, c, d := resolveVersionInfo()
	assert.Equal(t, "1.2.3", v)
	assert.Equal(t, "abc1234", c)
	assert.Equal(t, "2026-01-02", d)
}

func TestResolveVersionInfo_DevFallback(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer func() { version, commit, date = origV, origC, origD }()

	version, commit, date = "dev", "unknown", "unknown"
	v, c, d := resolveVersionInfo()

	assert.NotEmpty(t, v)
	// In a test binary, ReadBuildInfo returns test module info.
	t.Logf("resolved: version=%s commit=%s date=%s", v, c, d)
}

func TestPrintVersionInfo(t *testing.T) {
	origV := version
	defer func() { version = origV }()
	version = "0.4.0"

	var buf bytes.Buffer
	printVersionInfo(&buf)

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "taxiload 0.4.0 ("), line)
	assert.Contains(t, line, runtime.GOOS+"/"+runtime.GOARCH)
}
