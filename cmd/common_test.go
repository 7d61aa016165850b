package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Facets-cloud/nightly-prune/pkg/hosting"
	"github.com/stretchr/testify/assert"
)

func TestReporterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r, stop := newReporter(context.Background(), &buf, "start")
	defer stop()

	r.UpdateMessage("step")
	r.Stop("done")

	assert.Equal(t, "start\nstep\ndone\n", buf.String())
}

func TestPrintAssets(t *testing.T) {
	var buf bytes.Buffer
	printAssets(&buf, "kept", []hosting.Asset{
		{ID: 1, Name: "app-linux.tar.gz", Size: 2048, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: 2, Name: "app-darwin.tar.gz", Size: 10, CreatedAt: time.Now().Add(-3 * time.Hour)},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "app-linux.tar.gz")
	assert.Contains(t, lines[0], "2.0 KiB")
	assert.Contains(t, lines[0], "2 hours ago")
	assert.Contains(t, lines[1], "10 B")
}

func TestPrintAssetsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printAssets(&buf, "deleted", nil)
	assert.Empty(t, buf.String())
}

func TestConfigureLogging(t *testing.T) {
	assert.NoError(t, configureLogging("debug", "json"))
	assert.NoError(t, configureLogging("warn", "text"))
	assert.Error(t, configureLogging("loud", "text"))
	assert.Error(t, configureLogging("info", "xml"))
}
