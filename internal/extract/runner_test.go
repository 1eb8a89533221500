package extract

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := execRunner{log: log}

	_, _, err := r.Run(context.Background(), "/does/not/exist-bin")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "exec failed")
}
