package integrationtests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/releaseplan/internal/app"
	"github.com/specialistvlad/releaseplan/internal/cli"
	"github.com/specialistvlad/releaseplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Result    *app.Result
	Err       error
}

// runIntegrationTest writes files below a temporary root, parses args the way
// the binary does (with "{root}" expanded by filepath.Join) and runs the app.
func runIntegrationTest(t *testing.T, files map[string]string, input string, args ...string) *HarnessResult {
	t.Helper()
	root := testutil.WriteFiles(t, files)

	argv := append([]string{"-log-level", "debug"}, args...)
	argv = append(argv, filepath.Join(root, input))

	var usage testutil.SafeBuffer
	cfg, shouldExit, err := cli.Parse(argv, &usage)
	require.NoError(t, err, "arguments must parse: %s", usage.String())
	require.False(t, shouldExit)

	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	result, runErr := app.NewApp(out, logs, cfg, nil).Run(context.Background())
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Result:    result,
		Err:       runErr,
	}
}
