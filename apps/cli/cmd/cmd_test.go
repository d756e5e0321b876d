package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/core/config"
	"github.com/abdul-hamid-achik/clueassert/packages/logging"
	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

// writeReport writes a report with one test; failing adds a failed assertion.
func writeReport(t *testing.T, dir, name string, failing bool) string {
	t.Helper()
	s := suite.New("account")
	s.Add(assertion.That("balance is positive").At("account_test.go", 12).WithClue(-5, "balance").IsTrue(!failing))
	s.Add(assertion.That("owner is set").IsTrue(true))

	path := filepath.Join(dir, name)
	require.NoError(t, report.FromSuites(name, s).WriteFile(path))
	return path
}

// execute runs the root command with fresh flag state.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	withoutColor(t)

	configFlag, debugFlag, logLevelFlag = "", false, ""
	outputFlag, outputFileFlag, historyFlag = "", "", ""
	noColorFlag, verboseFlag, showPassedFlag, watchFlag = true, false, false, false
	listFailedFlag, forceInit = false, false
	diffOutputFlag, diffAllFlag = "console", false
	historyDBFlag, historyLimitFlag = "", 20
	metricsFlag, metricsFileFlag = "", ""
	notifyFlag, notifyOnFlag = "", "failure"
	slackWebhookFlag, slackChannelFlag, teamsWebhookFlag = "", "", ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestIsReportFile(t *testing.T) {
	assert.True(t, isReportFile("r.json"))
	assert.True(t, isReportFile("dir/R.JSON"))
	assert.False(t, isReportFile("r.yaml"))
	assert.False(t, isReportFile("json"))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeReport(t, dir, "a.json", false)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	b := writeReport(t, filepath.Join(dir, "nested"), "b.json", false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	explicit := filepath.Join(dir, "notes.txt")
	files, err = collectFiles([]string{explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"console", "json", "junit", "tap", "html"} {
		t.Run(format, func(t *testing.T) {
			withoutColor(t)
			f, err := newFormatter(renderOptions{format: format}, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}

	_, err := newFormatter(renderOptions{format: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestRenderer_RenderFiles(t *testing.T) {
	withoutColor(t)
	dir := t.TempDir()
	good := writeReport(t, dir, "good.json", false)
	bad := writeReport(t, dir, "bad.json", true)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"tests": 1}`), 0644))

	var buf bytes.Buffer
	r := &renderer{opts: renderOptions{format: "console", noColor: true}, out: &buf, log: logging.Nop()}

	summary, err := r.renderFiles(context.Background(), []string{good, bad, broken})
	require.NoError(t, err)
	assert.Equal(t, suite.Summary{Total: 4, Passed: 3, Failed: 1}, summary)
	assert.Equal(t, 1, r.loadErrors)

	out := buf.String()
	assert.Contains(t, out, "x balance is positive\n      at account_test.go:12\n      balance = -5\n")
	assert.NotContains(t, out, "+ owner is set")
	assert.Contains(t, out, "Error:")
}

func TestRenderer_RenderFiles_Concurrent(t *testing.T) {
	withoutColor(t)
	dir := t.TempDir()
	bad := writeReport(t, dir, "bad.json", true)
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"tests": 1}`), 0644))

	var buf bytes.Buffer
	r := &renderer{opts: renderOptions{format: "console", noColor: true}, out: &buf, log: logging.Nop()}

	const runs = 8
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := r.renderFiles(context.Background(), []string{bad, broken})
			assert.NoError(t, err)
			assert.Equal(t, suite.Summary{Total: 2, Passed: 1, Failed: 1}, summary)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.loadErrors)
	assert.Equal(t, runs, strings.Count(buf.String(), "x balance is positive\n      at account_test.go:12\n"))
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("passing report", func(t *testing.T) {
		path := writeReport(t, dir, "pass.json", false)
		stdout, _, err := execute(t, "render", path, "--show-passed")
		require.NoError(t, err)
		assert.Contains(t, stdout, "+ balance is positive")
		assert.Contains(t, stdout, "2 passed")
	})

	t.Run("failing report exits with assertion failure", func(t *testing.T) {
		path := writeReport(t, dir, "fail.json", true)
		stdout, _, err := execute(t, "render", path)
		assert.Equal(t, ExitAssertionFailure, exitCode(err))
		assert.Contains(t, stdout, "balance = -5")
	})

	t.Run("json output to file", func(t *testing.T) {
		path := writeReport(t, dir, "json.json", false)
		out := filepath.Join(dir, "out", "result.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(out), 0755))

		_, _, err := execute(t, "render", path, "-o", "json", "--output-file", out)
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"balance is positive"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeReport(t, dir, "fmt.json", false)
		_, _, err := execute(t, "render", path, "-o", "xml")
		assert.Equal(t, ExitUsageError, exitCode(err))
	})
}

func TestRenderCommand_Metrics(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "metrics.json", false)
	promFile := filepath.Join(dir, "clueassert.prom")

	_, _, err := execute(t, "render", path, "--metrics", "prometheus", "--metrics-file", promFile)
	require.NoError(t, err)

	data, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `clueassert_assertions{outcome="passed"} 2`)

	_, _, err = execute(t, "render", path, "--metrics", "statsd", "--metrics-file", promFile)
	assert.Equal(t, ExitUsageError, exitCode(err))

	_, _, err = execute(t, "render", path, "--metrics", "json")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestRenderCommand_Notify(t *testing.T) {
	var posted map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&posted)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := writeReport(t, t.TempDir(), "notify.json", true)
	_, _, err := execute(t, "render", path, "--notify", "slack", "--slack-webhook", srv.URL)
	assert.Equal(t, ExitAssertionFailure, exitCode(err))

	require.NotNil(t, posted)
	attachments := posted["attachments"].([]any)
	require.Len(t, attachments, 1)
	assert.Contains(t, attachments[0].(map[string]any)["text"], "balance = -5")

	_, _, err = execute(t, "render", path, "--notify", "pager")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeReport(t, dir, "good.json", false)

	stdout, _, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Valid: "+good)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "x"}`), 0644))
	_, stderr, err := execute(t, "validate", bad)
	assert.Equal(t, ExitInvalidReport, exitCode(err))
	assert.Contains(t, stderr, "Invalid: "+bad)
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "r.json", true)

	stdout, _, err := execute(t, "list", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "  - account (1/2 passed)")

	stdout, _, err = execute(t, "list", path, "--failed")
	require.NoError(t, err)
	assert.Contains(t, stdout, "  - balance is positive")
	assert.NotContains(t, stdout, "owner is set")
}

func TestQueryCommand(t *testing.T) {
	path := writeReport(t, t.TempDir(), "r.json", false)

	stdout, _, err := execute(t, "query", path, "tests.0.name")
	require.NoError(t, err)
	assert.Equal(t, "account\n", stdout)

	_, _, err = execute(t, "query", path, "tests.9.name")
	assert.ErrorIs(t, err, report.ErrNoMatch)
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	db := "sqlite://" + filepath.Join(dir, "history.db")
	path := writeReport(t, dir, "saved.json", false)

	_, _, err := execute(t, "render", path, "--history", db)
	require.NoError(t, err)

	stdout, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved.json")

	doc, err := report.Load(path)
	require.NoError(t, err)
	stdout, _, err = execute(t, "history", "show", doc.ID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Report: saved.json")

	_, _, err = execute(t, "history", "show", "missing", "--db", db)
	assert.Error(t, err)

	_, _, err = execute(t, "history")
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	cfg, err := config.FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())

	_, _, err = execute(t, "init")
	assert.Equal(t, ExitUsageError, exitCode(err))

	_, _, err = execute(t, "init", "--force")
	assert.NoError(t, err)
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	before := writeReport(t, dir, "before.json", false)
	after := writeReport(t, dir, "after.json", true)

	stdout, _, err := execute(t, "diff", before, after)
	assert.Equal(t, ExitAssertionFailure, exitCode(err))
	assert.Contains(t, stdout, "account / balance is positive  passed → failed")
	assert.NotContains(t, stdout, "owner is set")

	stdout, _, err = execute(t, "diff", after, before, "--all", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"change": "fixed"`)
	assert.Contains(t, stdout, `"change": "unchanged"`)
}

func TestSchemaCommand(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Equal(t, string(report.Schema()), stdout)
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "clueassert")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "clueassert version dev")
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := &ExitError{Code: ExitConfigError, Err: inner}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "exit status 1", (&ExitError{Code: 1}).Error())
}
