package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipnote/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `database:
  driver: sqlite
  sqlite:
    path: %DB%
llm:
  enabled: false
auth:
  jwt_secret: 0123456789abcdef
log:
  level: error
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := strings.ReplaceAll(testConfig, "%DB%", filepath.Join(dir, "clipnote.db"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSummarize_JSONWithoutDatabase(t *testing.T) {
	cfg := writeConfig(t)
	text := "Docker containers package an application with its dependencies. Kubernetes schedules those containers across a cluster of machines. " +
		"Deployments roll out new versions gradually and services route traffic to healthy pods."

	out, err := runCLI(t, "", "--config", cfg, "summarize", "--json", text)
	require.NoError(t, err, out)

	var report summaryReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, "raw", report.Source)
	assert.Equal(t, "keyword", report.Method)
	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.Category)
	assert.NotEmpty(t, report.Tags)
	assert.FileExists(t, cfg)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfg), "clipnote.db"))
}

func TestSummarize_Stdin(t *testing.T) {
	cfg := writeConfig(t)
	out, err := runCLI(t, "Short note about cooking pasta with garlic and olive oil.", "--config", cfg, "summarize", "-", "--title", "Dinner")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dinner")
	assert.Contains(t, out, "Category:")
}

func TestNoteSearchAndTagFlow(t *testing.T) {
	cfg := writeConfig(t)

	out, err := runCLI(t, "", "--config", cfg, "tag", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No tags found.")

	out, err = runCLI(t, "", "--config", cfg, "note", "add", "--title", "Kafka partitions",
		"--tags", "streaming, kafka", "Kafka topics are split into partitions that consumer groups read in parallel.")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Note added (ID: 1): Kafka partitions")

	out, err = runCLI(t, "", "--config", cfg, "note", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Kafka partitions")
	assert.Contains(t, out, "streaming, kafka")

	out, err = runCLI(t, "", "--config", cfg, "search", "kafka", "partitions")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Kafka partitions")
	assert.Contains(t, out, "note")

	out, err = runCLI(t, "", "--config", cfg, "tag", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "streaming")

	out, err = runCLI(t, "", "--config", cfg, "chat", "what", "about", "kafka", "partitions")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Kafka partitions")

	out, err = runCLI(t, "", "--config", cfg, "chat", "history")
	require.NoError(t, err, out)
	assert.Contains(t, out, "kafka partitions")

	out, err = runCLI(t, "", "--config", cfg, "chat", "clear")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted 1 chat messages")

	out, err = runCLI(t, "", "--config", cfg, "note", "delete", "1")
	require.NoError(t, err, out)

	out, err = runCLI(t, "", "--config", cfg, "search", "kafka")
	require.NoError(t, err, out)
	assert.Contains(t, out, "No results found.")
}

func TestNoteAdd_FileTitle(t *testing.T) {
	cfg := writeConfig(t)
	file := filepath.Join(t.TempDir(), "reading-list.md")
	require.NoError(t, os.WriteFile(file, []byte("Designing Data-Intensive Applications"), 0o600))

	out, err := runCLI(t, "", "--config", cfg, "note", "add", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "reading-list")

	_, err = runCLI(t, "", "--config", cfg, "note", "add", "literal text without a title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title")
}

func TestNoteImport(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kafka.md"), []byte("Kafka partitions order messages per key."), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "redis.txt"), []byte("Redis streams support consumer groups."), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("x"), 0o600))

	out, err := runCLI(t, "", "--config", cfg, "note", "import", dir, "-T", "imported")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 notes, 1 failed")
	assert.Contains(t, out, "file is empty")

	out, err = runCLI(t, "", "--config", cfg, "note", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "kafka")
	assert.Contains(t, out, "redis")
	assert.Contains(t, out, "imported")

	out, err = runCLI(t, "", "--config", cfg, "note", "import", t.TempDir())
	require.NoError(t, err, out)
	assert.Contains(t, out, "No note files found.")
}

func TestChat_NoContent(t *testing.T) {
	cfg := writeConfig(t)
	out, err := runCLI(t, "", "--config", cfg, "chat", "anything", "about", "rust")
	require.NoError(t, err, out)
	assert.Contains(t, out, services.NoResultsReply)
}

func TestCommandErrors(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"invalid user id", []string{"--user-id", "-1", "list"}, "invalid user id"},
		{"unsupported url", []string{"capture", "https://example.com/clip"}, "1 of 1 URL(s) failed"},
		{"migrate on sqlite", []string{"migrate", "version"}, "postgres driver only"},
		{"bad video id", []string{"show", "abc"}, "invalid ID"},
		{"missing video", []string{"delete", "42"}, "failed to delete video 42"},
		{"queue without redis", []string{"tag", "regenerate-all", "--queue"}, "--queue needs ingest.async"},
		{"ask without llm", []string{"note", "ask", "what", "is", "go"}, "clipnote doctor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmptyListings(t *testing.T) {
	cfg := writeConfig(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"list"}, "No videos found."},
		{[]string{"note", "list"}, "No notes found."},
		{[]string{"jobs"}, "No jobs found."},
		{[]string{"cost", "list"}, "No cost logs found."},
		{[]string{"cost", "summary"}, "Total Cost:"},
		{[]string{"chat", "history"}, "No chat history found."},
		{[]string{"tag", "regenerate-all", "--no-progress"}, "Processed 0 videos"},
		{[]string{"fix-titles"}, "Processed 0 videos"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, "", append([]string{"--config", cfg}, tt.args...)...)
			require.NoError(t, err, out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestHasAnyTag(t *testing.T) {
	assert.True(t, hasAnyTag([]string{"Go"}, nil))
	assert.True(t, hasAnyTag([]string{"Go", "rust"}, []string{"go"}))
	assert.False(t, hasAnyTag([]string{"python"}, []string{"go"}))
}

func TestTruncateColumn(t *testing.T) {
	assert.Equal(t, "short", truncateColumn("short", 10))
	assert.Equal(t, "abcdefg...", truncateColumn("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", truncateColumn("héllo world!", 10))
}
