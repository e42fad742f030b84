package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozcodx/mailprocessor/internal/analyze"
	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "downloads", cfg.Mail.DownloadFolder)
	assert.Equal(t, "reports", cfg.Report.OutputFolder)
	assert.Equal(t, 7, cfg.Parser.FallbackHeaderRow)
	assert.Equal(t, classify.RulesetPrefix, cfg.Classifier.Ruleset)
	assert.Equal(t, analyze.PolicyLeavesOnly, cfg.Aggregation.Policy)

	require.Len(t, cfg.Classifier.Categories, 6)
	assert.Equal(t, "animales", cfg.Classifier.Categories[0].Name)
	assert.Equal(t, []string{"1445"}, cfg.Classifier.Categories[0].Prefixes)
	assert.Equal(t, "otros", cfg.Classifier.Categories[5].Name)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	original := Default()
	original.Mail.Username = "finca@example.com"
	original.Report.Excel = true
	original.Aggregation.Policy = analyze.PolicyAllRows

	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadPreservesCategoryOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	content := `classifier:
  ruleset: prefix
  categories:
    - name: legal
      prefixes: ["14"]
    - name: animales
      prefixes: ["1445"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	rules := cfg.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, model.CategoryLegal, rules[0].Category)

	// Declaration order decides ties, so "14" claims livestock codes.
	c := classify.New(rules, cfg.Classifier.Ruleset)
	assert.Equal(t, model.CategoryLegal, c.Category("1445001", ""))
}

func TestLoadPasswordFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, Save(path, Default()))

	t.Setenv("MAILPROCESSOR_PASSWORD", "hunter2")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Mail.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
