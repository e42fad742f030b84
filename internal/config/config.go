package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ozcodx/mailprocessor/internal/analyze"
	"github.com/ozcodx/mailprocessor/internal/classify"
	"github.com/ozcodx/mailprocessor/internal/model"
	"github.com/ozcodx/mailprocessor/internal/sheet"
)

// DefaultFile is the config filename looked up in the working directory.
const DefaultFile = "mailprocessor.yaml"

// Config represents the top-level mailprocessor.yaml configuration.
type Config struct {
	Mail        MailConfig        `yaml:"mail"`
	Report      ReportConfig      `yaml:"report"`
	Parser      ParserConfig      `yaml:"parser"`
	Classifier  ClassifierConfig  `yaml:"classifier"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// MailConfig holds the IMAP mailbox settings. The password may be left
// empty in the file and supplied via MAILPROCESSOR_PASSWORD.
type MailConfig struct {
	Server         string `yaml:"server"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password,omitempty"`
	SearchSubject  string `yaml:"search_subject,omitempty"`
	SearchFrom     string `yaml:"search_from,omitempty"`
	DownloadFolder string `yaml:"download_folder"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	OutputFolder string `yaml:"output_folder"`
	Excel        bool   `yaml:"excel"`
}

// ParserConfig controls header-row detection.
type ParserConfig struct {
	HeaderMarker string `yaml:"header_marker"`
	// FallbackHeaderRow is used when no detection strategy succeeds.
	// Tied to the known export format; adjust for other sources.
	FallbackHeaderRow int `yaml:"fallback_header_row"`
}

// ClassifierConfig selects the category rule-set. Categories are
// order-sensitive: the first declared category wins prefix ties.
type ClassifierConfig struct {
	Ruleset    classify.Ruleset `yaml:"ruleset"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig is one category rule in declaration order.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// AggregationConfig selects the aggregation policy.
type AggregationConfig struct {
	Policy analyze.Policy `yaml:"policy"`
}

// Load reads a mailprocessor.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if pw := os.Getenv("MAILPROCESSOR_PASSWORD"); pw != "" {
		cfg.Mail.Password = pw
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the stock rule table and sensible
// defaults for a new project.
func Default() *Config {
	var categories []CategoryConfig
	for _, rule := range classify.DefaultRules() {
		categories = append(categories, CategoryConfig{
			Name:     string(rule.Category),
			Prefixes: rule.Prefixes,
			Keywords: rule.Keywords,
		})
	}

	return &Config{
		Mail: MailConfig{
			Server:         "imap.gmail.com:993",
			DownloadFolder: "downloads",
		},
		Report: ReportConfig{
			OutputFolder: "reports",
		},
		Parser: ParserConfig{
			HeaderMarker:      sheet.DefaultHeaderMarker,
			FallbackHeaderRow: sheet.DefaultFallbackHeaderRow,
		},
		Classifier: ClassifierConfig{
			Ruleset:    classify.RulesetPrefix,
			Categories: categories,
		},
		Aggregation: AggregationConfig{
			Policy: analyze.PolicyLeavesOnly,
		},
	}
}

// Rules converts the configured categories into classifier rules,
// preserving declaration order.
func (c *Config) Rules() []classify.CategoryRule {
	rules := make([]classify.CategoryRule, 0, len(c.Classifier.Categories))
	for _, cat := range c.Classifier.Categories {
		rules = append(rules, classify.CategoryRule{
			Category: model.Category(cat.Name),
			Prefixes: cat.Prefixes,
			Keywords: cat.Keywords,
		})
	}
	return rules
}
