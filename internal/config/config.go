// Package config loads the site configuration that drives a build: input
// and output roots, the starting rule registry, template search paths,
// caller parameters, and the metadata-index queries.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/xmlsite/internal/metaindex"
	"git.home.luguber.info/inful/xmlsite/internal/render"
)

// Config represents the application configuration
type Config struct {
	Input     string            `yaml:"input"`     // input root directory of XML documents
	Output    string            `yaml:"output"`    // output root directory
	Rules     string            `yaml:"rules"`     // starting rule registry file
	Templates []string          `yaml:"templates"` // template search paths
	Encoding  string            `yaml:"encoding"`  // output charset, UTF-8 when empty
	Params    map[string]string `yaml:"params"`    // extra template parameters

	Highlight HighlightConfig `yaml:"highlight"`
	Index     IndexConfig     `yaml:"index"`
}

// HighlightConfig configures the syntax-highlighting template functions.
type HighlightConfig struct {
	Style       string `yaml:"style"`
	Classes     bool   `yaml:"classes"`
	ClassPrefix string `yaml:"class_prefix"`
}

// IndexConfig configures the metadata scan and the index pages rendered
// from its records.
type IndexConfig struct {
	Queries metaindex.Queries `yaml:"queries"`
	Pages   []IndexPage       `yaml:"pages"`
}

// IndexPage is one index template to render after the document pass.
type IndexPage struct {
	Template string `yaml:"template"` // looked up on the template search paths
	Output   string `yaml:"output"`   // path relative to the output root
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing environment variables win.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Input == "" {
		c.Input = "."
	}
	if c.Output == "" {
		c.Output = "./site"
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.Highlight.Style == "" {
		c.Highlight.Style = "github"
	}
	if c.Params == nil {
		c.Params = make(map[string]string)
	}
}

func (c *Config) validate() error {
	if c.Rules == "" {
		return fmt.Errorf("config: rules file is required")
	}
	for _, page := range c.Index.Pages {
		if page.Template == "" || page.Output == "" {
			return fmt.Errorf("config: index pages need both template and output")
		}
		if strings.HasPrefix(page.Output, "..") {
			return fmt.Errorf("config: index page output escapes the output root: %s", page.Output)
		}
	}
	return nil
}

// HighlightOptions converts the config section to render options.
func (c *Config) HighlightOptions() render.HighlightOptions {
	return render.HighlightOptions{
		Style:       c.Highlight.Style,
		Classes:     c.Highlight.Classes,
		ClassPrefix: c.Highlight.ClassPrefix,
	}
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(exampleConfig), 0o600)
}

const exampleConfig = `# xmlsite configuration
input: src
output: site
rules: rules/site.ini
templates:
  - templates

# Extra parameters available to templates as {{index .params "name"}}.
params:
  sitename: My Site

highlight:
  style: github
  classes: true
  class_prefix: hl-

index:
  queries:
    year: info/date/year
    month: info/date/month
    day: info/date/day
    title: info/title
    tags: info/tags
    summary: summary
  pages:
    - template: blog-index.tmpl
      output: blog/index.html
`
