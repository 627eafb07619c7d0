package task

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the YAML task file consumed when ghfetch runs as a pipeline
// step. Defaults apply to every entry; flags override both.
type Config struct {
	Defaults Defaults `yaml:"defaults"`
	Tasks    []Entry  `yaml:"tasks"`
}

// Defaults holds settings shared by all task entries.
type Defaults struct {
	DestinationFolder string        `yaml:"destination_folder"`
	APIBaseURL        string        `yaml:"api_base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	HistoryPath       string        `yaml:"history_path"`
}

// Entry describes one fetch task.
type Entry struct {
	Name                string `yaml:"name"`
	Repo                string `yaml:"repo"`
	Asset               string `yaml:"asset"`
	Tag                 string `yaml:"tag"`
	Latest              bool   `yaml:"latest"`
	DestinationFolder   string `yaml:"destination_folder"`
	DestinationFileName string `yaml:"destination_file_name"`
}

// LoadConfig loads a task file from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read task file: %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes task file data from bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse task file")
	}
	return &cfg, nil
}

// Entry returns the task entry with the given name. An empty name selects
// the sole entry of a single-task file.
func (c *Config) Entry(name string) (Entry, bool) {
	if name == "" {
		if len(c.Tasks) == 1 {
			return c.Tasks[0], true
		}
		return Entry{}, false
	}

	for _, entry := range c.Tasks {
		if entry.Name == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// Params expands the entry into fetch parameters, filling unset fields
// from the defaults.
func (e Entry) Params(defaults Defaults) Params {
	dest := strings.TrimSpace(e.DestinationFolder)
	if dest == "" {
		dest = strings.TrimSpace(defaults.DestinationFolder)
	}

	return Params{
		RepoName:            strings.TrimSpace(e.Repo),
		ReleaseFileName:     strings.TrimSpace(e.Asset),
		GetLatest:           e.Latest,
		TagName:             strings.TrimSpace(e.Tag),
		DestinationFolder:   dest,
		DestinationFileName: strings.TrimSpace(e.DestinationFileName),
	}
}
