package task

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleTaskFile = `
defaults:
  destination_folder: /var/cache/fetch
  api_base_url: https://github.internal/api/v3
  history_path: /var/cache/fetch/history.db
tasks:
  - name: cli
    repo: acme/widget
    asset: widget-linux-amd64.tar.gz
    tag: v1.2.3
  - name: agent
    repo: acme/agent
    asset: agent.zip
    latest: true
    destination_folder: /opt/agent
    destination_file_name: agent-current.zip
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleTaskFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.DestinationFolder != "/var/cache/fetch" {
		t.Errorf("defaults folder = %q", cfg.Defaults.DestinationFolder)
	}
	if len(cfg.Tasks) != 2 {
		t.Fatalf("task count = %d, want 2", len(cfg.Tasks))
	}
}

func TestEntryLookup(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleTaskFile))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cfg.Entry("cli"); !ok {
		t.Error("entry cli not found")
	}
	if _, ok := cfg.Entry("missing"); ok {
		t.Error("nonexistent entry reported as found")
	}
	// An empty name is ambiguous in a multi-task file.
	if _, ok := cfg.Entry(""); ok {
		t.Error("empty name must not match a multi-task file")
	}
}

func TestEntryParamsAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleTaskFile))
	if err != nil {
		t.Fatal(err)
	}

	entry, _ := cfg.Entry("cli")
	params := entry.Params(cfg.Defaults)

	if params.DestinationFolder != "/var/cache/fetch" {
		t.Errorf("folder = %q, want the default", params.DestinationFolder)
	}
	if params.RepoName != "acme/widget" || params.TagName != "v1.2.3" {
		t.Errorf("unexpected params: %+v", params)
	}
	if err := params.Validate(); err != nil {
		t.Errorf("expanded params should validate: %v", err)
	}
}

func TestEntryParamsOwnFolderWinsOverDefault(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleTaskFile))
	if err != nil {
		t.Fatal(err)
	}

	entry, _ := cfg.Entry("agent")
	params := entry.Params(cfg.Defaults)

	if params.DestinationFolder != "/opt/agent" {
		t.Errorf("folder = %q, want the entry's own folder", params.DestinationFolder)
	}
	if !params.GetLatest {
		t.Error("latest flag lost in expansion")
	}
	if params.DestinationFileName != "agent-current.zip" {
		t.Errorf("destination file name = %q", params.DestinationFileName)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	if err := os.WriteFile(path, []byte(sampleTaskFile), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Tasks) != 2 {
		t.Errorf("task count = %d, want 2", len(cfg.Tasks))
	}
}
