package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/odvcencio/plumb/pkg/object"
)

func TestReadConfig_MissingFileReturnsEmpty(t *testing.T) {
	r := initTestRepo(t)
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReadConfig_RoundTrip(t *testing.T) {
	r := initTestRepo(t)
	want := &Config{User: UserConfig{Name: "Ada Lovelace", Email: "ada@example.com", Timezone: "-0230"}}
	if err := r.WriteConfig(want); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	got, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Parses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plumb.toml")
	data := "[user]\nname = \"Grace\"\nemail = \"grace@example.com\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	fallback := object.Identity{Name: "Default", Email: "default@example.com", Timezone: "+0100"}
	got := cfg.Identity(fallback)
	want := object.Identity{Name: "Grace", Email: "grace@example.com", Timezone: "+0100"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plumb.toml")
	if err := os.WriteFile(path, []byte("[user]\nnmae = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig accepted an unknown key")
	}
	if !strings.Contains(err.Error(), "user.nmae") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestLoadConfig_RejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plumb.toml")
	if err := os.WriteFile(path, []byte("[user\nname = "), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted malformed TOML")
	}
}

func TestConfigIdentity_NilConfig(t *testing.T) {
	var cfg *Config
	fallback := object.Identity{Name: "N", Email: "e", Timezone: "+0000"}
	if got := cfg.Identity(fallback); got != fallback {
		t.Errorf("Identity = %+v, want %+v", got, fallback)
	}
}
