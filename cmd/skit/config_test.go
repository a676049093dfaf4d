package main

import (
	"path/filepath"
	"testing"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/testutil"
)

// envMap returns a getenv backed by vars.
func envMap(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	testutil.WriteFile(t, path, content)
	return path
}

// -----------------------------------------------------------------------------
// Precedence
// -----------------------------------------------------------------------------

func TestLoadConfigPrecedence(t *testing.T) {
	yamlPath := writeConfig(t, "skit.yaml", `
database_url: ${DB_DIR}/file.db
dialect: sqlite
log_level: info
`)

	tests := []struct {
		name      string
		flags     globalFlags
		env       map[string]string
		wantURL   string
		wantLevel string
	}{
		{
			name:      "file with expansion",
			flags:     globalFlags{configFile: yamlPath},
			env:       map[string]string{"DB_DIR": "/data"},
			wantURL:   "/data/file.db",
			wantLevel: "info",
		},
		{
			name:      "DATABASE_URL over file",
			flags:     globalFlags{configFile: yamlPath},
			env:       map[string]string{"DATABASE_URL": "env.db"},
			wantURL:   "env.db",
			wantLevel: "info",
		},
		{
			name:      "SKIT_DATABASE_URL over DATABASE_URL",
			flags:     globalFlags{configFile: yamlPath},
			env:       map[string]string{"DATABASE_URL": "env.db", "SKIT_DATABASE_URL": "skit.db", "SKIT_LOG_LEVEL": "error"},
			wantURL:   "skit.db",
			wantLevel: "error",
		},
		{
			name:      "flags over env",
			flags:     globalFlags{configFile: yamlPath, databaseURL: "flag.db", logLevel: "debug"},
			env:       map[string]string{"SKIT_DATABASE_URL": "skit.db", "SKIT_LOG_LEVEL": "error"},
			wantURL:   "flag.db",
			wantLevel: "debug",
		},
		{
			name:      "defaults",
			flags:     globalFlags{},
			env:       map[string]string{},
			wantURL:   "",
			wantLevel: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(&tt.flags, envMap(tt.env))
			testutil.Must(t, err)
			testutil.AssertEqual(t, cfg.DatabaseURL, tt.wantURL)
			testutil.AssertEqual(t, cfg.LogLevel, tt.wantLevel)
		})
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "skit.toml", `
database_url = "postgres://app@localhost/app"
driver = "pgx"
timeout = "5s"
`)
	cfg, err := loadConfig(&globalFlags{configFile: path}, envMap(nil))
	testutil.Must(t, err)
	testutil.AssertEqual(t, cfg.Driver, "pgx")
	testutil.AssertEqual(t, cfg.dialectName(), "postgres")

	opts, err := cfg.managerOptions(nil)
	testutil.Must(t, err)
	testutil.AssertEqual(t, len(opts), 4)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "skit.yaml", "databse_url: x.db\n"},
		{"bad yaml", "skit.yaml", "database_url: [\n"},
		{"unknown toml key", "skit.toml", "databse_url = \"x.db\"\n"},
		{"bad extension", "skit.json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			_, err := loadConfig(&globalFlags{configFile: path}, envMap(nil))
			testutil.AssertError(t, err, alerr.ErrConfigInvalid)
		})
	}

	_, err := loadConfig(&globalFlags{configFile: filepath.Join(t.TempDir(), "missing.yaml")}, envMap(nil))
	if err == nil {
		t.Error("an explicit config file that does not exist should fail")
	}
}

func TestEmptyConfigFile(t *testing.T) {
	path := writeConfig(t, "skit.yaml", "")
	cfg, err := loadConfig(&globalFlags{configFile: path}, envMap(nil))
	testutil.Must(t, err)
	testutil.AssertEqual(t, cfg.LogLevel, "warn")
}

// -----------------------------------------------------------------------------
// Derived settings
// -----------------------------------------------------------------------------

func TestDialectName(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Dialect: "mysql", DatabaseURL: "app.db"}, "mysql"},
		{Config{DatabaseURL: "app.db"}, "sqlite"},
		{Config{DatabaseURL: "mysql://root@localhost/app"}, "mysql"},
		{Config{}, "postgres"},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, tt.cfg.dialectName(), tt.want)
	}
}

func TestManagerOptionsErrors(t *testing.T) {
	_, err := (&Config{}).managerOptions(nil)
	if err == nil {
		t.Fatal("expected missing URL error")
	}

	_, err = (&Config{DatabaseURL: "app.db", Timeout: "soon"}).managerOptions(nil)
	testutil.AssertError(t, err, alerr.ErrConfigInvalid)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "error"} {
		_, err := newLogger(nil, level)
		testutil.AssertNoError(t, err)
	}
	_, err := newLogger(nil, "loud")
	testutil.AssertError(t, err, alerr.ErrConfigInvalid)
}
