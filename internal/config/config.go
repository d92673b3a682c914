package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/macterm/quillkit/internal/handlers"
	"github.com/macterm/quillkit/internal/session"
	"github.com/macterm/quillkit/internal/utils"
	"github.com/spf13/pflag"
)

// EnvPrefix marks environment variables that override config keys.
// QUILLKIT_SESSION_DRY_RUN sets "session.dry_run".
const EnvPrefix = "QUILLKIT_"

var K = koanf.New(".")

// Config holds the application configuration
type Config struct {
	ConfigFile string `koanf:"config.file"`
	DataDir    string `koanf:"data.dir"`
	PrefsDir   string `koanf:"prefs.dir"`

	LogLevel string `koanf:"log.level"`
	LogFile  string `koanf:"log.file"`
	Debug    bool   `koanf:"log.debug"`

	WordMode string `koanf:"word.mode"`

	DryRun   bool     `koanf:"session.dry_run"`
	ScrubEnv []string `koanf:"session.scrub_env"`

	BinEmacs  string `koanf:"bin.emacs"`
	BinSFTP   string `koanf:"bin.sftp"`
	BinSSH    string `koanf:"bin.ssh"`
	BinTelnet string `koanf:"bin.telnet"`
	BinFTP    string `koanf:"bin.ftp"`
	BinMan    string `koanf:"bin.man"`
	BinLsof   string `koanf:"bin.lsof"`

	InitialWorkspace string `koanf:"workspace.initial"`
	OnFinish         string `koanf:"hooks.on_finish"`
}

func DefaultConfig() *Config {
	dataDir, err := utils.GetAppDataDir()
	if err != nil {
		dataDir = "." + utils.AppName
	}

	programs := handlers.DefaultPrograms()

	return &Config{
		ConfigFile: filepath.Join(dataDir, "quillkit.yml"),
		DataDir:    dataDir,
		PrefsDir:   filepath.Join(dataDir, "preferences"),
		LogLevel:   "info",
		WordMode:   "full",
		ScrubEnv:   append([]string(nil), session.DefaultScrubEnv...),
		BinEmacs:   programs.Emacs,
		BinSFTP:    programs.SFTP,
		BinSSH:     programs.SSH,
		BinTelnet:  programs.Telnet,
		BinFTP:     programs.FTP,
		BinMan:     programs.Man,
		BinLsof:    "lsof",
	}
}

// Programs returns the external programs the URL handlers run.
func (c *Config) Programs() handlers.Programs {
	return handlers.Programs{
		Emacs:  c.BinEmacs,
		SFTP:   c.BinSFTP,
		SSH:    c.BinSSH,
		Telnet: c.BinTelnet,
		FTP:    c.BinFTP,
		Man:    c.BinMan,
	}
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"config-file": "config.file",
	"debug":       "log.debug",
	"dry-run":     "session.dry_run",
}

// LoadConfig loads configuration into K and returns it.
func LoadConfig(flagSet *pflag.FlagSet, configFile string) (*Config, error) {
	return Load(K, flagSet, configFile)
}

// Load layers defaults, the config file, QUILLKIT_ environment variables and
// changed command line flags, in increasing precedence. When configFile is
// empty the default config file is read if it exists.
func Load(k *koanf.Koanf, flagSet *pflag.FlagSet, configFile string) (*Config, error) {
	cfg := DefaultConfig()

	path := configFile
	if path == "" {
		if _, err := os.Stat(cfg.ConfigFile); err == nil {
			path = cfg.ConfigFile
		}
	}

	if path != "" {
		parser, err := parserForFile(path)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}

		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	// Load from CLI args (highest precedence)
	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithFlag(flagSet, ".", k, flagKey), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if path != "" {
		cfg.ConfigFile = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error

	switch c.WordMode {
	case "full", "simple":
	default:
		errs = append(errs, fmt.Errorf("word.mode must be full or simple, got %q", c.WordMode))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data.dir must not be empty"))
	}
	if c.PrefsDir == "" {
		errs = append(errs, errors.New("prefs.dir must not be empty"))
	}

	return errors.Join(errs...)
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func flagKey(f *pflag.Flag) (string, interface{}) {
	key, ok := flagKeys[f.Name]
	if !ok || !f.Changed {
		return "", nil
	}
	return key, f.Value.String()
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}
