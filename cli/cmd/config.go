package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is savewatch.yaml in the working directory. Every field has a
// usable default so the file is optional; command-line flags override it.
type Config struct {
	SaveDir             string `yaml:"save_dir"`
	Prefix              string `yaml:"prefix"`
	Threads             int    `yaml:"threads"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	SkipDuplicates      bool   `yaml:"skip_duplicates"`
	Watch               bool   `yaml:"watch"`
}

const configFilename = "savewatch.yaml"

func LoadConfig() (Config, error) {
	result := Config{
		SaveDir:             defaultSaveDir(),
		Threads:             defaultThreads(),
		PollIntervalSeconds: 10,
		Watch:               true,
	}

	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return applyFlags(result), nil
	}
	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, err
	}
	return applyFlags(result), nil
}

func applyFlags(c Config) Config {
	if directory != "" {
		c.SaveDir = directory
	}
	if prefix != "" {
		c.Prefix = prefix
	}
	if threads > 0 {
		c.Threads = threads
	}
	return c
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// defaultSaveDir is where the game keeps save archives on each platform.
func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	switch runtime.GOOS {
	case "windows", "darwin":
		return filepath.Join(home, "Documents", "Paradox Interactive", "Stellaris", "save games")
	default:
		return filepath.Join(home, ".local", "share", "Paradox Interactive", "Stellaris", "save games")
	}
}

func defaultThreads() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		return 1
	}
	return n
}
