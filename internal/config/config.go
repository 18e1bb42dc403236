// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Navigator() NavigatorConfig
	Agent() AgentConfig
	Vision() VisionConfig
	Capture() CaptureConfig
	Input() InputConfig

	// Navigator Setters
	SetNavigatorLanguage(string)
	SetNavigatorStartScreen(string)

	// Capture Setters
	SetCaptureBackend(string)
	SetCaptureFramePath(string)

	// Input Setters
	SetInputBackend(string)
	SetHumanoidEnabled(bool)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	NavigatorCfg NavigatorConfig `mapstructure:"navigator" yaml:"navigator"`
	AgentCfg     AgentConfig     `mapstructure:"agent" yaml:"agent"`
	VisionCfg    VisionConfig    `mapstructure:"vision" yaml:"vision"`
	CaptureCfg   CaptureConfig   `mapstructure:"capture" yaml:"capture"`
	InputCfg     InputConfig     `mapstructure:"input" yaml:"input"`
}

var _ Interface = (*Config)(nil)

// -- Interface Method Implementations (Getters) --

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Navigator() NavigatorConfig { return c.NavigatorCfg }
func (c *Config) Agent() AgentConfig         { return c.AgentCfg }
func (c *Config) Vision() VisionConfig       { return c.VisionCfg }
func (c *Config) Capture() CaptureConfig     { return c.CaptureCfg }
func (c *Config) Input() InputConfig         { return c.InputCfg }

// -- Interface Method Implementations (Setters) --

func (c *Config) SetNavigatorLanguage(lang string) { c.NavigatorCfg.Language = lang }
func (c *Config) SetNavigatorStartScreen(s string) { c.NavigatorCfg.StartScreen = s }
func (c *Config) SetCaptureBackend(b string)       { c.CaptureCfg.Backend = b }
func (c *Config) SetCaptureFramePath(p string)     { c.CaptureCfg.FramePath = p }
func (c *Config) SetInputBackend(b string)         { c.InputCfg.Backend = b }
func (c *Config) SetHumanoidEnabled(enabled bool)  { c.InputCfg.Humanoid.Enabled = enabled }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NavigatorConfig configures the screen state machine.
type NavigatorConfig struct {
	// Language is fixed for the whole session.
	Language         string `mapstructure:"language" yaml:"language"`
	StartScreen      string `mapstructure:"start_screen" yaml:"start_screen"`
	RememberGameMode bool   `mapstructure:"remember_game_mode" yaml:"remember_game_mode"`
	FallbackScreen   string `mapstructure:"fallback_screen" yaml:"fallback_screen"`
	FallbackLobby    string `mapstructure:"fallback_lobby" yaml:"fallback_lobby"`
}

// AgentConfig bounds the capture/match/click polling loop.
type AgentConfig struct {
	PollInterval       time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxAttempts        int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	MaxCaptureFailures int           `mapstructure:"max_capture_failures" yaml:"max_capture_failures"`
	ActionTimeout      time.Duration `mapstructure:"action_timeout" yaml:"action_timeout"`
}

// VisionConfig configures template loading and matching.
type VisionConfig struct {
	AssetsDir string `mapstructure:"assets_dir" yaml:"assets_dir"`
	// Threshold is the minimum similarity (0..1) for a template hit.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	// Scale is the downscale factor for the coarse search pass (0..1].
	Scale float64 `mapstructure:"scale" yaml:"scale"`
}

// CaptureConfig selects and configures the frame source.
type CaptureConfig struct {
	// Backend is "cdp" or "file".
	Backend     string        `mapstructure:"backend" yaml:"backend"`
	DebuggerURL string        `mapstructure:"debugger_url" yaml:"debugger_url"`
	FramePath   string        `mapstructure:"frame_path" yaml:"frame_path"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// InputConfig selects and configures the mouse injector.
type InputConfig struct {
	// Backend is "cdp" or "log".
	Backend  string         `mapstructure:"backend" yaml:"backend"`
	Humanoid HumanoidConfig `mapstructure:"humanoid" yaml:"humanoid"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "rumble")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Navigator --
	v.SetDefault("navigator.language", "en")
	v.SetDefault("navigator.start_screen", "main")
	v.SetDefault("navigator.remember_game_mode", true)
	v.SetDefault("navigator.fallback_screen", "main")
	v.SetDefault("navigator.fallback_lobby", "normal_lobby")

	// -- Agent --
	v.SetDefault("agent.poll_interval", "60ms")
	v.SetDefault("agent.max_attempts", 150)
	v.SetDefault("agent.max_capture_failures", 5)
	v.SetDefault("agent.action_timeout", "15s")

	// -- Vision --
	v.SetDefault("vision.assets_dir", "~/.rumble/assets")
	v.SetDefault("vision.threshold", 0.9)
	v.SetDefault("vision.scale", 0.5)

	// -- Capture --
	v.SetDefault("capture.backend", "cdp")
	v.SetDefault("capture.debugger_url", "ws://127.0.0.1:8888")
	v.SetDefault("capture.frame_path", "")
	v.SetDefault("capture.timeout", "5s")

	// -- Input --
	v.SetDefault("input.backend", "cdp")
	setHumanoidDefaults(v)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	v.SetEnvPrefix("RUMBLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short alias for the most commonly overridden setting.
	_ = v.BindEnv("capture.debugger_url", "RUMBLE_CAPTURE_DEBUGGER_URL", "RUMBLE_DEBUGGER_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ExpandPaths resolves a leading "~" in every filesystem path setting.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{&c.VisionCfg.AssetsDir, &c.CaptureCfg.FramePath, &c.LoggerCfg.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.NavigatorCfg.Validate(); err != nil {
		return fmt.Errorf("navigator configuration invalid: %w", err)
	}
	if err := c.AgentCfg.Validate(); err != nil {
		return fmt.Errorf("agent configuration invalid: %w", err)
	}
	if err := c.VisionCfg.Validate(); err != nil {
		return fmt.Errorf("vision configuration invalid: %w", err)
	}
	if err := c.CaptureCfg.Validate(); err != nil {
		return fmt.Errorf("capture configuration invalid: %w", err)
	}
	if err := c.InputCfg.Validate(); err != nil {
		return fmt.Errorf("input configuration invalid: %w", err)
	}
	return nil
}

// Validate checks that every screen and language name resolves.
func (n *NavigatorConfig) Validate() error {
	_, err := n.Options()
	return err
}

// Options converts the configuration into navigator options.
func (n NavigatorConfig) Options() (navigation.Options, error) {
	opts := navigation.DefaultOptions()
	opts.RememberGameMode = n.RememberGameMode

	var err error
	if opts.Language, err = navigation.ParseLanguage(n.Language); err != nil {
		return opts, fmt.Errorf("language: %w", err)
	}
	if opts.Start, err = navigation.ParseScreenID(n.StartScreen); err != nil {
		return opts, fmt.Errorf("start_screen: %w", err)
	}
	if opts.FallbackScreen, err = navigation.ParseScreenID(n.FallbackScreen); err != nil {
		return opts, fmt.Errorf("fallback_screen: %w", err)
	}
	if opts.FallbackLobby, err = navigation.ParseScreenID(n.FallbackLobby); err != nil {
		return opts, fmt.Errorf("fallback_lobby: %w", err)
	}
	if !opts.FallbackLobby.IsLobby() {
		return opts, fmt.Errorf("fallback_lobby must name a lobby screen, got %q", n.FallbackLobby)
	}
	return opts, nil
}

// Validate checks the polling bounds.
func (a *AgentConfig) Validate() error {
	if a.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be a positive duration")
	}
	if a.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be a positive integer")
	}
	if a.MaxCaptureFailures <= 0 {
		return fmt.Errorf("max_capture_failures must be a positive integer")
	}
	if a.ActionTimeout < 0 {
		return fmt.Errorf("action_timeout must not be negative")
	}
	return nil
}

// Validate checks the matcher settings.
func (v *VisionConfig) Validate() error {
	if v.AssetsDir == "" {
		return fmt.Errorf("assets_dir is required")
	}
	if v.Threshold <= 0.0 || v.Threshold > 1.0 {
		return fmt.Errorf("threshold must be in (0.0, 1.0]")
	}
	if v.Scale <= 0.0 || v.Scale > 1.0 {
		return fmt.Errorf("scale must be in (0.0, 1.0]")
	}
	return nil
}

// Validate checks that the selected capture backend has what it needs.
func (c *CaptureConfig) Validate() error {
	switch c.Backend {
	case "cdp":
		if c.DebuggerURL == "" {
			return fmt.Errorf("debugger_url is required for the cdp backend")
		}
	case "file":
		if c.FramePath == "" {
			return fmt.Errorf("frame_path is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want cdp or file)", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	return nil
}

// Validate checks the input backend and humanoid parameters.
func (i *InputConfig) Validate() error {
	switch i.Backend {
	case "cdp", "log":
	default:
		return fmt.Errorf("unknown backend %q (want cdp or log)", i.Backend)
	}
	if err := i.Humanoid.Validate(); err != nil {
		return fmt.Errorf("humanoid: %w", err)
	}
	return nil
}
