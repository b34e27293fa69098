package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppSettings is one app's sub-document (§6 "Per-app recognised keys").
type AppSettings struct {
	AppClass                 string        `mapstructure:"app_class"`
	Bind                     string        `mapstructure:"bind"`
	BindURL                  string        `mapstructure:"bind_url"`
	Remote                   string        `mapstructure:"remote"`
	RemoteURL                string        `mapstructure:"remote_url"`
	RPCProxy                 string        `mapstructure:"rpc_proxy"`
	RPCClass                 string        `mapstructure:"rpc_class"`
	MockCls                  string        `mapstructure:"mock_cls"`
	BlockingDetectorTimeout  time.Duration `mapstructure:"blocking_detector_timeout"`
	BlockingDetectorRaiseExc bool          `mapstructure:"blocking_detector_raise_exc"`
	UseReloader              bool          `mapstructure:"use_reloader"`
}

// EffectiveBindURL returns BindURL, falling back to a dirtrpc:// URL built
// from Bind when only the short form is given.
func (a AppSettings) EffectiveBindURL() string {
	if a.BindURL != "" {
		return a.BindURL
	}
	if a.Bind != "" {
		return "dirtrpc://" + a.Bind
	}
	return ""
}

// EffectiveRemoteURL is EffectiveBindURL's counterpart for the client side.
func (a AppSettings) EffectiveRemoteURL() string {
	if a.RemoteURL != "" {
		return a.RemoteURL
	}
	if a.Remote != "" {
		return "dirtrpc://" + a.Remote
	}
	return ""
}

// Settings is the top-level document (§6 "Settings document"), loaded via
// viper (grounded in marmos91-dittofs's viper-based pkg/config) rather than
// the teacher's own plain yaml.v3 ServerConfig, so that DIRT_-prefixed
// environment variables can override document keys through viper's
// automatic env binding.
type Settings struct {
	Debug          bool                   `mapstructure:"debug"`
	UseReloader    bool                   `mapstructure:"use_reloader"`
	AllowMockAPI   bool                   `mapstructure:"allow_mock_api"`
	Logging        map[string]any         `mapstructure:"logging"`
	AppPIDFile     string                 `mapstructure:"dirt_app_pidfile"`
	Apps           map[string]AppSettings `mapstructure:"apps"`

	v *viper.Viper
}

// LoadSettings reads the settings document at path (YAML, TOML or JSON;
// viper infers the format from the extension) and overlays DIRT_-prefixed
// environment variables onto its keys. The `NO_MOCK_<APPNAME>=1` override
// (§6) is read from the environment by MockAllowedFor.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("DIRT")
	v.AutomaticEnv()
	v.SetDefault("allow_mock_api", false)
	v.SetDefault("use_reloader", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read settings %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: parse settings %s: %w", path, err)
	}
	s.v = v
	return &s, nil
}

// MockAllowedFor reports whether get_api should even consider a mock for
// appName, honoring both ALLOW_MOCK_API and a per-app NO_MOCK_<APPNAME>
// environment override (§6, §4.8).
func (s *Settings) MockAllowedFor(appName string) bool {
	if !s.AllowMockAPI {
		return false
	}
	if off, _ := strconv.ParseBool(os.Getenv("NO_MOCK_" + strings.ToUpper(appName))); off {
		return false
	}
	if s.v != nil && s.v.GetBool("NO_MOCK_"+strings.ToUpper(appName)) {
		return false
	}
	return true
}

// AppNames returns the declared app names in a stable order.
func (s *Settings) AppNames() []string {
	names := make([]string, 0, len(s.Apps))
	for name := range s.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PIDFilePath substitutes {app_name} into the AppPIDFile template (§6).
func (s *Settings) PIDFilePath(appName string) string {
	return strings.ReplaceAll(s.AppPIDFile, "{app_name}", appName)
}
