package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/quill/internal/metadata"
	"github.com/starford/quill/internal/workspace"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

var noteExtRe = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	Auth      AuthConfig        `yaml:"auth"`
	Watch     WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// WorkspaceConfig lists the workspaces that may be queried and how their
// notes are recognised. The first root is the default workspace.
type WorkspaceConfig struct {
	Roots      []string `yaml:"roots"`
	CreatedKey string   `yaml:"created_key"`
	UpdatedKey string   `yaml:"updated_key"`
	ConfigDir  string   `yaml:"config_dir"`
	NoteExt    string   `yaml:"note_ext"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Roots, validation.Each(validation.Required)),
		validation.Field(&c.CreatedKey, validation.Required),
		validation.Field(&c.UpdatedKey, validation.Required),
		validation.Field(&c.ConfigDir, validation.Required),
		validation.Field(&c.NoteExt, validation.Required, validation.Match(noteExtRe)),
	)
}

// Layout returns the workspace layout described by the configuration.
func (c *WorkspaceConfig) Layout() workspace.Layout {
	return workspace.Layout{ConfigDir: c.ConfigDir, NoteExt: c.NoteExt}
}

// Keys returns the default frontmatter keys.
func (c *WorkspaceConfig) Keys() metadata.Keys {
	return metadata.Keys{Created: c.CreatedKey, Updated: c.UpdatedKey}
}

// WatchConfig controls the file watcher that feeds the SSE stream.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
	// GroupsThrottle is the minimum gap between two groups.updated events.
	GroupsThrottle time.Duration `yaml:"groups_throttle"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.GroupsThrottle, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	keys := metadata.DefaultKeys()
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Workspace: WorkspaceConfig{
			CreatedKey: keys.Created,
			UpdatedKey: keys.Updated,
			ConfigDir:  workspace.DefaultConfigDir,
			NoteExt:    workspace.DefaultNoteExt,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Watch: WatchConfig{
			Enabled:        true,
			GroupsThrottle: 2 * time.Second,
		},
	}
}
