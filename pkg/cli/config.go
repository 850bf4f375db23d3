package cli

import (
	"fmt"

	"web-cloner-go/pkg/config"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "# %s\n", path)
	fmt.Fprint(a.stdout, string(data))
	return nil
}

// SetConfig sets a configuration value and saves the file
// Format: section.key=value (e.g., "service.base_url=http://localhost:8000")
func (a *App) SetConfig(setStr string) error {
	if err := a.cfg.Set(setStr); err != nil {
		return err
	}
	if err := config.Save(a.cfg); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Configuration updated successfully")
	return nil
}
