// Package config loads and saves the viewer's settings.
//
// Settings come from three layers, later ones winning: built-in defaults,
// the YAML file, and SLIDECAST_* environment variables. Command-line flags
// are applied on top by the caller.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/slidecast/config.yaml or $HOME/.config/slidecast/config.yaml
//   - macOS: $HOME/.config/slidecast/config.yaml
//   - Windows: %LOCALAPPDATA%\slidecast\config.yaml
//
// A missing file is not an error; the defaults apply.
//
// # Environment
//
// Keys map to variables by upper-casing and replacing "-" and "." with "_":
//
//	SLIDECAST_SERVER=http://studio.local:8080
//	SLIDECAST_REFRESH_INTERVAL=10
//	SLIDECAST_RETRY_CAP=1m
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := catalog.NewClient(cfg.Server)
//	client.SetTimeout(cfg.RequestTimeout)
//
// Save writes atomically through a temporary file.
package config
