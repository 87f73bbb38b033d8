// Package config provides user configuration management for essctl.
//
// It handles two YAML files:
//   - The registry, which remembers switches by nickname (host, username,
//     model) and application preferences.
//   - State files, which describe the desired configuration of one switch
//     for "essctl apply".
//
// # Configuration File Location
//
// The registry is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/essctl/config.yaml or $HOME/.config/essctl/config.yaml
//   - macOS: $HOME/.config/essctl/config.yaml
//   - Windows: %LOCALAPPDATA%\essctl\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores switch passwords. They come from the
// command line, the ESSCTL_PASSWORD environment variable, or a prompt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.UpdateSwitchSeen("rack-1", "192.168.0.1")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := registry.Resolve("rack-1") // "192.168.0.1"
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
