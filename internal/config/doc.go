// Package config holds the two configuration layers: user preferences kept
// in Fyne's preference store and the TOML application config with
// environment overrides.
package config
