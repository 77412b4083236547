// Package config loads and validates captionsync configuration.
//
// Configuration lives in a TOML file (default ~/.config/captionsync/config.toml,
// or ./captionsync.toml in the working directory). Every tunable threshold of
// the caption pipeline is a config field with the engine's shipped value as
// default, so a missing file is fully usable. The translator API key may also
// come from the CAPTIONSYNC_TRANSLATOR_API_KEY environment variable.
package config
