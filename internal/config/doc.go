// Package config loads shelf's configuration.
//
// # Configuration Discovery
//
// Load resolves settings in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file at the given path, or ~/.config/shelf/config.toml
//  3. A .env file in the working directory (read with godotenv)
//  4. Real environment variables
//
// A missing config file or .env file is not an error.
//
// # Default Values
//
//   - Config file: ~/.config/shelf/config.toml
//   - API URL: https://ivy-ios-challenge.herokuapp.com
//   - Log file: ~/.local/state/shelf/shelf.log
//   - Log level: info
//   - Auto refresh: disabled
//
// # TOML Format
//
//	api_url = "https://ivy-ios-challenge.herokuapp.com"
//	log_file = "~/.local/state/shelf/shelf.log"
//	log_level = "info"        # debug, info, warn, error
//	refresh_seconds = 0       # 0 disables auto refresh
//
// Every field is optional. Blank strings fall back to defaults and tilde
// expansion is applied to log_file.
//
// # Environment Overrides
//
//	SHELF_API_URL, SHELF_LOG_FILE, SHELF_LOG_LEVEL, SHELF_REFRESH_SECONDS
//
// The same names may appear in .env; a variable set in the process
// environment takes precedence over the .env entry.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors other than os.ErrNotExist
//   - Malformed TOML or .env content
//   - An api_url without a host or with a scheme other than http/https
//   - An unknown log level or a negative refresh interval
//
// Value errors are prefixed "parse config:" like TOML syntax errors.
package config
