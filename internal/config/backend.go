package config

// ConfigBackend abstracts platform-specific config storage.
// macOS uses UserDefaults (via `defaults` CLI), Linux uses an XDG
// config file. Values are stored as strings and parsed per key.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	SetString(key, val string) error
	Delete(key string) error
}
