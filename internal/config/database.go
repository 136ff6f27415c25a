package config

import "github.com/spf13/viper"

// DefaultDatabasePath is where the ledger lives unless database.path says otherwise.
const DefaultDatabasePath = "~/.local/share/spendsmart/spendsmart.db"

// DatabasePath returns the expanded SQLite path. The special value
// ":memory:" is passed through untouched.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	if path == ":memory:" {
		return path
	}
	return ExpandPath(path)
}
