package env

import "os"

// Get reads an environment variable, falling back to def when the
// variable is unset or blank.
func Get(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}
