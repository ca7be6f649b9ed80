package utils

import "os"

const (
	ProdEnv = "prod"
	DevEnv  = "dev"
)

func IsProdEnv() bool {
	return os.Getenv("DEBATIFY_ENV") == ProdEnv
}

// GetEnvOrDefault reads an environment variable with a fallback for local
// development.
func GetEnvOrDefault(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ContainsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
