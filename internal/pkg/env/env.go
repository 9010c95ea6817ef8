package env

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

func RequireString(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		panic(fmt.Sprintf("environment variable %q is required", key))
	}

	return val
}

func String(key, def string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	return val
}

// Strings reads a comma separated list. Empty items are dropped.
func Strings(key string, def []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	if len(out) == 0 {
		return def
	}

	return out
}

func Int(key string, def int) int {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := strconv.Atoi(strings.TrimSpace(valStr))
	if err != nil {
		return def
	}

	return val
}

func Int64(key string, def int64) int64 {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := strconv.ParseInt(strings.TrimSpace(valStr), 10, 64)
	if err != nil {
		return def
	}

	return val
}

func Bool(key string, def bool) bool {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	switch strings.ToLower(strings.TrimSpace(valStr)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}

	return def
}

func Float64(key string, def float64) float64 {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
	if err != nil {
		return def
	}

	return val
}

func Duration(key string, def time.Duration) time.Duration {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return def
	}

	return val
}

func URL(key string, def *url.URL) *url.URL {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	parsed, err := url.Parse(val)
	if err != nil {
		return def
	}

	return parsed
}
