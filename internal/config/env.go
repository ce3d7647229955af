package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// getenv returns the variable or def when it is unset or empty.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envInt(key string, def int) int {
    n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
    if err != nil {
        return def
    }
    return n
}

func envDur(key string, def time.Duration) time.Duration {
    d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
    if err != nil {
        return def
    }
    return d
}

// envList splits a comma separated variable, upper-casing each entry.
func envList(key, def string) map[string]bool {
    out := map[string]bool{}
    for _, p := range strings.Split(getenv(key, def), ",") {
        if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
            out[p] = true
        }
    }
    return out
}
