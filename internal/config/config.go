package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time provides duration types for the sweep cadence
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for the
// sweep cadence, and an id for the platform's revenue wallet owner.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    DBUser         string        // database username
    DBPass         string        // database password (optional)
    DBHost         string        // database host address
    DBPort         string        // database port number
    DBName         string        // database name
    JWTSecret      string        // secret used to verify JWTs
    PlatformUserID uint64        // user whose wallet collects fees and premiums
    TicketFee      string        // flat live-auction ticket fee, decimal string
    SweepInterval  time.Duration // cadence of the auction close pass
    SoonInterval   time.Duration // cadence of the ending-soon scan
    SoonWindow     time.Duration // how far ahead the ending-soon scan looks
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),                          // environment (dev/test/prod)
        Port:           must("APP_PORT"),                         // port to bind the HTTP server
        DBUser:         must("DB_USER"),                          // database user
        DBPass:         os.Getenv("DB_PASS"),                     // database password (empty allowed)
        DBHost:         must("DB_HOST"),                          // database host
        DBPort:         must("DB_PORT"),                          // database port
        DBName:         must("DB_NAME"),                          // database name
        JWTSecret:      must("JWT_SECRET"),                       // secret used for verifying JWTs
        PlatformUserID: mustUint("PLATFORM_USER_ID"),             // owner of the platform revenue wallet
        TicketFee:      getenvDefault("TICKET_FEE", "5"),         // live-auction ticket price
        SweepInterval:  minutes("SWEEP_INTERVAL_MIN", 1),         // close pass every minute
        SoonInterval:   minutes("ENDING_SOON_INTERVAL_MIN", 5),   // ending-soon scan every five minutes
        SoonWindow:     minutes("ENDING_SOON_WINDOW_MIN", 15),    // alert fifteen minutes out
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustUint is like must() but parses the value as an unsigned identifier.
func mustUint(key string) uint64 {
    s := must(key)
    n, err := strconv.ParseUint(s, 10, 64)
    if err != nil {
        log.Fatalf("invalid id for %s: %q", key, s)
    }
    return n
}

// getenvDefault returns the variable's value or the default when unset.
func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// envBool reads an optional boolean variable.  Anything other than the
// listed spellings keeps the default.
func envBool(key string, def bool) bool {
    switch os.Getenv(key) {
    case "1", "true", "TRUE", "True", "yes", "on":
        return true
    case "0", "false", "FALSE", "False", "no", "off":
        return false
    }
    return def
}

// envInt reads an optional integer variable.
func envInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return def
}

// envDur reads an optional duration variable in Go syntax ("30s", "5m").
func envDur(key string, def time.Duration) time.Duration {
    if v := os.Getenv(key); v != "" {
        if d, err := time.ParseDuration(v); err == nil {
            return d
        }
    }
    return def
}

// minutes reads an optional integer variable expressed in minutes and
// returns it as a duration, falling back to the given default.
func minutes(key string, def int) time.Duration {
    if s := os.Getenv(key); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 {
            return time.Duration(n) * time.Minute
        }
        log.Fatalf("invalid minutes for %s: %q", key, s)
    }
    return time.Duration(def) * time.Minute
}
