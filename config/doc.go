// Package config loads the cfaMutation.* options of spec.md §6 from a
// YAML file, overlaid with a .env file for the handful of values an
// operator typically wants to vary per invocation (the CEX checker binary
// and configuration paths, the log level) without editing the checked-in
// YAML, following
// the pattern of github.com/smilemakc/mbflow's internal/config and
// cmd/agsh's godotenv bootstrap.
package config
