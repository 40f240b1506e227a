// Package config loads sheetexport configuration.
//
// Values are resolved in four layers, each overriding the previous one:
// built-in defaults, the TOML config file, SHEETEXPORT_* environment
// variables and finally command line flags that were explicitly set.
//
// A minimal config file:
//
//	[server]
//	addr = ":8080"
//	password = "s3cret"
//
//	[source]
//	type = "google"
//	credentials_file = "/etc/sheetexport/service-account.json"
//
// Unknown keys are rejected so that typos surface at startup.
package config
