// Package google builds authenticated HTTP clients for the Google Sheets and
// Drive APIs.
//
// Credentials come from a JSON file (service account key or authorized user
// file) or, when no file is configured, from Application Default Credentials.
// Only read-only scopes are requested.
package google
