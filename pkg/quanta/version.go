// Package quanta holds module-wide metadata.
package quanta

// Version is the current release version.
const Version = "0.1.0"
