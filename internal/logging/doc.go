// Package logging provides the taxiload.Logger implementations used by the CLI.
//
// Diagnostics go to stderr so that stdout carries only load progress.
package logging
