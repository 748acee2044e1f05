// Package process manages process groups for browser subprocesses.
package process
