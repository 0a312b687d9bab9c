//go:build !windows

package media

// injectKey is nil here: keys go through the command keyCommand builds.
var injectKey func(key string) error
