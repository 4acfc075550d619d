// Package logger builds the zap logger shared by every component and the
// gin request logging middleware used by the browser bridge.
package logger
