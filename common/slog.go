package common

import "log/slog"

// SlogResetLevel sets the default slog level and returns a function
// that restores the previous one. Pairs well with defer.
// Use like:
//
//	func Test123(t *testing.T) {
//		defer common.SlogResetLevel(slog.LevelWarn + 1)()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}
