// Package logger builds configured *slog.Logger instances.
//
// Production gets JSON output at info level for log aggregation; development
// gets text output at debug level. Services receive their logger through
// constructor options and default to a discard logger, so library code never
// logs unless the application asked for it.
package logger
