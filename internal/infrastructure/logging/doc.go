// Package logging builds the zap logger shared by every backend component.
//
// Production writes JSON, development writes colored console lines. The level
// comes from LOG_LEVEL and can be changed at runtime with SetLevel. Components
// receive a named child via Component so their lines can be filtered:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging))
//	store := workspace.New().WithLogger(logger.Component("workspace"))
package logging
