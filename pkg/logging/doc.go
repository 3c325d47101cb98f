// Package logging provides structured logging configuration for the gateway.
//
// This package wraps log/slog so every component logs the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("gateway listening", "addr", ":8000")
//	logger.Warn("upstream failed", "upstream", "p4diff", "error", err)
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via a setter.
// If no logger is provided they fall back to logging.Nop(). In stdio MCP mode
// the protocol owns stdout, so loggers must write to stderr or a file.
package logging
