// Package logger provides structured logging for prepkit, built on zerolog.
//
// Stages use it to report the recoverable conditions the toolkit treats as
// warnings rather than errors: missing persisted state, zero-variance
// dimensions, and transforms on unfitted stages in lenient mode.
//
//	log := logger.NewDefault("prepkit")
//	log.Warn("standard deviation contains zeros, adding epsilon",
//	    logger.Fields(logger.FieldStage, "normalizer"))
package logger
