// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp clip job IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent remediation classes (fix-your-input vs
//     fix-your-environment).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
