// Package services implements the core application logic of Briefly:
// the map/reduce summarisation engine, the concurrent batch
// orchestrator, progress tracking, run history and settings.
//
// Services depend only on the domain and on port interfaces; all
// infrastructure (providers, parsers, storage) is injected through
// the driven ports.
package services
