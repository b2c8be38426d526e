// Package services defines shared utilities consumed by the session runner,
// the trial controller, and the external audio/stimulus integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, trial positions, and component
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (missing stimulus, broken player, bad configuration) so a failed trial
//     row can carry a short failure kind.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error classification, observability) stays uniform across a session.
package services
