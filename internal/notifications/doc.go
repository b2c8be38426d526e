// Package notifications alerts the booth operator about session outcomes.
//
// The default implementation publishes to ntfy using the topic configured in
// the [notifications] section and degrades to a no-op when no topic is set.
// Alerts are best effort: callers log delivery failures and carry on, so a
// missing network never affects what is saved for the participant.
package notifications
