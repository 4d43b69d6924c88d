// Package rules defines the declarative rule document that drives audio
// track transformation, and validates it into a strict in-memory model.
//
// A rule document is an ordered JSON list of rules. Each rule pairs a match
// specification (codec selector, channel/bitrate conditions, languages,
// dispositions, title pattern) with an ordered list of operations (copy or
// transcode). An empty operation list drops the matched track.
//
// Validation is all-or-nothing: the first structural problem aborts the
// whole document with an error naming the offending rule, operation, and
// field. After Parse succeeds the model is never re-inspected; downstream
// code works only with the typed RuleSet.
//
// # Entry Points
//
// Parse: validate a raw document into a RuleSet.
// RuleSet.Canonical: stable JSON rendering used for the idempotency token.
package rules
