// Package engine turns a validated rule set and a description of a media
// file's streams into an ordered command plan.
//
// The engine walks audio tracks in container order, applies the first rule
// whose match specification accepts the track, and executes that rule's
// operations in sequence. Each operation maps the same input track to a
// fresh output index; a matched rule with no operations drops the track,
// and tracks no rule matches are copied verbatim. Unless every track is a
// verbatim copy, the plan also passes video through unchanged and keeps
// whichever remaining streams have an identifiable encoding.
//
// Everything here is pure: the engine performs no I/O and never mutates
// its inputs. Probing and encoding live in internal/media/ffprobe and
// internal/ffmpeg.
//
// # Entry Points
//
// Process: gatekeeping (nothing to do, already processed) plus synthesis.
// Synthesize: the raw per-track planning pass.
// ExpandTitle: title template rendering.
// EncodeDispositions: flag-string encoding for disposition overrides.
// Watermark/AlreadyProcessed: rule-set idempotency marker.
package engine
