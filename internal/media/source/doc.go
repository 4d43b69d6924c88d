// Package source adapts ffprobe inspection results into the engine's
// input model. It is the only bridge between the probing collaborator
// and the pure planning core.
package source
