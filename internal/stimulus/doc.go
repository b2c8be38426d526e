// Package stimulus maps stimulus indices to decoded audio clips.
//
// Indices are 1-based and stable for the lifetime of a battery. By default a
// stimulus lives at stimuli_dir/<pattern> with the index substituted for %d;
// an optional YAML manifest can name each file explicitly instead.
package stimulus
