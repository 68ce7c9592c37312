// Package cli wires together the Cobra command tree for the unprompted binary.
//
// It defines the root command and all subcommands (run, review, chat, config,
// models, cache, version), binds flags, reads configuration, connects the
// kernel, observer and output surfaces, and returns deterministic exit codes.
package cli
