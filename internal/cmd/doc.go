// Package cmd implements the participant command line: inspecting and
// managing the identifier and attributes held in a configured store.
package cmd
