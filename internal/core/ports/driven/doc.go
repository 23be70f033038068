// Package driven defines the outbound ports of the core: storage for
// snapshots, panels and patient associations, the external catalog client,
// the gene-to-coordinate lookup, configuration and scheduler state.
// Adapters implement these interfaces.
package driven
