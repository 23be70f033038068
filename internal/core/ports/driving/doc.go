// Package driving defines the inbound ports of the core: the service
// interfaces the CLI (and the scheduler) call to update the catalog, manage
// the patient ledger, reconcile against the live API and export BED files.
package driving
