// Package domain contains the core entities and pure logic of the panel
// snapshot and reconciliation engine: snapshots, panel records, patient
// associations, gene-set diffing and coordinate merging. It has no
// dependencies on storage or transport.
package domain
