// Package corpus stores counterexamples found by fuzz runs.
//
// Each failing row (after shrinking) is saved under the module and test it
// was found for. Later runs of the same test replay the stored rows before
// generating new ones, so a fixed bug that comes back fails immediately.
// Rows are kept in SQLite through the pure Go modernc.org/sqlite driver and
// encoded with value.Encoded, so a database file can move between machines.
package corpus
