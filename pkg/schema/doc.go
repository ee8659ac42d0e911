// Package schema models a relational schema as it evolves across an
// ordered sequence of DDL statements.
//
// A Snapshot starts empty and folds statements in file order: CREATE
// TABLE registers tables, ALTER TABLE mutates them, CREATE INDEX tracks
// indexes, and DROP statements remove objects together with everything
// that references them. One snapshot aggregates an entire migration
// history, and applying the same history always yields the same
// snapshot.
//
// Key features:
//   - Ordered application: later statements see the effects of earlier
//     ones, so renames, drops, and re-creations land the way the
//     database would apply them.
//   - Foreign key resolution: keys may reference tables that do not
//     exist yet. They stay pending until the target appears, and Freeze
//     drops the ones that never resolve, with a warning each.
//   - Permissive input: statements that cannot be recognized or parsed
//     become warnings instead of failures, and the rest of the history
//     still applies.
//   - Normalized identity: table names compare by normalized value, and
//     column and constraint names compare case-insensitively, so quoted
//     and unquoted spellings reference the same objects.
//
// Usage:
//
//	snap := schema.NewSnapshot()
//	for _, m := range migrations {
//		if err := snap.Apply(m.Name, m.SQL); err != nil {
//			return err
//		}
//	}
//	snap.Freeze()
//
//	for _, tbl := range snap.Tables() {
//		fmt.Println(tbl.Name, len(tbl.Columns))
//	}
//	for _, w := range snap.Warnings() {
//		fmt.Println("warning:", w)
//	}
package schema
