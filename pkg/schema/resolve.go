package schema

// addForeignKey attaches a foreign key to its owning table, merging it
// into an equivalent existing key when one is present. Two keys are
// equivalent when they share local columns and target table; reference
// columns are deliberately excluded so a bare column hint folds into the
// declared constraint it shadows.
func (s *Snapshot) addForeignKey(t *Table, fk *ForeignKey, file, stmt string) {
	for _, existing := range t.ForeignKeys {
		if existing.RefTable == fk.RefTable && equalFoldSlices(existing.Columns, fk.Columns) {
			if len(existing.RefColumns) == 0 {
				existing.RefColumns = fk.RefColumns
			}
			if fk.Name != "" {
				existing.Name = fk.Name
			}
			return
		}
	}

	fk.State = FKPending
	if fk.Name == "" {
		fk.Name = t.constraintName(autoName(t.Name, fk.Columns, "_fkey"))
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)

	if !s.resolveForeignKey(fk) {
		s.pending = append(s.pending, &pendingFK{table: t, fk: fk, file: file, stmt: stmt})
	}
}

// resolveForeignKey marks the key resolved if its target table exists.
// Reference columns left empty are not defaulted here: the target's
// primary key may still change, so defaulting waits until Freeze.
func (s *Snapshot) resolveForeignKey(fk *ForeignKey) bool {
	if s.tables[fk.RefTable] == nil {
		return false
	}

	fk.State = FKResolved
	return true
}

// resolvePending retries every queued foreign key. Entries whose owning
// table or key has since been dropped are discarded; the rest stay queued
// until their target appears or Freeze gives up on them.
func (s *Snapshot) resolvePending() {
	var remaining []*pendingFK
	for _, p := range s.pending {
		if s.tables[p.table.Name] != p.table || !p.table.hasForeignKey(p.fk) {
			continue
		}
		if !s.resolveForeignKey(p.fk) {
			remaining = append(remaining, p)
		}
	}
	s.pending = remaining
}
