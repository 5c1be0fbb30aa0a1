package domain

// RenamePlan is the output of one planner pass over a scanned batch.
// Entries keep the scan order.
type RenamePlan struct {
	Entries  []PlannedEntry
	Warnings []string
}

// PlanCounts aggregates entry statuses for display.
type PlanCounts struct {
	Pending int
	Success int
	Error   int
	Skipped int
}

func (p *RenamePlan) Counts() PlanCounts {
	var c PlanCounts
	for _, entry := range p.Entries {
		switch entry.Status {
		case StatusPending:
			c.Pending++
		case StatusSuccess:
			c.Success++
		case StatusError:
			c.Error++
		case StatusSkipped:
			c.Skipped++
		}
	}
	return c
}

// Changed counts entries whose target name differs from the current name.
func (p *RenamePlan) Changed() int {
	changed := 0
	for _, entry := range p.Entries {
		if entry.TargetName() != entry.Path {
			changed++
		}
	}
	return changed
}
