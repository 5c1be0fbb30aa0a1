package presentation

import (
	"fmt"
	"io"

	"picren/internal/domain"
)

// Printer renders plans and results for pipes and non-TTY runs.
type Printer struct {
	Writer  io.Writer
	Verbose bool
}

func (p Printer) PrintPlan(plan *domain.RenamePlan, dryRun bool) {
	fmt.Fprintln(p.Writer, "Renaming:")
	fmt.Fprintln(p.Writer)

	for _, line := range p.planLines(plan.Entries) {
		fmt.Fprintln(p.Writer, line)
	}

	conflicts := conflictEntries(plan.Entries)
	if len(conflicts) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Conflicts:")
		for _, entry := range conflicts {
			fmt.Fprintf(p.Writer, "%s: %s\n", entry.Path, entry.ErrorMessage)
		}
	}

	fmt.Fprintln(p.Writer)
	counts := plan.Counts()
	if dryRun {
		fmt.Fprintf(p.Writer, "Would rename %d of %d files, %d conflicts. No files were touched.\n",
			plan.Changed(), len(plan.Entries), counts.Error)
	} else {
		fmt.Fprintf(p.Writer, "Planned %d files, %d conflicts.\n", len(plan.Entries), counts.Error)
	}

	if p.Verbose && len(plan.Warnings) > 0 {
		fmt.Fprintln(p.Writer)
		fmt.Fprintln(p.Writer, "Warnings:")
		for _, warning := range plan.Warnings {
			fmt.Fprintln(p.Writer, "- "+warning)
		}
	}
}

func (p Printer) PrintResults(plan *domain.RenamePlan) {
	fmt.Fprintln(p.Writer, "Results:")
	fmt.Fprintln(p.Writer)

	for _, entry := range plan.Entries {
		switch entry.Status {
		case domain.StatusSuccess:
			fmt.Fprintf(p.Writer, "ok      %s -> %s\n", entry.Path, entry.TargetName())
		case domain.StatusError:
			fmt.Fprintf(p.Writer, "error   %s: %s\n", entry.Path, entry.ErrorMessage)
		case domain.StatusSkipped:
			fmt.Fprintf(p.Writer, "skipped %s\n", entry.Path)
		default:
			fmt.Fprintf(p.Writer, "pending %s\n", entry.Path)
		}
	}

	counts := plan.Counts()
	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Renamed %d files, %d errors, %d skipped.\n",
		counts.Success, counts.Error, counts.Skipped)
}

// planLines truncates long batches to head and tail unless verbose.
func (p Printer) planLines(entries []domain.PlannedEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, formatPlanLine(entry))
	}

	if p.Verbose || len(lines) <= 8 {
		return lines
	}
	head := lines[:4]
	tail := lines[len(lines)-4:]
	return append(append(head, fmt.Sprintf("... %d more ...", len(lines)-8)), tail...)
}

func formatPlanLine(entry domain.PlannedEntry) string {
	if entry.Status == domain.StatusError {
		return fmt.Sprintf("Conflict %s -> %s", entry.Path, entry.TargetName())
	}
	return fmt.Sprintf("Rename %s -> %s", entry.Path, entry.TargetName())
}

func conflictEntries(entries []domain.PlannedEntry) []domain.PlannedEntry {
	var conflicts []domain.PlannedEntry
	for _, entry := range entries {
		if entry.Status == domain.StatusError {
			conflicts = append(conflicts, entry)
		}
	}
	return conflicts
}
