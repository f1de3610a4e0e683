package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
)

// FormatJobList renders jobs as a table inside a box.
func FormatJobList(jobs []*domain.Job, now time.Time) string {
	if len(jobs) == 0 {
		return Dim("No jobs found.") + "\n"
	}
	headers := []string{"JOB", "TITLE", "CUSTOMER", "QTY", "STATUS", "DUE"}
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			Bold(j.DisplayID()),
			Truncate(j.Title, 32),
			Truncate(j.Customer, 20),
			fmt.Sprintf("%d", j.Quantity),
			JobStatusPill(j.Status),
			DueStyled(j.DueDate, now),
		})
	}
	return RenderBox("Jobs", RenderTable(headers, rows)) + "\n"
}

// FormatJobDetail renders a single job sheet.
func FormatJobDetail(j *domain.Job, now time.Time) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-10s", label)), value)
	}
	field("Number", Bold(j.DisplayID()))
	field("Title", j.Title)
	if j.Customer != "" {
		field("Customer", j.Customer)
	}
	field("Quantity", fmt.Sprintf("%d", j.Quantity))
	field("Status", JobStatusPill(j.Status))
	field("Due", DueStyled(j.DueDate, now))
	if j.AssignedOperatorID != nil {
		field("Operator", *j.AssignedOperatorID)
	}
	if j.MachineID != nil {
		field("Machine", *j.MachineID)
	}
	if j.CompletedAt != nil {
		field("Completed", j.CompletedAt.Local().Format("Jan 2 15:04"))
	}
	field("ID", Dim(j.ID))
	return RenderBox("Job "+j.DisplayID(), strings.TrimRight(b.String(), "\n")) + "\n"
}
