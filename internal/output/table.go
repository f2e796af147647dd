// Package output renders Jobs, worker registry entries and metrics as
// human-readable tables, per §6 ("human-readable listing/metrics
// formatting... thin collaborators over the core's operations").
//
// The teacher (gqs) is a library with no CLI surface; this formatting is
// grounded on the olekukonko/tablewriter + fatih/color combination used
// throughout Gizzahub-gzh-cli's cmd/ tree (e.g. cmd/dev-env/gcp_project.go).
package output

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/supervisor"
)

var stateColor = map[job.Status]*color.Color{
	job.Pending:    color.New(color.FgYellow),
	job.Processing: color.New(color.FgCyan),
	job.Completed:  color.New(color.FgGreen),
	job.Failed:     color.New(color.FgRed),
	job.Dead:       color.New(color.FgRed, color.Bold),
}

func colorState(s job.Status) string {
	c, ok := stateColor[s]
	if !ok {
		return s.String()
	}
	return c.Sprint(s.String())
}

// WriteJobList renders jobs as a table of id/state/priority/attempts/run_at.
func WriteJobList(w io.Writer, jobs []*job.Job) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "State", "Priority", "Attempts", "Run At", "Command")
	for _, jb := range jobs {
		_ = table.Append([]string{
			jb.Id.String(),
			colorState(jb.State),
			strconv.Itoa(int(jb.Priority)),
			strconv.Itoa(int(jb.Attempts)),
			jb.RunAt.Local().Format("2006-01-02 15:04:05"),
			jb.Command,
		})
	}
	_ = table.Render()
}

// WriteJobDetail renders the full record for a single job, including
// captured output.
func WriteJobDetail(w io.Writer, jb *job.Job) {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	rows := [][2]string{
		{"id", jb.Id.String()},
		{"command", jb.Command},
		{"state", colorState(jb.State)},
		{"priority", strconv.Itoa(int(jb.Priority))},
		{"attempts", strconv.Itoa(int(jb.Attempts))},
		{"run_at", jb.RunAt.Local().Format("2006-01-02 15:04:05")},
		{"created_at", jb.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"updated_at", jb.UpdatedAt.Local().Format("2006-01-02 15:04:05")},
		{"worker_id", jb.WorkerID},
		{"exit_code", exitCodeString(jb.ExitCode)},
		{"error", jb.Error},
		{"stdout", jb.Stdout},
		{"stderr", jb.Stderr},
	}
	for _, r := range rows {
		_ = table.Append([]string{r[0], r[1]})
	}
	_ = table.Render()
}

func exitCodeString(ec *int) string {
	if ec == nil {
		return ""
	}
	return strconv.Itoa(*ec)
}

// WriteMetrics renders the output of Store.Metrics.
func WriteMetrics(w io.Writer, m *store.Metrics) {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	rows := [][2]string{
		{"total", strconv.FormatInt(m.Total, 10)},
		{"pending", strconv.FormatInt(m.ByState[job.Pending], 10)},
		{"processing", strconv.FormatInt(m.ByState[job.Processing], 10)},
		{"completed", strconv.FormatInt(m.ByState[job.Completed], 10)},
		{"dead", strconv.FormatInt(m.ByState[job.Dead], 10)},
		{"success_rate", strconv.FormatFloat(m.SuccessRate*100, 'f', 1, 64) + "%"},
		{"avg_attempts", strconv.FormatFloat(m.AverageAttempts, 'f', 2, 64)},
		{"last_24h_completed_or_dead", strconv.FormatInt(m.Last24h, 10)},
	}
	for _, r := range rows {
		_ = table.Append([]string{r[0], r[1]})
	}
	_ = table.Render()
}

// WriteWorkerStatus renders registry entries annotated with liveness.
func WriteWorkerStatus(w io.Writer, statuses []supervisor.WorkerStatus) {
	table := tablewriter.NewWriter(w)
	table.Header("Worker ID", "PID", "Started At", "Alive")
	for _, st := range statuses {
		alive := color.New(color.FgRed).Sprint("no")
		if st.Alive {
			alive = color.New(color.FgGreen).Sprint("yes")
		}
		_ = table.Append([]string{
			st.WorkerID,
			strconv.Itoa(st.OSPid),
			st.StartedAt.Local().Format("2006-01-02 15:04:05"),
			alive,
		})
	}
	_ = table.Render()
}
