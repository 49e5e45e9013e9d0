package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/taxiload/taxiload/pkg/taxiload"
)

// TripReporter prints the trip loader's progress lines:
//
//	Table yellow_taxi_data created
//	Inserted first chunk: 100000
//	Inserted chunk: 100000
//	Done ingesting 1369765 rows to yellow_taxi_data
//
// In ModeTerminal every appended chunk line is preceded by a progress bar.
type TripReporter struct {
	out  io.Writer
	mode Mode
	bar  progress.Model
	mu   sync.Mutex
}

func NewTripReporter(out io.Writer, mode Mode) *TripReporter {
	return &TripReporter{
		out:  out,
		mode: mode,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (r *TripReporter) SliceWritten(s taxiload.SliceReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Index == 0 {
		fmt.Fprintf(r.out, "Table %s created\n", s.Table)
		fmt.Fprintf(r.out, "Inserted first chunk: %d\n", s.Rows)
		return
	}

	if r.mode == ModeTerminal {
		fmt.Fprintf(r.out, "%s %s\n", r.bar.ViewAs(fraction(s.Written, s.Total)),
			MutedStyle.Render(fmt.Sprintf("%d/%d rows", s.Written, s.Total)))
	}
	fmt.Fprintf(r.out, "Inserted chunk: %d\n", s.Rows)
}

func (r *TripReporter) Finished(res taxiload.LoadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("Done ingesting %d rows to %s", res.Rows, res.Table)
	if r.mode == ModeTerminal {
		line = SuccessStyle.Render(line)
	}
	fmt.Fprintln(r.out, line)
}

// ZoneReporter prints the single line of the zone loader.
type ZoneReporter struct {
	out io.Writer
}

func NewZoneReporter(out io.Writer) *ZoneReporter {
	return &ZoneReporter{out: out}
}

func (r *ZoneReporter) SliceWritten(taxiload.SliceReport) {}

func (r *ZoneReporter) Finished(res taxiload.LoadResult) {
	fmt.Fprintf(r.out, "Inserted %d rows to '%s'\n", res.Rows, res.Table)
}

func fraction(done, total int64) float64 {
	if total <= 0 {
		return 1
	}
	return float64(done) / float64(total)
}

var (
	_ taxiload.ProgressReporter = (*TripReporter)(nil)
	_ taxiload.ProgressReporter = (*ZoneReporter)(nil)
)
