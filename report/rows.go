// Package report turns a segmented project into tabular rows and writes
// them to TSV files, a SQLite database, the terminal or the clipboard.
package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/andareed/markwrite/pendata"
	"github.com/andareed/markwrite/segment"
	"github.com/andareed/markwrite/session"
)

// SegmentColumns is the header of the segment level report.
var SegmentColumns = []string{
	"file", "seg_id", "category", "level", "segpath", "name",
	"start_time", "end_time", "duration", "start_index", "end_index",
	"sample_count", "subsegment_count", "prev_penpress_time", "next_penpress_time",
}

// SampleColumns is the header of the sample level report.
var SampleColumns = []string{
	"time", "x", "y", "pressure", "xy_velocity", "xy_acceleration",
	"segment_id", "segment_count",
}

// Progress is called after each written row. It may be nil.
type Progress func(done, total int)

func (p Progress) report(done, total int) {
	if p != nil {
		p(done, total)
	}
}

// SegmentRecord is one row of the segment level report.
type SegmentRecord struct {
	File            string
	ID              segment.ID
	Category        string
	Level           int
	Path            []string
	Name            string
	Start           float64
	End             float64
	Duration        float64
	StartIndex      int
	EndIndex        int
	SampleCount     int
	SubsegmentCount int

	// nil when there is no pen press before or after the segment
	PrevPenPress *float64
	NextPenPress *float64
}

// SegmentPath joins Path the way the report prints it.
func (r SegmentRecord) SegmentPath() string { return strings.Join(r.Path, "/") }

// Strings formats the record in SegmentColumns order.
func (r SegmentRecord) Strings() []string {
	return []string{
		r.File,
		strconv.Itoa(int(r.ID)),
		r.Category,
		strconv.Itoa(r.Level),
		r.SegmentPath(),
		r.Name,
		formatFloat(r.Start),
		formatFloat(r.End),
		formatFloat(r.Duration),
		strconv.Itoa(r.StartIndex),
		strconv.Itoa(r.EndIndex),
		strconv.Itoa(r.SampleCount),
		strconv.Itoa(r.SubsegmentCount),
		formatOptional(r.PrevPenPress),
		formatOptional(r.NextPenPress),
	}
}

// SegmentRecords lists every segment of p level by level, each level in
// creation order.
func SegmentRecords(p *session.Project) []SegmentRecord {
	tree := p.Tree
	pressed := p.Series.PressedRuns()
	leveled := tree.Leveled()

	out := make([]SegmentRecord, 0, tree.TotalCount())
	for level := 1; level <= len(leveled); level++ {
		for _, s := range leveled[level] {
			r := s.Range()
			path, _ := tree.Path(s.ID())
			rec := SegmentRecord{
				File:            p.Name,
				ID:              s.ID(),
				Category:        tree.Name(),
				Level:           level,
				Path:            path,
				Name:            s.Name(),
				Start:           s.Start(),
				End:             s.End(),
				Duration:        s.Duration(),
				StartIndex:      r.Min,
				EndIndex:        r.Max,
				SampleCount:     s.PointCount(),
				SubsegmentCount: len(s.Children()),
			}
			if i, ok := pendata.PrevRunStart(pressed, r.Min); ok {
				t := p.Series.Time(i)
				rec.PrevPenPress = &t
			}
			if i, ok := pendata.NextRunStart(pressed, r.Max); ok {
				t := p.Series.Time(i)
				rec.NextPenPress = &t
			}
			out = append(out, rec)
		}
	}
	return out
}

// SegmentRows formats SegmentRecords for the text sinks.
func SegmentRows(p *session.Project) [][]string {
	recs := SegmentRecords(p)
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Strings()
	}
	return rows
}

// SampleRows lists one row per sample with its coverage count.
func SampleRows(p *session.Project) [][]string {
	s := p.Series
	rows := make([][]string, s.Len())
	for i := range rows {
		smp := s.At(i)
		rows[i] = []string{
			formatFloat(smp.Time),
			formatFloat(smp.X),
			formatFloat(smp.Y),
			formatFloat(smp.Pressure),
			formatFloat(smp.XYVelocity),
			formatFloat(smp.XYAcceleration),
			strconv.Itoa(smp.SegmentID),
			strconv.Itoa(s.Coverage(i)),
		}
	}
	return rows
}

// formatFloat prints v rounded to microsecond precision without trailing
// zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
