package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/andareed/markwrite/segment"
	"github.com/andareed/markwrite/session"
)

// --- Wire format ---

const planVersion = 1

// planDTO describes the segmentation to apply to a recording.
type planDTO struct {
	Version  int          `json:"version"`
	Trials   [][2]float64 `json:"trials,omitempty"`
	Segments []segmentDTO `json:"segments"`
}

type segmentDTO struct {
	Name  string  `json:"name"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	// Trial nests a top level segment under Trial<n>, counted from 1.
	Trial int `json:"trial,omitempty"`

	// Trim overrides the recording's trim setting for this segment.
	Trim     *bool        `json:"trim,omitempty"`
	Locked   bool         `json:"locked,omitempty"`
	Children []segmentDTO `json:"children,omitempty"`
}

// --- Public API ---

// LoadPlan reads a plan file.
func LoadPlan(path string) (planDTO, error) {
	var dto planDTO
	data, err := os.ReadFile(path)
	if err != nil {
		return dto, err
	}
	if err := json.Unmarshal(data, &dto); err != nil {
		return dto, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if dto.Version != planVersion {
		return dto, fmt.Errorf("plan version %d not supported (want %d)", dto.Version, planVersion)
	}
	return dto, nil
}

// ApplyPlan creates the plan's trials and then its segments, depth first.
// Segments that cannot be created are skipped together with their children
// and reported in the returned error.
func ApplyPlan(p *session.Project, dto planDTO) error {
	var errs []error
	trials, err := p.CreateTrials(dto.Trials)
	if err != nil {
		errs = append(errs, err)
	}
	trialIDs := make(map[int]segment.ID, len(trials))
	for _, tr := range trials {
		var n int
		if _, err := fmt.Sscanf(tr.Name(), "Trial%d", &n); err == nil {
			trialIDs[n] = tr.ID()
		}
	}

	for _, sd := range dto.Segments {
		parent := segment.RootID
		if sd.Trial != 0 {
			id, ok := trialIDs[sd.Trial]
			if !ok {
				errs = append(errs, fmt.Errorf("segment %q: no trial %d", sd.Name, sd.Trial))
				continue
			}
			parent = id
		}
		errs = append(errs, applySegment(p, sd, parent))
	}
	return errors.Join(errs...)
}

func applySegment(p *session.Project, sd segmentDTO, parent segment.ID) error {
	trim := p.Tree.TrimZeroPressure()
	if sd.Trim != nil {
		trim = *sd.Trim
	}
	p.Selection.SetRegion(sd.Start, sd.End)
	s, err := p.CreateSegment(sd.Name, parent, trim)
	if err != nil {
		return fmt.Errorf("segment %q: %w", sd.Name, err)
	}
	var errs []error
	for _, c := range sd.Children {
		errs = append(errs, applySegment(p, c, s.ID()))
	}
	if sd.Locked {
		errs = append(errs, p.Tree.SetLocked(s.ID(), true))
	}
	return errors.Join(errs...)
}

// SavePlan writes the project's current tree as a plan. Segment times are
// the resolved sample times, so applying the plan untrimmed rebuilds the
// same ranges.
func SavePlan(p *session.Project, path string) error {
	dto := planFromProject(p)
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func planFromProject(p *session.Project) planDTO {
	noTrim := false
	var convert func(id segment.ID) segmentDTO
	convert = func(id segment.ID) segmentDTO {
		s, _ := p.Tree.Get(id)
		d := segmentDTO{
			Name:   s.Name(),
			Start:  s.Start(),
			End:    s.End(),
			Trim:   &noTrim,
			Locked: s.Locked(),
		}
		for _, c := range s.Children() {
			d.Children = append(d.Children, convert(c))
		}
		return d
	}

	dto := planDTO{Version: planVersion, Segments: []segmentDTO{}}
	for _, id := range p.Tree.Root().Children() {
		dto.Segments = append(dto.Segments, convert(id))
	}
	return dto
}
