// Package catalog loads communities and events from an xlsx workbook.
//
// The workbook has a "communities" sheet, an "events" sheet, or both. Row 1 of
// each sheet is a header; columns are matched by header name, so their order is
// free. Headers naming a value dimension fill the candidate's value profile and
// headers starting with "env_" fill community environment settings.
package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/security"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/internal/values"
	"github.com/mroshb/value_matcher/pkg/errors"
)

const (
	CommunitiesSheet = "communities"
	EventsSheet      = "events"

	MaxFileSize int64 = 10 << 20

	envPrefix = "env_"
)

var allowedTypes = []string{".xlsx"}

// Date layouts accepted in the events sheet, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// RowError describes a row that could not be read.
type RowError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Reason)
}

// Catalog is the parsed content of a workbook.
type Catalog struct {
	Communities []services.CreateCommunityInput
	Events      []services.CreateEventInput
	Problems    []RowError
}

// Open checks the file's type and size before handing it to excelize.
func Open(path string) (*excelize.File, error) {
	if !security.ValidateFileType(path, allowedTypes) {
		return nil, errors.New(errors.ErrCodeValidation, "catalog must be an .xlsx file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "failed to stat catalog")
	}
	if !security.ValidateFileSize(info.Size(), MaxFileSize) {
		return nil, errors.New(errors.ErrCodeValidation, "catalog file is empty or too large")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to open catalog")
	}
	return f, nil
}

// Read parses every known sheet. Bad rows land in Problems; only a workbook
// with neither sheet is an error.
func Read(f *excelize.File) (*Catalog, error) {
	cat := &Catalog{}
	found := false

	for _, name := range f.GetSheetList() {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case CommunitiesSheet:
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read communities sheet")
			}
			found = true
			readCommunities(cat, rows)
		case EventsSheet:
			rows, err := f.GetRows(name)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read events sheet")
			}
			found = true
			readEvents(cat, rows)
		}
	}

	if !found {
		return nil, errors.New(errors.ErrCodeValidation, "workbook has no communities or events sheet")
	}
	return cat, nil
}

// header maps lowercase column names to indexes.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// cell returns the trimmed value under column name; GetRows drops trailing blanks.
func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) profile(row []string) (models.ValueProfile, error) {
	profile := models.ValueProfile{}
	for name := range h {
		if !values.Dimension(name).Valid() {
			continue
		}
		raw := h.cell(row, name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("%s must be a number between 0 and 1, got %q", name, raw)
		}
		profile[name] = v
	}
	return profile, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCommunities(cat *Catalog, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	h := newHeader(rows[0])

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		profile, err := h.profile(row)
		if err != nil {
			cat.Problems = append(cat.Problems, RowError{Sheet: CommunitiesSheet, Row: rowNum, Reason: err.Error()})
			continue
		}

		in := services.CreateCommunityInput{
			Name:         h.cell(row, "name"),
			Description:  h.cell(row, "description"),
			Image:        h.cell(row, "image"),
			Category:     h.cell(row, "category"),
			ValueProfile: profile,
		}
		for name := range h {
			key, ok := strings.CutPrefix(name, envPrefix)
			if !ok || key == "" {
				continue
			}
			if v := h.cell(row, name); v != "" {
				if in.EnvironmentSettings == nil {
					in.EnvironmentSettings = make(map[string]string)
				}
				in.EnvironmentSettings[key] = v
			}
		}

		if in.Name == "" {
			cat.Problems = append(cat.Problems, RowError{Sheet: CommunitiesSheet, Row: rowNum, Reason: "name is required"})
			continue
		}
		cat.Communities = append(cat.Communities, in)
	}
}

func readEvents(cat *Catalog, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	h := newHeader(rows[0])

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		profile, err := h.profile(row)
		if err != nil {
			cat.Problems = append(cat.Problems, RowError{Sheet: EventsSheet, Row: rowNum, Reason: err.Error()})
			continue
		}

		date, err := parseDate(h.cell(row, "date"))
		if err != nil {
			cat.Problems = append(cat.Problems, RowError{Sheet: EventsSheet, Row: rowNum, Reason: err.Error()})
			continue
		}

		in := services.CreateEventInput{
			Name:         h.cell(row, "name"),
			Description:  h.cell(row, "description"),
			EventType:    h.cell(row, "event_type"),
			Date:         date,
			Location:     h.cell(row, "location"),
			Image:        h.cell(row, "image"),
			ValueProfile: profile,
			Tags:         splitTags(h.cell(row, "tags")),
		}
		if in.Name == "" {
			cat.Problems = append(cat.Problems, RowError{Sheet: EventsSheet, Row: rowNum, Reason: "name is required"})
			continue
		}
		cat.Events = append(cat.Events, in)
	}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
