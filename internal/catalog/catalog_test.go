package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/pkg/errors"
)

func setRows(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	require.NoError(t, f.SetSheetName("Sheet1", "Communities"))
	setRows(t, f, "Communities", [][]interface{}{
		{"name", "description", "category", "community_oriented", "competitive", "env_group_size", "notes"},
		{"Board Gamers", "Strategy nights", "games", "0.8", "0.6", "small", "ignored"},
		{"", "no name", "games"},
		{},
		{"Loud Club", "", "", "1.5"},
		{"Quiet Readers", "Books", "", "0.2"},
	})

	_, err := f.NewSheet("events")
	require.NoError(t, err)
	setRows(t, f, "events", [][]interface{}{
		{"Name", "Event_Type", "Date", "Location", "Tags", "intellectual"},
		{"Chess Night", "social", "2030-05-01 19:30", "Library", "chess, games ,", "0.9"},
		{"Hack Day", "workshop", "2030-06-01T09:00:00+02:00", "", "", ""},
		{"Someday", "social", "soon"},
	})
	return f
}

func TestRead(t *testing.T) {
	cat, err := Read(newWorkbook(t))
	require.NoError(t, err)

	require.Len(t, cat.Communities, 2)
	assert.Equal(t, services.CreateCommunityInput{
		Name:                "Board Gamers",
		Description:         "Strategy nights",
		Category:            "games",
		ValueProfile:        models.ValueProfile{"community_oriented": 0.8, "competitive": 0.6},
		EnvironmentSettings: map[string]string{"group_size": "small"},
	}, cat.Communities[0])
	assert.Equal(t, "Quiet Readers", cat.Communities[1].Name)
	assert.Nil(t, cat.Communities[1].EnvironmentSettings)

	require.Len(t, cat.Events, 2)
	chess := cat.Events[0]
	assert.Equal(t, "Chess Night", chess.Name)
	assert.Equal(t, "social", chess.EventType)
	assert.Equal(t, time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC), chess.Date)
	assert.Equal(t, []string{"chess", "games"}, chess.Tags)
	assert.Equal(t, models.ValueProfile{"intellectual": 0.9}, chess.ValueProfile)

	hack := cat.Events[1]
	assert.Equal(t, time.Date(2030, 6, 1, 7, 0, 0, 0, time.UTC), hack.Date)
	assert.Empty(t, hack.ValueProfile)
	assert.Nil(t, hack.Tags)

	var problems []string
	for _, p := range cat.Problems {
		problems = append(problems, fmt.Sprintf("%s:%d", p.Sheet, p.Row))
	}
	assert.Equal(t, []string{"communities:3", "communities:5", "events:4"}, problems)
}

func TestRead_NoKnownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := Read(f)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, newWorkbook(t).SaveAs(good))

	f, err := Open(good)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "events")

	csv := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(csv, []byte("name\n"), 0o600))
	_, err = Open(csv)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = Open(filepath.Join(dir, "missing.xlsx"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	empty := filepath.Join(dir, "empty.xlsx")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = Open(empty)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

type fakeCreator struct {
	communities []string
	events      []string
	failName    string
	creatorIDs  []uint
}

func (f *fakeCreator) CreateCommunity(_ context.Context, creatorID uint, in services.CreateCommunityInput) (*models.Community, error) {
	f.creatorIDs = append(f.creatorIDs, creatorID)
	if in.Name == f.failName {
		return nil, errors.New(errors.ErrCodeValidation, "rejected")
	}
	f.communities = append(f.communities, in.Name)
	return &models.Community{ID: "comm_" + in.Name, Name: in.Name}, nil
}

func (f *fakeCreator) CreateEvent(_ context.Context, creatorID uint, in services.CreateEventInput) (*models.Event, error) {
	f.creatorIDs = append(f.creatorIDs, creatorID)
	f.events = append(f.events, in.Name)
	return &models.Event{ID: "event_" + in.Name, Name: in.Name}, nil
}

func TestImporter_Import(t *testing.T) {
	cat := &Catalog{
		Communities: []services.CreateCommunityInput{{Name: "Makers"}, {Name: "Broken"}, {Name: "Readers"}},
		Events:      []services.CreateEventInput{{Name: "Chess Night"}},
	}
	fake := &fakeCreator{failName: "Broken"}

	sum, err := NewImporter(fake, fake).Import(context.Background(), cat, 7)
	require.NoError(t, err)

	assert.Equal(t, Summary{Communities: 2, Events: 1, Failed: 1}, sum)
	assert.Equal(t, []string{"Makers", "Readers"}, fake.communities)
	assert.Equal(t, []string{"Chess Night"}, fake.events)
	for _, id := range fake.creatorIDs {
		assert.Equal(t, uint(7), id)
	}
}

func TestImporter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCreator{}
	sum, err := NewImporter(fake, fake).Import(ctx, &Catalog{Communities: []services.CreateCommunityInput{{Name: "Makers"}}}, 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, fake.communities)
}
