package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/matching"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/values"
	"github.com/mroshb/value_matcher/pkg/errors"
)

// memStore is an in-memory stand-in for the gorm repositories.
type memStore struct {
	mu          sync.Mutex
	users       map[uint]*models.User
	responses   map[uint][]models.GameResponse
	communities []*models.Community
	events      []*models.Event
	members     map[string]map[uint]bool
	attendees   map[string]map[uint]bool
	actions     []models.UserAction
	saves       int
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uint]*models.User),
		responses: make(map[uint][]models.GameResponse),
		members:   make(map[string]map[uint]bool),
		attendees: make(map[string]map[uint]bool),
	}
}

func (m *memStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	copied := *u
	return &copied, nil
}

func (m *memStore) SaveGameProfile(_ context.Context, userID uint, responses []models.GameResponse, profile models.ValueProfile, prefs models.EnvironmentPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	m.saves++
	m.responses[userID] = responses
	u.ValueProfile = profile
	u.EnvironmentPreferences = &prefs
	u.GameCompleted = true
	return nil
}

func (m *memStore) GetGameResponses(_ context.Context, userID uint) ([]models.GameResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GameResponse(nil), m.responses[userID]...), nil
}

func (m *memStore) ListUserActions(_ context.Context, userID uint, limit int) ([]models.UserAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserAction
	for i := len(m.actions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.actions[i].UserID == userID {
			out = append(out, m.actions[i])
		}
	}
	return out, nil
}

func (m *memStore) RecordAction(_ context.Context, action *models.UserAction) error {
	if !models.ValidAction(action.Action) {
		return errors.New(errors.ErrCodeValidation, "unknown action")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, *action)
	return nil
}

func (m *memStore) GetSkippedIDs(_ context.Context, userID uint, kind string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var ids []string
	for _, a := range m.actions {
		if a.UserID == userID && a.CandidateKind == kind && a.Action == models.ActionSkip && !seen[a.CandidateID] {
			seen[a.CandidateID] = true
			ids = append(ids, a.CandidateID)
		}
	}
	return ids, nil
}

func (m *memStore) CreateCommunity(_ context.Context, c *models.Community) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.MemberCount = 1
	c.Members = []uint{c.CreatorID}
	m.communities = append(m.communities, c)
	m.members[c.ID] = map[uint]bool{c.CreatorID: true}
	return nil
}

func (m *memStore) ListCommunities(context.Context) ([]models.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Community, 0, len(m.communities))
	for _, c := range m.communities {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) community(id string) (*models.Community, error) {
	for _, c := range m.communities {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeCandidateNotFound, "community not found")
}

func (m *memStore) GetCommunityByID(_ context.Context, id string) (*models.Community, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.community(id)
	if err != nil {
		return nil, err
	}
	copied := *c
	return &copied, nil
}

func (m *memStore) AddMember(_ context.Context, communityID string, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.community(communityID)
	if err != nil {
		return false, err
	}
	if m.members[communityID][userID] {
		return false, nil
	}
	m.members[communityID][userID] = true
	c.MemberCount++
	return true, nil
}

func (m *memStore) RemoveMember(_ context.Context, communityID string, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.members[communityID][userID] {
		return false, nil
	}
	delete(m.members[communityID], userID)
	if c, err := m.community(communityID); err == nil && c.MemberCount > 0 {
		c.MemberCount--
	}
	return true, nil
}

func (m *memStore) GetJoinedIDs(_ context.Context, userID uint) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, users := range m.members {
		if users[userID] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) GetUserCommunities(ctx context.Context, userID uint) ([]models.Community, error) {
	ids, _ := m.GetJoinedIDs(ctx, userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Community
	for _, id := range ids {
		c, _ := m.community(id)
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) CreateEvent(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.AttendeeCount = 1
	e.Attendees = []uint{e.CreatorID}
	m.events = append(m.events, e)
	m.attendees[e.ID] = map[uint]bool{e.CreatorID: true}
	return nil
}

func (m *memStore) ListEvents(context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memStore) ListUpcomingEvents(_ context.Context, from time.Time, _ int) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Event
	for _, e := range m.events {
		if !e.Date.Before(from) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) event(id string) (*models.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.New(errors.ErrCodeCandidateNotFound, "event not found")
}

func (m *memStore) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.event(id)
	if err != nil {
		return nil, err
	}
	copied := *e
	return &copied, nil
}

func (m *memStore) AddAttendee(_ context.Context, eventID string, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.event(eventID)
	if err != nil {
		return false, err
	}
	if m.attendees[eventID][userID] {
		return false, nil
	}
	m.attendees[eventID][userID] = true
	e.AttendeeCount++
	return true, nil
}

func (m *memStore) RemoveAttendee(_ context.Context, eventID string, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.attendees[eventID][userID] {
		return false, nil
	}
	delete(m.attendees[eventID], userID)
	if e, err := m.event(eventID); err == nil && e.AttendeeCount > 0 {
		e.AttendeeCount--
	}
	return true, nil
}

func (m *memStore) GetAttendingIDs(_ context.Context, userID uint) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, users := range m.attendees {
		if users[userID] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memStore) addUser(id uint, profile models.ValueProfile) {
	m.users[id] = &models.User{ID: id, FullName: "user", ValueProfile: profile}
}

func (m *memStore) actionsFor(userID uint) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.actions {
		if a.UserID == userID {
			out = append(out, a.CandidateKind+":"+a.Action)
		}
	}
	return out
}

func newBuilder() *values.Builder {
	return values.NewBuilder(values.DefaultLexicon(), values.DefaultBoard(), config.DefaultThresholds())
}

func firstWords(b *values.Builder) []values.Selection {
	var out []values.Selection
	for _, r := range b.Board().Rounds() {
		out = append(out, values.Selection{Round: r.Number, Word: strings.ToUpper(r.Words[0])})
	}
	return out
}

func TestProfileService_SubmitGame(t *testing.T) {
	store := newMemStore()
	store.addUser(1, nil)
	builder := newBuilder()
	svc := NewProfileService(store, store, builder)

	assert.Len(t, svc.Tiles(), 8)

	result, err := svc.SubmitGame(context.Background(), 1, firstWords(builder))
	require.NoError(t, err)

	user, err := svc.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, user.GameCompleted)
	assert.Equal(t, result.Profile, user.ValueProfile)
	require.NotNil(t, user.EnvironmentPreferences)
	assert.Equal(t, result.Preferences, *user.EnvironmentPreferences)

	responses := store.responses[1]
	require.Len(t, responses, 8)
	assert.Equal(t, 1, responses[0].RoundNumber)
	assert.Equal(t, "adventure", responses[0].SelectedWord)
}

func TestProfileService_Selections(t *testing.T) {
	store := newMemStore()
	store.addUser(1, nil)
	builder := newBuilder()
	svc := NewProfileService(store, store, builder)

	before, err := svc.Selections(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, before)
	assert.Empty(t, before)

	_, err = svc.SubmitGame(context.Background(), 1, firstWords(builder))
	require.NoError(t, err)

	after, err := svc.Selections(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, after, 8)
	assert.Equal(t, values.Selection{Round: 1, Word: "adventure"}, after[0])
	assert.Equal(t, 8, after[7].Round)
}

func TestProfileService_SubmitGameMalformed(t *testing.T) {
	store := newMemStore()
	store.addUser(1, models.ValueProfile{"structured": 0.5})
	builder := newBuilder()
	svc := NewProfileService(store, store, builder)

	selections := firstWords(builder)[:7]
	_, err := svc.SubmitGame(context.Background(), 1, selections)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedSubmission))

	assert.Equal(t, 0, store.saves)
	assert.Equal(t, models.ValueProfile{"structured": 0.5}, store.users[1].ValueProfile)
}

func TestProfileService_SubmitGameUnknownUser(t *testing.T) {
	store := newMemStore()
	builder := newBuilder()
	svc := NewProfileService(store, store, builder)

	_, err := svc.SubmitGame(context.Background(), 99, firstWords(builder))
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestCommunityService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewCommunityService(store, store)

	c, err := svc.CreateCommunity(context.Background(), 5, CreateCommunityInput{
		Name:                "  <b>Board Gamers</b> ",
		Description:         "Strategy <script>x()</script>nights",
		Category:            "games",
		ValueProfile:        models.ValueProfile{"competitive": 0.8},
		EnvironmentSettings: map[string]string{"size": "<i>small</i>", "": "ignored"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.ID, "comm_"))
	assert.Len(t, c.ID, len("comm_")+12)
	assert.Equal(t, "Board Gamers", c.Name)
	assert.Equal(t, "Strategy nights", c.Description)
	assert.Equal(t, map[string]string{"size": "small"}, c.EnvironmentSettings)
	assert.Equal(t, 1, c.MemberCount)
	assert.Equal(t, []uint{5}, c.Members)
}

func TestCommunityService_CreateValidation(t *testing.T) {
	svc := NewCommunityService(newMemStore(), newMemStore())

	tests := []struct {
		name string
		in   CreateCommunityInput
	}{
		{name: "Blank name", in: CreateCommunityInput{Name: " <br> "}},
		{name: "Bad image", in: CreateCommunityInput{Name: "x", Image: "javascript:alert(1)"}},
		{name: "Profile out of range", in: CreateCommunityInput{Name: "x", ValueProfile: models.ValueProfile{"tradition": 1.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCommunity(context.Background(), 1, tt.in)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
		})
	}
}

func TestCommunityService_Membership(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCommunityService(store, store)

	c, err := svc.CreateCommunity(ctx, 1, CreateCommunityInput{Name: "Hikers"})
	require.NoError(t, err)

	added, err := svc.Join(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Join(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, added)

	got, err := svc.GetCommunity(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MemberCount)

	mine, err := svc.MyCommunities(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, c.ID, mine[0].ID)

	removed, err := svc.Leave(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Leave(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err = svc.GetCommunity(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)

	require.NoError(t, svc.Skip(ctx, 2, c.ID))
	assert.Equal(t, []string{"community:join", "community:leave", "community:skip"}, store.actionsFor(2))

	_, err = svc.Join(ctx, 2, "comm_missing")
	assert.True(t, errors.HasCode(err, errors.ErrCodeCandidateNotFound))
	assert.True(t, errors.HasCode(svc.Skip(ctx, 2, "comm_missing"), errors.ErrCodeCandidateNotFound))
}

func TestEventService_CreateAndAttend(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewEventService(store, store)

	_, err := svc.CreateEvent(ctx, 1, CreateEventInput{Name: "Talk", EventType: "meetup"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), "date is required")

	_, err = svc.CreateEvent(ctx, 1, CreateEventInput{Name: "Talk", Date: time.Now().Add(time.Hour)})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), "type is required")

	e, err := svc.CreateEvent(ctx, 1, CreateEventInput{
		Name:      "Talk",
		EventType: "meetup",
		Date:      time.Now().Add(time.Hour),
		Tags:      []string{"Tech", "tech", " "},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(e.ID, "event_"))
	assert.Equal(t, []string{"tech"}, e.Tags)
	assert.Equal(t, 1, e.AttendeeCount)

	added, err := svc.Attend(ctx, 2, e.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = svc.Attend(ctx, 2, e.ID)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := svc.Cancel(ctx, 2, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.Cancel(ctx, 3, e.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := svc.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttendeeCount)

	require.NoError(t, svc.Skip(ctx, 3, e.ID))
	assert.Equal(t, []string{"event:attend", "event:cancel"}, store.actionsFor(2))
	assert.Equal(t, []string{"event:skip"}, store.actionsFor(3))
}

func newMatchService(store *memStore, strategies MatchStrategies) *MatchService {
	ranker := matching.NewRanker(nil, config.DefaultThresholds())
	return NewMatchService(store, store, store, store, ranker, strategies)
}

func TestMatchService_ProfileNotReady(t *testing.T) {
	store := newMemStore()
	store.addUser(1, nil)
	svc := newMatchService(store, MatchStrategies{Community: config.StrategyHeuristic, Event: config.StrategyHeuristic})

	_, err := svc.CommunityMatches(context.Background(), 1)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileNotReady))

	_, err = svc.EventMatches(context.Background(), 1)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileNotReady))

	// An empty but non-nil profile is still not a finished game.
	store.addUser(2, models.ValueProfile{})
	_, err = svc.CommunityMatches(context.Background(), 2)
	assert.True(t, errors.HasCode(err, errors.ErrCodeProfileNotReady))
}

func TestMatchService_CommunityMatches(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, models.ValueProfile{"competitive": 1, "intellectual": 0.5})
	communities := NewCommunityService(store, store)

	mk := func(name string, profile models.ValueProfile) string {
		c, err := communities.CreateCommunity(ctx, 9, CreateCommunityInput{Name: name, ValueProfile: profile})
		require.NoError(t, err)
		return c.ID
	}
	perfect := mk("Perfect", models.ValueProfile{"competitive": 1, "intellectual": 0.5})
	near := mk("Near", models.ValueProfile{"competitive": 0.9})
	joined := mk("Joined", models.ValueProfile{"competitive": 1})
	blank := mk("Blank", models.ValueProfile{})

	_, err := communities.Join(ctx, 1, joined)
	require.NoError(t, err)
	require.NoError(t, communities.Skip(ctx, 1, perfect))

	svc := newMatchService(store, MatchStrategies{Community: config.StrategyHeuristic, Event: config.StrategySemantic})
	matches, err := svc.CommunityMatches(ctx, 1)
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, near, matches[0].Community.ID)
	assert.Equal(t, 90.0, matches[0].Score)
	assert.Equal(t, perfect, matches[1].Community.ID)
	assert.Equal(t, 80.0, matches[1].Score)
	assert.Equal(t, blank, matches[2].Community.ID)
	assert.Equal(t, 50.0, matches[2].Score)
	for _, m := range matches {
		assert.NotEmpty(t, m.Why)
	}
}

func TestMatchService_EventMatches(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, models.ValueProfile{"community_oriented": 0.75})
	events := NewEventService(store, store)

	now := time.Now().UTC()
	mk := func(name string, date time.Time) string {
		e, err := events.CreateEvent(ctx, 9, CreateEventInput{
			Name:         name,
			EventType:    "social",
			Date:         date,
			ValueProfile: models.ValueProfile{"community_oriented": 0.75},
		})
		require.NoError(t, err)
		return e.ID
	}
	mk("Yesterday", now.Add(-24*time.Hour))
	upcoming := mk("Tomorrow", now.Add(24*time.Hour))
	attending := mk("Attending", now.Add(48*time.Hour))
	_, err := events.Attend(ctx, 1, attending)
	require.NoError(t, err)

	svc := newMatchService(store, MatchStrategies{Community: config.StrategyHeuristic, Event: config.StrategyHeuristic})
	svc.now = func() time.Time { return now }

	matches, err := svc.EventMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, upcoming, matches[0].Event.ID)
	assert.Equal(t, 100.0, matches[0].Score)
	assert.Equal(t, "This social event aligns with your interests and values. Great opportunity to connect with like-minded people.", matches[0].Why)
}

func TestMatchService_SemanticWithoutProvider(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addUser(1, models.ValueProfile{"community_oriented": 0.75})
	_, err := NewEventService(store, store).CreateEvent(ctx, 9, CreateEventInput{
		Name:      "Tomorrow",
		EventType: "social",
		Date:      time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	svc := newMatchService(store, MatchStrategies{Community: config.StrategyHeuristic, Event: config.StrategySemantic})
	matches, err := svc.EventMatches(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
