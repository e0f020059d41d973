package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

type MockUserRepository struct {
	users  map[int64]*models.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("User", email)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.Role = role
	return nil
}

type MockCollectionRepository struct {
	collections map[int64]*models.Collection
	grants      map[string]string
	nextID      int64
}

func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{
		collections: make(map[int64]*models.Collection),
		grants:      make(map[string]string),
		nextID:      1,
	}
}

func grantKey(role string, collectionID *int64) string {
	if collectionID == nil {
		return role + "/" + constants.RootCollectionID
	}
	return role + "/" + strconv.FormatInt(*collectionID, 10)
}

func (m *MockCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	id := m.nextID
	m.nextID++
	collection.ID = &id
	copied := *collection
	m.collections[id] = &copied
	return nil
}

func (m *MockCollectionRepository) GetByID(ctx context.Context, id int64) (*models.Collection, error) {
	collection, ok := m.collections[id]
	if !ok {
		return nil, utils.NewNotFoundError("Collection", id)
	}
	copied := *collection
	return &copied, nil
}

func (m *MockCollectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	collections := make([]*models.Collection, 0, len(m.collections))
	for _, c := range m.collections {
		copied := *c
		collections = append(collections, &copied)
	}
	return collections, nil
}

func (m *MockCollectionRepository) GetAccessLevel(ctx context.Context, role string, collectionID *int64) (string, error) {
	level, ok := m.grants[grantKey(role, collectionID)]
	if !ok {
		return "", utils.NewNotFoundError("CollectionPermission", role)
	}
	return level, nil
}

func (m *MockCollectionRepository) SetAccessLevel(ctx context.Context, perm *models.CollectionPermission) error {
	m.grants[grantKey(perm.Role, perm.CollectionID)] = perm.AccessLevel
	return nil
}

type MockCardRepository struct {
	cards  map[int64]*models.Card
	nextID int64
}

func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{cards: make(map[int64]*models.Card), nextID: 1}
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) error {
	card.ID = m.nextID
	m.nextID++
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *MockCardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return nil, utils.NewNotFoundError("Card", id)
	}
	copied := *card
	return &copied, nil
}

func (m *MockCardRepository) Update(ctx context.Context, card *models.Card) error {
	if _, ok := m.cards[card.ID]; !ok {
		return utils.NewNotFoundError("Card", card.ID)
	}
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *MockCardRepository) ListByCollection(ctx context.Context, collectionID *int64, archived bool) ([]*models.Card, error) {
	var cards []*models.Card
	for _, c := range m.cards {
		if sameCollection(c.CollectionID, collectionID) && c.Archived == archived {
			copied := *c
			cards = append(cards, &copied)
		}
	}
	return cards, nil
}

type MockModerationReviewRepository struct {
	reviews []models.ModerationReview
	nextID  int64
}

func NewMockModerationReviewRepository() *MockModerationReviewRepository {
	return &MockModerationReviewRepository{nextID: 1}
}

func (m *MockModerationReviewRepository) Create(ctx context.Context, review *models.ModerationReview) error {
	for i := range m.reviews {
		if m.reviews[i].ModeratedItemID == review.ModeratedItemID {
			m.reviews[i].MostRecent = false
		}
	}
	review.ID = m.nextID
	m.nextID++
	review.MostRecent = true
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *MockModerationReviewRepository) ListByCard(ctx context.Context, cardID int64) ([]models.ModerationReview, error) {
	reviews := []models.ModerationReview{}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].ModeratedItemID == cardID {
			reviews = append(reviews, m.reviews[i])
		}
	}
	return reviews, nil
}

type MockDataTableRepository struct {
	tables map[int64]*models.DataTable
	gets   int
}

func NewMockDataTableRepository() *MockDataTableRepository {
	return &MockDataTableRepository{tables: make(map[int64]*models.DataTable)}
}

func (m *MockDataTableRepository) GetByID(ctx context.Context, id int64) (*models.DataTable, error) {
	m.gets++
	table, ok := m.tables[id]
	if !ok {
		return nil, utils.NewNotFoundError("Table", id)
	}
	copied := *table
	return &copied, nil
}

func (m *MockDataTableRepository) Save(ctx context.Context, table *models.DataTable) error {
	copied := *table
	m.tables[table.ID] = &copied
	return nil
}

type MockTimelineRepository struct {
	timelines map[int64]*models.Timeline
	nextID    int64
}

func NewMockTimelineRepository() *MockTimelineRepository {
	return &MockTimelineRepository{timelines: make(map[int64]*models.Timeline), nextID: 1}
}

func (m *MockTimelineRepository) Create(ctx context.Context, timeline *models.Timeline) error {
	timeline.ID = m.nextID
	m.nextID++
	copied := *timeline
	m.timelines[timeline.ID] = &copied
	return nil
}

func (m *MockTimelineRepository) GetByID(ctx context.Context, id int64) (*models.Timeline, error) {
	timeline, ok := m.timelines[id]
	if !ok {
		return nil, utils.NewNotFoundError("Timeline", id)
	}
	copied := *timeline
	return &copied, nil
}

func (m *MockTimelineRepository) Update(ctx context.Context, timeline *models.Timeline) error {
	if _, ok := m.timelines[timeline.ID]; !ok {
		return utils.NewNotFoundError("Timeline", timeline.ID)
	}
	copied := *timeline
	copied.Events = nil
	m.timelines[timeline.ID] = &copied
	return nil
}

func (m *MockTimelineRepository) ListByCollection(ctx context.Context, collectionID *int64, includeArchived bool) ([]*models.Timeline, error) {
	timelines := []*models.Timeline{}
	for _, t := range m.timelines {
		if sameCollection(t.CollectionID, collectionID) && (includeArchived || !t.Archived) {
			copied := *t
			timelines = append(timelines, &copied)
		}
	}
	sort.Slice(timelines, func(i, j int) bool {
		if timelines[i].Default != timelines[j].Default {
			return timelines[i].Default
		}
		return timelines[i].ID < timelines[j].ID
	})
	return timelines, nil
}

type MockTimelineEventRepository struct {
	events map[int64]*models.TimelineEvent
	nextID int64
}

func NewMockTimelineEventRepository() *MockTimelineEventRepository {
	return &MockTimelineEventRepository{events: make(map[int64]*models.TimelineEvent), nextID: 1}
}

func (m *MockTimelineEventRepository) Create(ctx context.Context, event *models.TimelineEvent) error {
	event.ID = m.nextID
	m.nextID++
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *MockTimelineEventRepository) GetByID(ctx context.Context, id int64) (*models.TimelineEvent, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, utils.NewNotFoundError("TimelineEvent", id)
	}
	copied := *event
	return &copied, nil
}

func (m *MockTimelineEventRepository) Update(ctx context.Context, event *models.TimelineEvent) error {
	if _, ok := m.events[event.ID]; !ok {
		return utils.NewNotFoundError("TimelineEvent", event.ID)
	}
	copied := *event
	copied.DescriptionHTML = ""
	m.events[event.ID] = &copied
	return nil
}

func (m *MockTimelineEventRepository) ListByTimelines(ctx context.Context, timelineIDs []int64, filter repository.EventFilter) ([]*models.TimelineEvent, error) {
	wanted := make(map[int64]bool, len(timelineIDs))
	for _, id := range timelineIDs {
		wanted[id] = true
	}
	events := []*models.TimelineEvent{}
	for _, e := range m.events {
		if !wanted[e.TimelineID] || e.Archived != filter.Archived {
			continue
		}
		if filter.Start != nil && e.Timestamp.Before(*filter.Start) {
			continue
		}
		copied := *e
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func sameCollection(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// fixture wires the services over fresh mocks.
type fixture struct {
	users       *MockUserRepository
	collections *MockCollectionRepository
	cards       *MockCardRepository
	reviews     *MockModerationReviewRepository
	timelines   *MockTimelineRepository
	events      *MockTimelineEventRepository
	perms       *PermissionService
}

func newFixture() *fixture {
	f := &fixture{
		users:       NewMockUserRepository(),
		collections: NewMockCollectionRepository(),
		cards:       NewMockCardRepository(),
		reviews:     NewMockModerationReviewRepository(),
		timelines:   NewMockTimelineRepository(),
		events:      NewMockTimelineEventRepository(),
	}
	f.perms = NewPermissionService(f.users, f.collections, "")
	return f
}

func (f *fixture) addUser(email, role string) *models.User {
	user := &models.User{Email: email, Role: role, CreatedAt: time.Now()}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *fixture) grant(role string, collectionID *int64, level string) {
	_ = f.collections.SetAccessLevel(context.Background(), &models.CollectionPermission{
		Role:         role,
		CollectionID: collectionID,
		AccessLevel:  level,
	})
}
