package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) UpdateVerificationStatus(ctx context.Context, userID string, status domain.VerificationStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.VerificationStatus = status
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Candidate pool returned by FindCandidates.
	Candidates []*repository.CandidateRoute

	// Error injection
	CreateError         error
	FindCandidatesError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.ID] = route
	return nil
}

func (m *MockRouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Route
	for _, r := range m.routes {
		if r.UserID == userID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRouteRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.routes, id)
	return nil
}

func (m *MockRouteRepository) FindCandidates(ctx context.Context, excludeUserID string, role domain.Role) ([]*repository.CandidateRoute, error) {
	if m.FindCandidatesError != nil {
		return nil, m.FindCandidatesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*repository.CandidateRoute, 0, len(m.Candidates))
	for _, c := range m.Candidates {
		if c.Route.UserID == excludeUserID {
			continue
		}
		if c.Owner.Role != role {
			continue
		}
		if c.Owner.VerificationStatus != domain.VerificationVerified {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

// HasRoute reports whether a route still exists, for test assertions.
func (m *MockRouteRepository) HasRoute(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.routes[id]
	return ok
}

// ──────────────────────────────────────────────
// MOCK DOCUMENT REPOSITORY
// ──────────────────────────────────────────────

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.Document

	// Error injection
	CreateError error
}

// NewMockDocumentRepository creates a new mock document repository.
func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		docs: make(map[string]*domain.Document),
	}
}

// AddDocument adds a document to the mock repository.
func (m *MockDocumentRepository) AddDocument(doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *doc
	return &copy, nil
}

func (m *MockDocumentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Document
	for _, d := range m.docs {
		if d.UserID == userID {
			copy := *d
			result = append(result, &copy)
		}
	}
	// Most recently reviewed first, unreviewed last, matching the real
	// repository's ordering contract.
	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := result[i].ReviewedAt, result[j].ReviewedAt
		if ri.IsZero() != rj.IsZero() {
			return !ri.IsZero()
		}
		if !ri.Equal(rj) {
			return ri.After(rj)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockDocumentRepository) GetPending(ctx context.Context) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Document
	for _, d := range m.docs {
		if d.Status == domain.ReviewPending {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDocumentRepository) UpdateReview(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.docs[doc.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = doc.Status
	stored.ReviewNote = doc.ReviewNote
	stored.ReviewedAt = doc.ReviewedAt
	return nil
}

// ──────────────────────────────────────────────
// MOCK REQUIREMENT REPOSITORY
// ──────────────────────────────────────────────

// MockRequirementRepository is a mock implementation of
// RequirementRepository.
type MockRequirementRepository struct {
	mu           sync.RWMutex
	requirements []*domain.DocumentRequirement

	ReplaceAllCallCount int32
}

// NewMockRequirementRepository creates a new mock requirement repository.
func NewMockRequirementRepository() *MockRequirementRepository {
	return &MockRequirementRepository{}
}

// SetRequirements sets the configured catalog.
func (m *MockRequirementRepository) SetRequirements(reqs []*domain.DocumentRequirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements = reqs
}

func (m *MockRequirementRepository) GetActiveForRole(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DocumentRequirement
	for _, r := range m.requirements {
		if r.Role == role && r.Active {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *MockRequirementRepository) GetAll(ctx context.Context) ([]*domain.DocumentRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requirements, nil
}

func (m *MockRequirementRepository) ReplaceAll(ctx context.Context, reqs []*domain.DocumentRequirement) error {
	atomic.AddInt32(&m.ReplaceAllCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements = reqs
	return nil
}

// ──────────────────────────────────────────────
// MOCK CONTACT REPOSITORY
// ──────────────────────────────────────────────

// MockContactRepository is a mock implementation of ContactRepository.
// It enforces the unordered-pair uniqueness the real implementation
// guarantees through its index.
type MockContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]*domain.Contact

	// When set, Create stores this contact instead of the argument and
	// reports no insert, simulating a concurrent request winning the race
	// between the existence check and the insert.
	ConflictContact *domain.Contact

	TouchCallCount int32
}

// NewMockContactRepository creates a new mock contact repository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[string]*domain.Contact),
	}
}

// AddContact adds a contact to the mock repository.
func (m *MockContactRepository) AddContact(contact *domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[contact.ID] = contact
}

func samePair(c *domain.Contact, userA, userB string) bool {
	return (c.RequesterID == userA && c.CounterpartID == userB) ||
		(c.RequesterID == userB && c.CounterpartID == userA)
}

func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) (bool, error) {
	if m.ConflictContact != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.contacts[m.ConflictContact.ID] = m.ConflictContact
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if samePair(c, contact.RequesterID, contact.CounterpartID) {
			return false, nil
		}
	}
	m.contacts[contact.ID] = contact
	return true, nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	contact, ok := m.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *contact
	return &copy, nil
}

func (m *MockContactRepository) FindByPair(ctx context.Context, userA, userB string) (*domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.contacts {
		if samePair(c, userA, userB) {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockContactRepository) GetForUser(ctx context.Context, userID string) ([]*domain.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Contact
	for _, c := range m.contacts {
		if c.HasMember(userID) {
			copy := *c
			result = append(result, &copy)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (m *MockContactRepository) Touch(ctx context.Context, id string) error {
	atomic.AddInt32(&m.TouchCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	contact, ok := m.contacts[id]
	if !ok {
		return repository.ErrNotFound
	}
	contact.UpdatedAt = time.Now()
	return nil
}

// Count returns the number of stored contacts, for test assertions.
func (m *MockContactRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.contacts)
}

// ──────────────────────────────────────────────
// MOCK CHAT MESSAGE REPOSITORY
// ──────────────────────────────────────────────

// MockChatMessageRepository is a mock implementation of
// ChatMessageRepository.
type MockChatMessageRepository struct {
	mu       sync.RWMutex
	messages []*domain.ChatMessage

	CreateError error
}

// NewMockChatMessageRepository creates a new mock chat message repository.
func NewMockChatMessageRepository() *MockChatMessageRepository {
	return &MockChatMessageRepository{}
}

func (m *MockChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockChatMessageRepository) ListByContact(ctx context.Context, contactID string) ([]*domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.ChatMessage
	for _, msg := range m.messages {
		if msg.ContactID == contactID {
			copy := *msg
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockChatMessageRepository) LatestByContact(ctx context.Context, contactID string) (*domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].ContactID == contactID {
			copy := *m.messages[i]
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	MarkAllReadCallCount int32

	CreateError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(result) < limit; i-- {
		if m.notifications[i].UserID == userID {
			copy := *m.notifications[i]
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.MarkAllReadCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// ForUser returns the stored notifications for a user, for test assertions.
func (m *MockNotificationRepository) ForUser(userID string) []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

// HoldLock pre-acquires the review lock for a user, simulating a
// concurrent reviewer.
func (m *MockLockStore) HoldLock(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[userID] = true
}

func (m *MockLockStore) AcquireReviewLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[userID] {
		return false, nil
	}
	m.locks[userID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseReviewLock(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, userID)
	return nil
}
