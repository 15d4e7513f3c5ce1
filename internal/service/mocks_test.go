package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"settlement/internal/domain"
	"settlement/internal/gateway"
	"settlement/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK REALTIME STORE
// ──────────────────────────────────────────────

// MockRealtimeStore is an in-memory stand-in for the realtime coordination store.
type MockRealtimeStore struct {
	mu      sync.Mutex
	intents map[string]string // userID -> intentID
	paid    map[string]bool   // requestID -> is_paid mirror
	meta    map[string]bool   // requestID -> presence

	SetIntentCallCount int32
	ClearMetaCallCount int32

	SetIntentError error
	GetIntentError error
	ClearMetaError error
}

func NewMockRealtimeStore() *MockRealtimeStore {
	return &MockRealtimeStore{
		intents: make(map[string]string),
		paid:    make(map[string]bool),
		meta:    make(map[string]bool),
	}
}

func (m *MockRealtimeStore) SetPaymentIntent(ctx context.Context, userID, intentID string) error {
	atomic.AddInt32(&m.SetIntentCallCount, 1)
	if m.SetIntentError != nil {
		return m.SetIntentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents[userID] = intentID
	return nil
}

func (m *MockRealtimeStore) GetPaymentIntent(ctx context.Context, userID string) (string, error) {
	if m.GetIntentError != nil {
		return "", m.GetIntentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intents[userID], nil
}

func (m *MockRealtimeStore) ClearPaymentIntent(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.intents, userID)
	return nil
}

func (m *MockRealtimeStore) MarkRequestPaid(ctx context.Context, requestID string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paid[requestID] = paid
	return nil
}

func (m *MockRealtimeStore) ClearRequestMeta(ctx context.Context, requestID string) error {
	atomic.AddInt32(&m.ClearMetaCallCount, 1)
	if m.ClearMetaError != nil {
		return m.ClearMetaError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meta, requestID)
	return nil
}

// Intent returns the stored intent for assertions.
func (m *MockRealtimeStore) Intent(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intents[userID]
}

// Paid returns the mirrored is_paid flag for assertions.
func (m *MockRealtimeStore) Paid(requestID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paid[requestID]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore implements real SetNX semantics in memory so exclusivity
// tests exercise the same contention the redis lock would.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	AcquireError     error

	// LastReleaseCtx records the context the release ran on.
	LastReleaseCtx context.Context
}

func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSettlementLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[requestID] {
		return false, nil
	}
	m.locks[requestID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSettlementLock(ctx context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastReleaseCtx = ctx
	delete(m.locks, requestID)
	return nil
}

// Hold pre-acquires a lock so a test can simulate a settlement in flight.
func (m *MockLockStore) Hold(requestID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[requestID] = true
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER / REASSIGNER
// ──────────────────────────────────────────────

// MockNotifier records outbound notifications.
type MockNotifier struct {
	mu         sync.Mutex
	Sent       []string // recipient ids
	Broadcasts []string // target ids

	SendError error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(ctx context.Context, userID, title, body string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, userID)
	return nil
}

func (m *MockNotifier) Broadcast(ctx context.Context, event string, payload map[string]interface{}, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Broadcasts = append(m.Broadcasts, targetID)
	return nil
}

// MockReassigner counts reassignment triggers.
type MockReassigner struct {
	TriggerCallCount int32
}

func NewMockReassigner() *MockReassigner {
	return &MockReassigner{}
}

func (m *MockReassigner) TriggerReassignment(requestID string) {
	atomic.AddInt32(&m.TriggerCallCount, 1)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY / RECONCILER
// ──────────────────────────────────────────────

// MockGateway records cancel calls against the external card gateway.
type MockGateway struct {
	mu        sync.Mutex
	Cancelled []string

	CancelError error
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) CancelIntent(ctx context.Context, intentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancelled = append(m.Cancelled, intentID)
	if m.CancelError != nil {
		return m.CancelError
	}
	return nil
}

// MockReconciler records intent-cancel requests from the orchestrator.
type MockReconciler struct {
	mu             sync.Mutex
	CancelledUsers []string
	Events         []gateway.Event

	CancelError error
}

func NewMockReconciler() *MockReconciler {
	return &MockReconciler{}
}

func (m *MockReconciler) HandleEvent(ctx context.Context, event gateway.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockReconciler) CancelIntent(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelledUsers = append(m.CancelledUsers, userID)
	if m.CancelError != nil {
		return m.CancelError
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK REFERENCE-DATA REPOSITORIES
// ──────────────────────────────────────────────

// MockCancellationRepo serves the reasons catalog from memory.
type MockCancellationRepo struct {
	mu      sync.Mutex
	reasons map[string]*domain.CancellationReason

	FeeRecords []*domain.CancellationFeeRecord
	Rejections []*domain.DriverRejection
}

func NewMockCancellationRepo() *MockCancellationRepo {
	return &MockCancellationRepo{reasons: make(map[string]*domain.CancellationReason)}
}

func (m *MockCancellationRepo) AddReason(reason *domain.CancellationReason) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reasons[reason.ID] = reason
}

func (m *MockCancellationRepo) GetReason(ctx context.Context, id string) (*domain.CancellationReason, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reason, ok := m.reasons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *reason
	return &copy, nil
}

func (m *MockCancellationRepo) CreateFeeRecord(ctx context.Context, rec *domain.CancellationFeeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeeRecords = append(m.FeeRecords, rec)
	return nil
}

func (m *MockCancellationRepo) GetFeeRecordByRequestID(ctx context.Context, requestID string) (*domain.CancellationFeeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.FeeRecords {
		if rec.RequestID == requestID {
			copy := *rec
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockCancellationRepo) CreateDriverRejection(ctx context.Context, rej *domain.DriverRejection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejections = append(m.Rejections, rej)
	return nil
}

// MockPricingRepo serves cancellation fees from memory.
type MockPricingRepo struct {
	mu   sync.Mutex
	fees map[string]float64 // zoneTypeID + "/" + timing -> fee
}

func NewMockPricingRepo() *MockPricingRepo {
	return &MockPricingRepo{fees: make(map[string]float64)}
}

func (m *MockPricingRepo) AddFee(zoneTypeID string, timing domain.RideTiming, fee float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fees[zoneTypeID+"/"+string(timing)] = fee
}

func (m *MockPricingRepo) GetCancellationFee(ctx context.Context, zoneTypeID string, timing domain.RideTiming) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fee, ok := m.fees[zoneTypeID+"/"+string(timing)]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return fee, nil
}
