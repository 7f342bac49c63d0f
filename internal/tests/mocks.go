package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DanielMD1989/freight-managment-sub009/internal/domain"
	"github.com/DanielMD1989/freight-managment-sub009/internal/redis"
	"github.com/DanielMD1989/freight-managment-sub009/internal/repository"
	"github.com/DanielMD1989/freight-managment-sub009/internal/service"
)

// financialEventKinds mirrors the storage-layer unique index on financial
// events: at most one of each per load.
var financialEventKinds = map[domain.EventKind]bool{
	domain.EventServiceFeeDeducted:  true,
	domain.EventServiceFeeRefunded:  true,
	domain.EventSettlementProcessed: true,
}

// ──────────────────────────────────────────────
// MOCK LOAD REPOSITORY
// ──────────────────────────────────────────────

// MockLoadRepository is a mock implementation of LoadRepository.
type MockLoadRepository struct {
	mu    sync.RWMutex
	loads map[string]domain.Load

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError  error
	UpdateError  error
	GetByIDError error
}

// NewMockLoadRepository creates a new mock load repository.
func NewMockLoadRepository() *MockLoadRepository {
	return &MockLoadRepository{loads: make(map[string]domain.Load)}
}

// AddLoad adds a load to the mock repository.
func (m *MockLoadRepository) AddLoad(load *domain.Load) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[load.ID] = *load
}

func (m *MockLoadRepository) Create(ctx context.Context, load *domain.Load) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[load.ID] = *load
	return nil
}

func (m *MockLoadRepository) GetByID(ctx context.Context, id string) (*domain.Load, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	load, ok := m.loads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &load, nil
}

func (m *MockLoadRepository) Update(ctx context.Context, load *domain.Load) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loads[load.ID]; !ok {
		return repository.ErrNotFound
	}
	m.loads[load.ID] = *load
	return nil
}

func (m *MockLoadRepository) GetAll(ctx context.Context) ([]*domain.Load, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Load, 0, len(m.loads))
	for _, l := range m.loads {
		load := l
		result = append(result, &load)
	}
	return result, nil
}

func (m *MockLoadRepository) GetActiveByTruckID(ctx context.Context, truckID string) (*domain.Load, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.loads {
		if l.AssignedTruckID == truckID && !l.Status.IsTerminal() {
			load := l
			return &load, nil
		}
	}
	return nil, nil
}

// GetLoad returns a load for test assertions.
func (m *MockLoadRepository) GetLoad(id string) *domain.Load {
	m.mu.RLock()
	defer m.mu.RUnlock()
	load, ok := m.loads[id]
	if !ok {
		return nil
	}
	return &load
}

func (m *MockLoadRepository) snapshot() map[string]domain.Load {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Load, len(m.loads))
	for k, v := range m.loads {
		snap[k] = v
	}
	return snap
}

func (m *MockLoadRepository) restore(snap map[string]domain.Load) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = snap
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]domain.Trip

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]domain.Trip)}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// One trip per load, like the storage unique index.
	for _, t := range m.trips {
		if t.LoadID == trip.LoadID {
			return repository.ErrConflict
		}
	}
	m.trips[trip.ID] = *trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &trip, nil
}

func (m *MockTripRepository) GetByLoadID(ctx context.Context, loadID string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.LoadID == loadID {
			trip := t
			return &trip, nil
		}
	}
	return nil, nil
}

func (m *MockTripRepository) UpdateStatusByLoadID(ctx context.Context, loadID string, status domain.TripStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.trips {
		if t.LoadID == loadID {
			t.Status = status
			t.UpdatedAt = time.Now()
			m.trips[id] = t
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountTrips returns the number of trips for test assertions.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// TripByLoadID returns a trip for test assertions.
func (m *MockTripRepository) TripByLoadID(loadID string) *domain.Trip {
	trip, _ := m.GetByLoadID(context.Background(), loadID)
	return trip
}

func (m *MockTripRepository) snapshot() map[string]domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Trip, len(m.trips))
	for k, v := range m.trips {
		snap[k] = v
	}
	return snap
}

func (m *MockTripRepository) restore(snap map[string]domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = snap
}

// ──────────────────────────────────────────────
// MOCK TRUCK REPOSITORY
// ──────────────────────────────────────────────

// MockTruckRepository is a mock implementation of TruckRepository.
type MockTruckRepository struct {
	mu     sync.RWMutex
	trucks map[string]domain.Truck
}

// NewMockTruckRepository creates a new mock truck repository.
func NewMockTruckRepository() *MockTruckRepository {
	return &MockTruckRepository{trucks: make(map[string]domain.Truck)}
}

// AddTruck adds a truck to the mock repository.
func (m *MockTruckRepository) AddTruck(truck *domain.Truck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trucks[truck.ID] = *truck
}

func (m *MockTruckRepository) Create(ctx context.Context, truck *domain.Truck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trucks[truck.ID] = *truck
	return nil
}

func (m *MockTruckRepository) GetByID(ctx context.Context, id string) (*domain.Truck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	truck, ok := m.trucks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &truck, nil
}

func (m *MockTruckRepository) snapshot() map[string]domain.Truck {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Truck, len(m.trucks))
	for k, v := range m.trucks {
		snap[k] = v
	}
	return snap
}

func (m *MockTruckRepository) restore(snap map[string]domain.Truck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trucks = snap
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]domain.Wallet

	// Counters for verification
	AdjustBalanceCallCount int32

	// Error injection
	AdjustBalanceError error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{wallets: make(map[string]domain.Wallet)}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = *wallet
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = *wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &wallet, nil
}

func (m *MockWalletRepository) GetByOrg(ctx context.Context, orgID string, walletType domain.WalletType) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.OrganizationID == orgID && w.Type == walletType {
			wallet := w
			return &wallet, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal) error {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return repository.ErrNotFound
	}
	wallet.Balance = wallet.Balance.Add(delta)
	wallet.UpdatedAt = time.Now()
	m.wallets[walletID] = wallet
	return nil
}

// Balance returns a wallet balance for test assertions.
func (m *MockWalletRepository) Balance(walletID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallets[walletID].Balance
}

func (m *MockWalletRepository) snapshot() map[string]domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Wallet, len(m.wallets))
	for k, v := range m.wallets {
		snap[k] = v
	}
	return snap
}

func (m *MockWalletRepository) restore(snap map[string]domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets = snap
}

// ──────────────────────────────────────────────
// MOCK LEDGER REPOSITORY
// ──────────────────────────────────────────────

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry

	// Error injection
	AppendError error
}

// NewMockLedgerRepository creates a new mock ledger repository.
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockLedgerRepository) ListByLoadID(ctx context.Context, loadID string) ([]*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.JournalEntry
	for _, e := range m.entries {
		if e.LoadID == loadID {
			entry := e
			result = append(result, &entry)
		}
	}
	return result, nil
}

func (m *MockLedgerRepository) SumByWalletID(ctx context.Context, walletID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		for _, l := range e.Lines {
			if l.WalletID == walletID {
				sum = sum.Add(l.Amount)
			}
		}
	}
	return sum, nil
}

// CountEntries returns the number of entries of a type for test assertions.
func (m *MockLedgerRepository) CountEntries(txnType domain.TransactionType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.entries {
		if e.Type == txnType {
			count++
		}
	}
	return count
}

func (m *MockLedgerRepository) snapshot() []domain.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.JournalEntry, len(m.entries))
	copy(snap, m.entries)
	return snap
}

func (m *MockLedgerRepository) restore(snap []domain.JournalEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = snap
}

// ──────────────────────────────────────────────
// MOCK EVENT REPOSITORY
// ──────────────────────────────────────────────

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mu     sync.RWMutex
	events []domain.DomainEvent

	// Error injection
	RecordError error
	ExistsError error
}

// NewMockEventRepository creates a new mock event repository.
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{}
}

func (m *MockEventRepository) Record(ctx context.Context, event *domain.DomainEvent) error {
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Mirror the partial unique index on financial event kinds.
	if financialEventKinds[event.Kind] {
		for _, e := range m.events {
			if e.LoadID == event.LoadID && e.Kind == event.Kind {
				return repository.ErrConflict
			}
		}
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *MockEventRepository) Exists(ctx context.Context, loadID string, kind domain.EventKind) (bool, error) {
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.events {
		if e.LoadID == loadID && e.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockEventRepository) ListByLoadID(ctx context.Context, loadID string) ([]*domain.DomainEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DomainEvent
	for _, e := range m.events {
		if e.LoadID == loadID {
			event := e
			result = append(result, &event)
		}
	}
	return result, nil
}

// CountEvents returns the number of events of a kind for test assertions.
func (m *MockEventRepository) CountEvents(loadID string, kind domain.EventKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.events {
		if e.LoadID == loadID && e.Kind == kind {
			count++
		}
	}
	return count
}

func (m *MockEventRepository) snapshot() []domain.DomainEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.DomainEvent, len(m.events))
	copy(snap, m.events)
	return snap
}

func (m *MockEventRepository) restore(snap []domain.DomainEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = snap
}

// ──────────────────────────────────────────────
// MOCK CORRIDOR REPOSITORY
// ──────────────────────────────────────────────

// MockCorridorRepository is a mock implementation of CorridorRepository.
type MockCorridorRepository struct {
	mu        sync.RWMutex
	corridors map[string]domain.Corridor
}

// NewMockCorridorRepository creates a new mock corridor repository.
func NewMockCorridorRepository() *MockCorridorRepository {
	return &MockCorridorRepository{corridors: make(map[string]domain.Corridor)}
}

// AddCorridor adds a corridor to the mock repository.
func (m *MockCorridorRepository) AddCorridor(corridor *domain.Corridor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corridors[corridor.ID] = *corridor
}

func (m *MockCorridorRepository) Create(ctx context.Context, corridor *domain.Corridor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corridors[corridor.ID] = *corridor
	return nil
}

func (m *MockCorridorRepository) GetByID(ctx context.Context, id string) (*domain.Corridor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	corridor, ok := m.corridors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &corridor, nil
}

func (m *MockCorridorRepository) snapshot() map[string]domain.Corridor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Corridor, len(m.corridors))
	for k, v := range m.corridors {
		snap[k] = v
	}
	return snap
}

func (m *MockCorridorRepository) restore(snap map[string]domain.Corridor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corridors = snap
}

// ──────────────────────────────────────────────
// MOCK LOAD REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockLoadRequestRepository is a mock implementation of LoadRequestRepository.
type MockLoadRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]domain.LoadRequest
}

// NewMockLoadRequestRepository creates a new mock load request repository.
func NewMockLoadRequestRepository() *MockLoadRequestRepository {
	return &MockLoadRequestRepository{requests: make(map[string]domain.LoadRequest)}
}

// AddRequest adds a load request to the mock repository.
func (m *MockLoadRequestRepository) AddRequest(request *domain.LoadRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = *request
}

func (m *MockLoadRequestRepository) Create(ctx context.Context, request *domain.LoadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = *request
	return nil
}

func (m *MockLoadRequestRepository) GetByID(ctx context.Context, id string) (*domain.LoadRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &request, nil
}

func (m *MockLoadRequestRepository) Update(ctx context.Context, request *domain.LoadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[request.ID]; !ok {
		return repository.ErrNotFound
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *MockLoadRequestRepository) ListPendingByLoadID(ctx context.Context, loadID string) ([]*domain.LoadRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LoadRequest
	for _, r := range m.requests {
		if r.LoadID == loadID && r.Status == domain.LoadRequestPending {
			request := r
			result = append(result, &request)
		}
	}
	return result, nil
}

func (m *MockLoadRequestRepository) ClearPendingForLoad(ctx context.Context, loadID, exceptID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.requests {
		if r.LoadID == loadID && r.ID != exceptID && r.Status == domain.LoadRequestPending {
			r.Status = domain.LoadRequestCleared
			m.requests[id] = r
		}
	}
	return nil
}

// GetRequest returns a load request for test assertions.
func (m *MockLoadRequestRepository) GetRequest(id string) *domain.LoadRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	request, ok := m.requests[id]
	if !ok {
		return nil
	}
	return &request
}

func (m *MockLoadRequestRepository) snapshot() map[string]domain.LoadRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.LoadRequest, len(m.requests))
	for k, v := range m.requests {
		snap[k] = v
	}
	return snap
}

func (m *MockLoadRequestRepository) restore(snap map[string]domain.LoadRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = snap
}

// ──────────────────────────────────────────────
// MOCK WITHDRAWAL REPOSITORY
// ──────────────────────────────────────────────

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	mu          sync.RWMutex
	withdrawals []domain.Withdrawal
}

// NewMockWithdrawalRepository creates a new mock withdrawal repository.
func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, withdrawal *domain.Withdrawal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals = append(m.withdrawals, *withdrawal)
	return nil
}

func (m *MockWithdrawalRepository) ListByWalletID(ctx context.Context, walletID string) ([]*domain.Withdrawal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Withdrawal
	for _, w := range m.withdrawals {
		if w.WalletID == walletID {
			withdrawal := w
			result = append(result, &withdrawal)
		}
	}
	return result, nil
}

// CountWithdrawals returns the number of withdrawals for test assertions.
func (m *MockWithdrawalRepository) CountWithdrawals() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.withdrawals)
}

func (m *MockWithdrawalRepository) snapshot() []domain.Withdrawal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make([]domain.Withdrawal, len(m.withdrawals))
	copy(snap, m.withdrawals)
	return snap
}

func (m *MockWithdrawalRepository) restore(snap []domain.Withdrawal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawals = snap
}

// ──────────────────────────────────────────────
// MOCK ORGANIZATION REPOSITORY
// ──────────────────────────────────────────────

// MockOrganizationRepository is a mock implementation of OrganizationRepository.
type MockOrganizationRepository struct {
	mu   sync.RWMutex
	orgs map[string]domain.Organization
}

// NewMockOrganizationRepository creates a new mock organization repository.
func NewMockOrganizationRepository() *MockOrganizationRepository {
	return &MockOrganizationRepository{orgs: make(map[string]domain.Organization)}
}

// AddOrg adds an organization to the mock repository.
func (m *MockOrganizationRepository) AddOrg(org *domain.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[org.ID] = *org
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs[org.ID] = *org
	return nil
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &org, nil
}

func (m *MockOrganizationRepository) snapshot() map[string]domain.Organization {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string]domain.Organization, len(m.orgs))
	for k, v := range m.orgs {
		snap[k] = v
	}
	return snap
}

func (m *MockOrganizationRepository) restore(snap map[string]domain.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orgs = snap
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION MANAGER
// ──────────────────────────────────────────────

// MockTx bundles the mock repositories behind the Tx interface.
type MockTx struct {
	LoadRepo       *MockLoadRepository
	TripRepo       *MockTripRepository
	TruckRepo      *MockTruckRepository
	WalletRepo     *MockWalletRepository
	LedgerRepo     *MockLedgerRepository
	EventRepo      *MockEventRepository
	CorridorRepo   *MockCorridorRepository
	RequestRepo    *MockLoadRequestRepository
	WithdrawalRepo *MockWithdrawalRepository
	OrgRepo        *MockOrganizationRepository
}

// NewMockTx creates a MockTx with fresh mock repositories.
func NewMockTx() *MockTx {
	return &MockTx{
		LoadRepo:       NewMockLoadRepository(),
		TripRepo:       NewMockTripRepository(),
		TruckRepo:      NewMockTruckRepository(),
		WalletRepo:     NewMockWalletRepository(),
		LedgerRepo:     NewMockLedgerRepository(),
		EventRepo:      NewMockEventRepository(),
		CorridorRepo:   NewMockCorridorRepository(),
		RequestRepo:    NewMockLoadRequestRepository(),
		WithdrawalRepo: NewMockWithdrawalRepository(),
		OrgRepo:        NewMockOrganizationRepository(),
	}
}

func (t *MockTx) Loads() repository.LoadRepository                 { return t.LoadRepo }
func (t *MockTx) Trips() repository.TripRepository                 { return t.TripRepo }
func (t *MockTx) Trucks() repository.TruckRepository               { return t.TruckRepo }
func (t *MockTx) Wallets() repository.WalletRepository             { return t.WalletRepo }
func (t *MockTx) Ledger() repository.LedgerRepository              { return t.LedgerRepo }
func (t *MockTx) Events() repository.EventRepository               { return t.EventRepo }
func (t *MockTx) Corridors() repository.CorridorRepository         { return t.CorridorRepo }
func (t *MockTx) LoadRequests() repository.LoadRequestRepository   { return t.RequestRepo }
func (t *MockTx) Withdrawals() repository.WithdrawalRepository     { return t.WithdrawalRepo }
func (t *MockTx) Organizations() repository.OrganizationRepository { return t.OrgRepo }

type txSnapshot struct {
	loads       map[string]domain.Load
	trips       map[string]domain.Trip
	trucks      map[string]domain.Truck
	wallets     map[string]domain.Wallet
	entries     []domain.JournalEntry
	events      []domain.DomainEvent
	corridors   map[string]domain.Corridor
	requests    map[string]domain.LoadRequest
	withdrawals []domain.Withdrawal
	orgs        map[string]domain.Organization
}

func (t *MockTx) snapshot() txSnapshot {
	return txSnapshot{
		loads:       t.LoadRepo.snapshot(),
		trips:       t.TripRepo.snapshot(),
		trucks:      t.TruckRepo.snapshot(),
		wallets:     t.WalletRepo.snapshot(),
		entries:     t.LedgerRepo.snapshot(),
		events:      t.EventRepo.snapshot(),
		corridors:   t.CorridorRepo.snapshot(),
		requests:    t.RequestRepo.snapshot(),
		withdrawals: t.WithdrawalRepo.snapshot(),
		orgs:        t.OrgRepo.snapshot(),
	}
}

func (t *MockTx) restore(snap txSnapshot) {
	t.LoadRepo.restore(snap.loads)
	t.TripRepo.restore(snap.trips)
	t.TruckRepo.restore(snap.trucks)
	t.WalletRepo.restore(snap.wallets)
	t.LedgerRepo.restore(snap.entries)
	t.EventRepo.restore(snap.events)
	t.CorridorRepo.restore(snap.corridors)
	t.RequestRepo.restore(snap.requests)
	t.WithdrawalRepo.restore(snap.withdrawals)
	t.OrgRepo.restore(snap.orgs)
}

// MockTxManager runs functions against a MockTx. It snapshots the repository
// state before fn and restores it if fn fails, so rollback semantics hold in
// tests. Transactions are serialized with a mutex, which also gives
// RunInSerializableTx the no-concurrent-anomaly behavior the real
// implementation gets from the database.
type MockTxManager struct {
	mu sync.Mutex
	Tx *MockTx

	// Counters for verification
	CommitCount   int32
	RollbackCount int32

	// Error injection
	BeginError error
}

// NewMockTxManager creates a MockTxManager around a fresh MockTx.
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{Tx: NewMockTx()}
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return m.run(fn)
}

func (m *MockTxManager) RunInSerializableTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return m.run(fn)
}

func (m *MockTxManager) run(fn func(tx repository.Tx) error) error {
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.Tx.snapshot()
	if err := fn(m.Tx); err != nil {
		m.Tx.restore(snap)
		atomic.AddInt32(&m.RollbackCount, 1)
		return err
	}
	atomic.AddInt32(&m.CommitCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Error injection
	AcquireError error
	DenyAcquire  bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireTruckLock(ctx context.Context, truckID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.DenyAcquire {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[truckID] {
		return false, nil
	}
	m.locks[truckID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTruckLock(ctx context.Context, truckID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, truckID)
	return nil
}

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	// Counters for verification
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{}
}

func (m *MockCacheStore) GetLoad(ctx context.Context, loadID string) (*redis.CachedLoad, error) {
	return nil, nil
}

func (m *MockCacheStore) SetLoad(ctx context.Context, load *redis.CachedLoad) error {
	return nil
}

func (m *MockCacheStore) InvalidateLoad(ctx context.Context, loadID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	return nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// SentNotification records one Notify call.
type SentNotification struct {
	RecipientID string
	Type        service.NotificationType
	Payload     map[string]any
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentNotification

	// Error injection
	NotifyError error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, recipientID string, t service.NotificationType, payload map[string]any) error {
	if m.NotifyError != nil {
		return m.NotifyError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentNotification{RecipientID: recipientID, Type: t, Payload: payload})
	return nil
}

// Sent returns a copy of recorded notifications for test assertions.
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentNotification, len(m.sent))
	copy(out, m.sent)
	return out
}
