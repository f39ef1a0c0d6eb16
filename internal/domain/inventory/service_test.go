package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
	"stockpilot/internal/domain/audit"
)

// --- In-memory repository ---

type pairKey struct {
	productID   id.ID
	warehouseID id.ID
}

type memRepo struct {
	mu        sync.Mutex
	movements []*Movement
	records   map[pairKey]*Record
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[pairKey]*Record)}
}

type memSnapshot struct {
	movements []*Movement
	records   map[pairKey]*Record
}

func (r *memRepo) snapshot() memSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := memSnapshot{
		movements: make([]*Movement, len(r.movements)),
		records:   make(map[pairKey]*Record, len(r.records)),
	}
	copy(snap.movements, r.movements)
	for k, v := range r.records {
		cp := *v
		snap.records[k] = &cp
	}
	return snap
}

func (r *memRepo) restore(snap memSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = snap.movements
	r.records = snap.records
}

func (r *memRepo) CreateMovement(ctx context.Context, m *Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memRepo) ListMovements(ctx context.Context, filter MovementFilter) (domain.ListResult[*Movement], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*Movement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filter.ProductID != nil && m.ProductID != *filter.ProductID {
			continue
		}
		if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.Direction != nil && m.Direction != *filter.Direction {
			continue
		}
		items = append(items, m)
	}
	return domain.ListResult[*Movement]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memRepo) GetRecord(ctx context.Context, recordID id.ID) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == recordID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("inventory record", recordID.String())
}

func (r *memRepo) FindRecord(ctx context.Context, productID, warehouseID id.ID) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[pairKey{productID, warehouseID}]
	if !ok {
		return nil, apperror.NewNotFound("inventory record", productID.String())
	}
	cp := *rec
	return &cp, nil
}

func (r *memRepo) UpsertReceipt(ctx context.Context, productID, warehouseID id.ID, quantity int64, now time.Time) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{productID, warehouseID}
	rec, ok := r.records[key]
	if !ok {
		rec = &Record{
			ID:          id.New(),
			ProductID:   productID,
			WarehouseID: warehouseID,
		}
		r.records[key] = rec
	}
	rec.Quantity += quantity
	rec.LastUpdated = now
	cp := *rec
	return &cp, nil
}

func (r *memRepo) ApplyDelta(ctx context.Context, productID, warehouseID id.ID, delta int64, now time.Time) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[pairKey{productID, warehouseID}]
	if !ok {
		return nil, apperror.NewNotFound("inventory record", productID.String())
	}
	rec.Quantity += delta
	rec.LastUpdated = now
	cp := *rec
	return &cp, nil
}

func (r *memRepo) OverwriteQuantity(ctx context.Context, recordID id.ID, quantity int64, now time.Time) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.ID == recordID {
			rec.Quantity = quantity
			rec.LastUpdated = now
			cp := *rec
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("inventory record", recordID.String())
}

func (r *memRepo) ListRecords(ctx context.Context, filter RecordFilter) (domain.ListResult[*RecordDetail], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*RecordDetail
	for _, rec := range r.records {
		cp := *rec
		items = append(items, &RecordDetail{Record: cp})
	}
	return domain.ListResult[*RecordDetail]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memRepo) movementCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

func (r *memRepo) recordCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- Transaction manager with rollback semantics ---

// memTxManager restores the repository to its pre-transaction state when
// the transactional function fails, mirroring a database rollback.
// Serialized so concurrent tests exercise the repo's own locking.
type memTxManager struct {
	mu   sync.Mutex
	repo *memRepo
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(snap)
		return err
	}
	return nil
}

// --- Reference checkers and audit recorder ---

type memChecker struct {
	mu  sync.Mutex
	ids map[id.ID]bool
}

func newMemChecker(ids ...id.ID) *memChecker {
	c := &memChecker{ids: make(map[id.ID]bool)}
	for _, v := range ids {
		c.ids[v] = true
	}
	return c
}

func (c *memChecker) Exists(ctx context.Context, refID id.ID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids[refID], nil
}

type memAuditor struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (a *memAuditor) Record(ctx context.Context, entry *audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

// --- Fixture ---

type fixture struct {
	repo    *memRepo
	auditor *memAuditor
	service *Service

	productID   id.ID
	warehouseID id.ID
	userID      id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemRepo()
	auditor := &memAuditor{}
	productID := id.New()
	warehouseID := id.New()

	service := NewService(
		repo,
		newMemChecker(productID),
		newMemChecker(warehouseID),
		&memTxManager{repo: repo},
		auditor,
	)

	return &fixture{
		repo:        repo,
		auditor:     auditor,
		service:     service,
		productID:   productID,
		warehouseID: warehouseID,
		userID:      id.New(),
	}
}

func (f *fixture) input(direction Direction, quantity int64) MovementInput {
	return MovementInput{
		ProductID:    f.productID,
		WarehouseID:  f.warehouseID,
		Direction:    direction,
		Quantity:     quantity,
		ActingUserID: f.userID,
	}
}

// --- RecordMovement ---

func TestRecordMovement_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int64{0, -5} {
		_, err := f.service.RecordMovement(ctx, f.input(DirectionIn, qty))
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err), "quantity %d should fail validation", qty)
	}
	assert.Equal(t, 0, f.repo.movementCount())
}

func TestRecordMovement_RejectsMissingUser(t *testing.T) {
	f := newFixture(t)

	input := f.input(DirectionIn, 10)
	input.ActingUserID = id.Nil

	_, err := f.service.RecordMovement(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
	assert.Equal(t, 0, f.repo.movementCount())
}

func TestRecordMovement_RejectsInvalidDirection(t *testing.T) {
	f := newFixture(t)

	input := f.input("sideways", 10)

	_, err := f.service.RecordMovement(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestRecordMovement_RejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := f.input(DirectionIn, 10)
	input.ProductID = id.New()
	_, err := f.service.RecordMovement(ctx, input)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	input = f.input(DirectionIn, 10)
	input.WarehouseID = id.New()
	_, err = f.service.RecordMovement(ctx, input)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, 0, f.repo.movementCount())
	assert.Equal(t, 0, f.repo.recordCount())
}

func TestRecordMovement_FirstReceiptCreatesRecord(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.RecordMovement(context.Background(), f.input(DirectionIn, 50))
	require.NoError(t, err)

	require.NotNil(t, result.Movement)
	require.NotNil(t, result.Record)
	assert.Equal(t, DirectionIn, result.Movement.Direction)
	assert.Equal(t, int64(50), result.Movement.Quantity)
	assert.Equal(t, f.userID, result.Movement.UserID)
	assert.Equal(t, int64(50), result.Record.Quantity)
	assert.Equal(t, 1, f.repo.movementCount())
	assert.Equal(t, 1, f.repo.recordCount())
}

func TestRecordMovement_ReceiptAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordMovement(ctx, f.input(DirectionIn, 50))
	require.NoError(t, err)

	result, err := f.service.RecordMovement(ctx, f.input(DirectionIn, 20))
	require.NoError(t, err)

	assert.Equal(t, int64(70), result.Record.Quantity)
	assert.Equal(t, 1, f.repo.recordCount(), "receipts for the same pair share one record")
	assert.Equal(t, 2, f.repo.movementCount())
}

func TestRecordMovement_WithdrawalDecrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordMovement(ctx, f.input(DirectionIn, 50))
	require.NoError(t, err)

	result, err := f.service.RecordMovement(ctx, f.input(DirectionOut, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(30), result.Record.Quantity)

	// Withdrawing past zero is allowed once the record exists.
	result, err = f.service.RecordMovement(ctx, f.input(DirectionOut, 40))
	require.NoError(t, err)
	assert.Equal(t, int64(-10), result.Record.Quantity)
}

func TestRecordMovement_WithdrawalWithoutRecordRollsBack(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RecordMovement(context.Background(), f.input(DirectionOut, 5))
	require.Error(t, err)
	assert.True(t, apperror.IsNoStockToWithdraw(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNoStockToWithdraw, appErr.Code)

	// The failed movement must leave no trace: the ledger insert is
	// rolled back together with the reconcile step.
	assert.Equal(t, 0, f.repo.movementCount())
	assert.Equal(t, 0, f.repo.recordCount())
}

func TestRecordMovement_ConcurrentFirstReceipts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.RecordMovement(ctx, f.input(DirectionIn, 10))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	rec, err := f.repo.FindRecord(ctx, f.productID, f.warehouseID)
	require.NoError(t, err)
	assert.Equal(t, int64(10*workers), rec.Quantity, "no update may be lost")
	assert.Equal(t, 1, f.repo.recordCount(), "concurrent first receipts converge on one record")
	assert.Equal(t, workers, f.repo.movementCount())
}

func TestRecordMovement_OptionalFields(t *testing.T) {
	f := newFixture(t)

	input := f.input(DirectionIn, 10)
	input.ReferenceNumber = "PO-1001"
	input.Notes = "initial delivery"

	result, err := f.service.RecordMovement(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Movement.ReferenceNumber)
	assert.Equal(t, "PO-1001", *result.Movement.ReferenceNumber)
	require.NotNil(t, result.Movement.Notes)
	assert.Equal(t, "initial delivery", *result.Movement.Notes)
}

// --- AdjustQuantity ---

func TestAdjustQuantity_RejectsNegative(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AdjustQuantity(context.Background(), id.New(), -1, f.userID)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAdjustQuantity_RejectsMissingUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AdjustQuantity(context.Background(), id.New(), 10, id.Nil)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestAdjustQuantity_UnknownRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AdjustQuantity(context.Background(), id.New(), 10, f.userID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjustQuantity_OverwritesAndAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seeded, err := f.service.RecordMovement(ctx, f.input(DirectionIn, 50))
	require.NoError(t, err)

	rec, err := f.service.AdjustQuantity(ctx, seeded.Record.ID, 42, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.Quantity)

	// Manual adjustment bypasses the ledger but lands in the audit trail.
	assert.Equal(t, 1, f.repo.movementCount())
	require.Len(t, f.auditor.entries, 1)

	entry := f.auditor.entries[0]
	assert.Equal(t, audit.ActionAdjust, entry.Action)
	assert.Equal(t, "inventory", entry.Entity)
	assert.Equal(t, seeded.Record.ID.String(), entry.EntityID)
	assert.Equal(t, f.userID.String(), entry.ActorID)
	assert.Contains(t, string(entry.Changes), `"previous_quantity":50`)
	assert.Contains(t, string(entry.Changes), `"new_quantity":42`)
}

// --- Listing defaults ---

func TestListMovements_AppliesDefaultLimit(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ListMovements(context.Background(), MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Limit)
}

func TestListRecords_AppliesDefaultLimit(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ListRecords(context.Background(), RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Limit)
}

// A negative offset would wrap to a huge uint64 in the SQL builder; the
// service must clamp it before it reaches the repository.
func TestListMovements_ClampsPagination(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ListMovements(context.Background(), MovementFilter{Limit: -10, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Limit)
	assert.Equal(t, 0, result.Offset)

	result, err = f.service.ListMovements(context.Background(), MovementFilter{Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, 500, result.Limit)
}

func TestListRecords_ClampsPagination(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.ListRecords(context.Background(), RecordFilter{Limit: -10, Offset: -1})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Limit)
	assert.Equal(t, 0, result.Offset)

	result, err = f.service.ListRecords(context.Background(), RecordFilter{Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, 500, result.Limit)
}
