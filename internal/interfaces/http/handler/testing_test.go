package handler

import (
	"context"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sourcingops/backend/internal/domain/ledger"
	"github.com/sourcingops/backend/internal/domain/shared"
	"github.com/sourcingops/backend/internal/domain/sourcing"
	"github.com/sourcingops/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestEngine mounts the given handlers under /api/v1 like the server does.
func newTestEngine(registrars ...router.RouteRegistrar) *gin.Engine {
	engine := gin.New()
	r := router.NewRouter(engine)
	for _, registrar := range registrars {
		r.Register(registrar)
	}
	r.Setup()
	return engine
}

type fakeLineRepo struct {
	lines map[uuid.UUID]*sourcing.OrderLine
	order []uuid.UUID
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: make(map[uuid.UUID]*sourcing.OrderLine)}
}

func (r *fakeLineRepo) FindByID(_ context.Context, id uuid.UUID) (*sourcing.OrderLine, error) {
	line, ok := r.lines[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *line
	return &cp, nil
}

func (r *fakeLineRepo) FindBySheet(_ context.Context, sheetID string) ([]*sourcing.OrderLine, error) {
	var out []*sourcing.OrderLine
	for _, id := range r.order {
		if line := r.lines[id]; line != nil && line.SheetID == sheetID {
			cp := *line
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) Save(_ context.Context, line *sourcing.OrderLine) error {
	if _, ok := r.lines[line.ID]; !ok {
		r.order = append(r.order, line.ID)
	}
	cp := *line
	r.lines[line.ID] = &cp
	return nil
}

func (r *fakeLineRepo) SaveAll(ctx context.Context, lines []*sourcing.OrderLine) error {
	for _, line := range lines {
		if err := r.Save(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLineRepo) ReplaceSheet(ctx context.Context, sheetID string, lines []*sourcing.OrderLine) error {
	kept := r.order[:0]
	for _, id := range r.order {
		if line := r.lines[id]; line != nil && line.SheetID == sheetID {
			delete(r.lines, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return r.SaveAll(ctx, lines)
}

func (r *fakeLineRepo) CountBySheet(ctx context.Context, sheetID string) (int64, error) {
	lines, _ := r.FindBySheet(ctx, sheetID)
	return int64(len(lines)), nil
}

type fakeSnapshotRepo struct {
	snapshots map[string]*sourcing.VerificationSnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]*sourcing.VerificationSnapshot)}
}

func (r *fakeSnapshotRepo) FindBySheet(_ context.Context, sheetID string) (*sourcing.VerificationSnapshot, error) {
	snapshot, ok := r.snapshots[sheetID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return snapshot, nil
}

func (r *fakeSnapshotRepo) Replace(_ context.Context, snapshot *sourcing.VerificationSnapshot) error {
	r.snapshots[snapshot.SheetID] = snapshot
	return nil
}

type fakeDeliveryRepo struct {
	records []sourcing.DeliveryRecord
}

func (r *fakeDeliveryRepo) FindAll(_ context.Context) ([]sourcing.DeliveryRecord, error) {
	return r.records, nil
}

func (r *fakeDeliveryRepo) ReplaceAll(_ context.Context, records []sourcing.DeliveryRecord) error {
	r.records = records
	return nil
}

type fakeLedgerRepo struct {
	accounts map[uuid.UUID]*ledger.Account
	txs      []ledger.Transaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{accounts: make(map[uuid.UUID]*ledger.Account)}
}

func (r *fakeLedgerRepo) FindAccount(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	acc, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeLedgerRepo) FindAccountByName(_ context.Context, name string) (*ledger.Account, error) {
	for _, acc := range r.accounts {
		if acc.Name == name {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLedgerRepo) SaveAccount(_ context.Context, account *ledger.Account) error {
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeLedgerRepo) SaveTransaction(_ context.Context, tx *ledger.Transaction) error {
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *fakeLedgerRepo) ListTransactions(_ context.Context, accountID uuid.UUID, limit, offset int) ([]ledger.Transaction, int64, error) {
	var all []ledger.Transaction
	for _, tx := range r.txs {
		if tx.AccountID == accountID {
			all = append(all, tx)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
