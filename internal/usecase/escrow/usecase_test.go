package escrow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lakay-collateral/internal/adapter/repository/mysql"
	"lakay-collateral/internal/domain/collateral"
	"lakay-collateral/internal/domain/loanref"
	memberDomain "lakay-collateral/internal/domain/member"
	savingsDomain "lakay-collateral/internal/domain/savings"
	"lakay-collateral/internal/testutil/loansourcemock"
	"lakay-collateral/pkg/id"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type memberSQLite struct {
	ID        uint64         `gorm:"primaryKey;column:id"`
	MemberID  string         `gorm:"size:32;column:member_id"`
	Name      string         `gorm:"column:name"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (memberSQLite) TableName() string { return "members" }

type savingsSQLite struct {
	ID          uint64         `gorm:"primaryKey;column:id"`
	TxID        string         `gorm:"size:32;column:tx_id"`
	MemberID    string         `gorm:"size:32;column:member_id"`
	Amount      int64          `gorm:"column:amount"`
	Blocked     bool           `gorm:"column:blocked"`
	LoanID      *string        `gorm:"size:32;column:loan_id"`
	GroupLoanID *string        `gorm:"size:32;column:group_loan_id"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (savingsSQLite) TableName() string { return "savings_transactions" }

type collateralSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	RecordID          string         `gorm:"size:32;column:record_id"`
	MemberID          string         `gorm:"size:32;column:member_id"`
	LoanID            *string        `gorm:"size:32;column:loan_id"`
	GroupLoanID       *string        `gorm:"size:32;column:group_loan_id"`
	MontantRequis     int64          `gorm:"column:montant_requis"`
	MontantDepose     int64          `gorm:"column:montant_depose"`
	Statut            string         `gorm:"type:text;column:statut"`
	DateDepot         *time.Time     `gorm:"column:date_depot"`
	DateRemboursement *time.Time     `gorm:"column:date_remboursement"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (collateralSQLite) TableName() string { return "collateral_records" }

// engine wires the reconciler against in-memory sqlite, the way cmd/api
// wires it against mysql. The loan module is mocked: repayment state flips
// through the repaid map.
type engine struct {
	db      *gorm.DB
	uc      *Usecase
	savings *mysql.SavingsRepository

	mu     sync.Mutex
	repaid map[loanref.Ref]bool
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&memberSQLite{}, &savingsSQLite{}, &collateralSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	// one connection: concurrent transactions serialize instead of tripping
	// sqlite's file lock
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	e := &engine{db: db, savings: mysql.NewSavingsRepository(db), repaid: map[loanref.Ref]bool{}}
	loans := &loansourcemock.Source{
		IsRepaymentCompleteFn: func(_ context.Context, ref loanref.Ref) (bool, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			return e.repaid[ref], nil
		},
		PrincipalFn: func(_ context.Context, ref loanref.Ref) (int64, error) {
			return 200000, nil
		},
	}
	e.uc = NewUsecase(mysql.NewGormUoW(db), mysql.NewCollateralRepository(db), loans, 1.0)
	return e
}

func (e *engine) addMember(t *testing.T) string {
	t.Helper()
	m := &memberDomain.Member{MemberID: id.NewID32(), Name: "Madan Sentil"}
	if err := mysql.NewMemberRepository(e.db).Create(context.Background(), m); err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m.MemberID
}

func (e *engine) deposit(t *testing.T, memberID string, amount int64) {
	t.Helper()
	tx := &savingsDomain.Transaction{TxID: id.NewID32(), MemberID: memberID, Amount: amount}
	if err := e.savings.Create(context.Background(), tx); err != nil {
		t.Fatalf("deposit: %v", err)
	}
}

func (e *engine) available(t *testing.T, memberID string) int64 {
	t.Helper()
	sum, err := e.savings.SumUnblocked(context.Background(), memberID)
	if err != nil {
		t.Fatalf("SumUnblocked: %v", err)
	}
	return sum
}

func (e *engine) markRepaid(ref loanref.Ref) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repaid[ref] = true
}

// checkConservation asserts available + all blocked = total, for one member.
func (e *engine) checkConservation(t *testing.T, memberID string) {
	t.Helper()
	ctx := context.Background()
	total, _ := e.savings.SumAll(ctx, memberID)
	avail, _ := e.savings.SumUnblocked(ctx, memberID)
	rows, _ := e.savings.ListByMember(ctx, memberID)
	var blocked int64
	for i := range rows {
		if rows[i].Blocked {
			blocked += rows[i].Amount
		}
	}
	if total != avail+blocked {
		t.Fatalf("conservation broken: total=%d avail=%d blocked=%d", total, avail, blocked)
	}
}

func newRef() loanref.Ref { return loanref.Individual(id.NewID32()) }

// Scenario A then B then C then D from the ledger's point of view: partial
// funding, top-up to complet, guarded release, final release and closure.
func TestCollateralLifecycle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()

	// A: 1000 available against a 1500 requirement
	e.deposit(t, memberID, 1000)
	dto, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 1500})
	if err != nil {
		t.Fatalf("RequireCollateral: %v", err)
	}
	if dto.Statut != string(collateral.StatutPartiel) || dto.Shortfall != 500 || dto.MontantDepose != 1000 {
		t.Fatalf("scenario A: %+v", dto)
	}
	if got := e.available(t, memberID); got != 0 {
		t.Fatalf("available after A = %d, want 0", got)
	}
	if dto.DateDepot == nil {
		t.Fatalf("date_depot missing after first funds")
	}
	e.checkConservation(t, memberID)

	// B: fresh deposit covers the gap
	e.deposit(t, memberID, 500)
	dto, err = e.uc.TopUpCollateral(ctx, ref, 500)
	if err != nil {
		t.Fatalf("TopUpCollateral: %v", err)
	}
	if dto.Statut != string(collateral.StatutComplet) || dto.MontantRestant != 0 || dto.Shortfall != 0 {
		t.Fatalf("scenario B: %+v", dto)
	}
	e.checkConservation(t, memberID)

	// C: release before repayment is refused, balance untouched
	if _, err := e.uc.ReleaseCollateral(ctx, ref); !errors.Is(err, collateral.ErrLoanNotRepaid) {
		t.Fatalf("scenario C: got %v, want ErrLoanNotRepaid", err)
	}
	if got := e.available(t, memberID); got != 0 {
		t.Fatalf("available changed by refused release: %d", got)
	}

	// D: repayment confirmed, release succeeds exactly once
	e.markRepaid(ref)
	dto, err = e.uc.ReleaseCollateral(ctx, ref)
	if err != nil {
		t.Fatalf("ReleaseCollateral: %v", err)
	}
	if dto.Statut != string(collateral.StatutRembourse) || dto.MontantDepose != 0 {
		t.Fatalf("scenario D: %+v", dto)
	}
	if dto.DateRemboursement == nil {
		t.Fatalf("date_remboursement missing")
	}
	if got := e.available(t, memberID); got != 1500 {
		t.Fatalf("available after release = %d, want 1500", got)
	}
	e.checkConservation(t, memberID)

	if _, err := e.uc.ReleaseCollateral(ctx, ref); !errors.Is(err, collateral.ErrRecordClosed) {
		t.Fatalf("second release: got %v, want ErrRecordClosed", err)
	}
}

func TestRequireCollateral_DuplicateLoanRef(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 1000)

	if _, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 400}); err != nil {
		t.Fatalf("first require: %v", err)
	}
	_, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 400})
	if !errors.Is(err, collateral.ErrDuplicateLoanRef) {
		t.Fatalf("got %v, want ErrDuplicateLoanRef", err)
	}
}

func TestRequireCollateral_AfterCloseIsAllowed(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 500)

	if _, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 500}); err != nil {
		t.Fatalf("require: %v", err)
	}
	e.markRepaid(ref)
	if _, err := e.uc.ReleaseCollateral(ctx, ref); err != nil {
		t.Fatalf("release: %v", err)
	}

	// the terminal record is history; a new pledge for the same ref may open
	dto, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 300})
	if err != nil {
		t.Fatalf("re-require after close: %v", err)
	}
	if dto.Statut != string(collateral.StatutComplet) {
		t.Fatalf("unexpected statut: %+v", dto)
	}
}

func TestRequireCollateral_PolicyRatioFromPrincipal(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	e.deposit(t, memberID, 250000)

	// required_amount 0 → ratio (1.0) × mocked principal (200000)
	dto, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: newRef()})
	if err != nil {
		t.Fatalf("RequireCollateral: %v", err)
	}
	if dto.MontantRequis != 200000 || dto.Statut != string(collateral.StatutComplet) {
		t.Fatalf("policy amount: %+v", dto)
	}
}

func TestRequireCollateral_ZeroBalanceStillOpensRecord(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)

	dto, err := e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: newRef(), RequiredAmount: 800})
	if err != nil {
		t.Fatalf("RequireCollateral: %v", err)
	}
	if dto.Statut != string(collateral.StatutPartiel) || dto.MontantDepose != 0 || dto.Shortfall != 800 {
		t.Fatalf("empty-balance pledge: %+v", dto)
	}
	if dto.DateDepot != nil {
		t.Fatalf("date_depot stamped without funds")
	}
}

func TestTopUpCollateral_ZeroIsIdempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 300)
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 1000})

	before, err := e.uc.GetCollateralRecord(ctx, ref)
	if err != nil {
		t.Fatalf("GetCollateralRecord: %v", err)
	}
	dto, err := e.uc.TopUpCollateral(ctx, ref, 0)
	if err != nil {
		t.Fatalf("zero top-up: %v", err)
	}
	if dto.MontantDepose != before.MontantDepose || dto.Statut != before.Statut {
		t.Fatalf("zero top-up changed state: before=%+v after=%+v", before, dto)
	}
	if got := e.available(t, memberID); got != 0 {
		t.Fatalf("zero top-up moved funds: available=%d", got)
	}
}

func TestTopUpCollateral_NeverExceedsRestant(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 2000)

	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 1000})
	// requirement already complet at 1000; nothing restant
	if _, err := e.uc.TopUpCollateral(ctx, ref, 500); !errors.Is(err, collateral.ErrAlreadyComplete) {
		t.Fatalf("got %v, want ErrAlreadyComplete", err)
	}
	// funds beyond the requirement stayed available
	if got := e.available(t, memberID); got != 1000 {
		t.Fatalf("available = %d, want 1000", got)
	}
}

func TestTopUpCollateral_CapsAtRestant(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 300)
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 1000})

	e.deposit(t, memberID, 5000)
	dto, err := e.uc.TopUpCollateral(ctx, ref, 5000) // only 700 restant
	if err != nil {
		t.Fatalf("TopUpCollateral: %v", err)
	}
	if dto.MontantDepose != 1000 || dto.Statut != string(collateral.StatutComplet) {
		t.Fatalf("cap failed: %+v", dto)
	}
	if got := e.available(t, memberID); got != 4300 {
		t.Fatalf("available = %d, want 4300", got)
	}
	e.checkConservation(t, memberID)
}

func TestPartialRelease_CompletBackToPartiel(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 1000)
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 1000})

	dto, err := e.uc.PartialRelease(ctx, ref, 400, "principal renegotiated down")
	if err != nil {
		t.Fatalf("PartialRelease: %v", err)
	}
	if dto.Statut != string(collateral.StatutPartiel) || dto.MontantDepose != 600 {
		t.Fatalf("after partial release: %+v", dto)
	}
	if got := e.available(t, memberID); got != 400 {
		t.Fatalf("available = %d, want 400", got)
	}
	e.checkConservation(t, memberID)

	if _, err := e.uc.PartialRelease(ctx, ref, 601, "too much"); !errors.Is(err, collateral.ErrOverRelease) {
		t.Fatalf("over partial release: got %v", err)
	}
	if _, err := e.uc.PartialRelease(ctx, ref, 100, ""); err == nil {
		t.Fatalf("reason must be mandatory")
	}
}

func TestForceRelease(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	ref := newRef()
	e.deposit(t, memberID, 800)
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: ref, RequiredAmount: 800})

	// reason is mandatory
	if _, err := e.uc.ForceRelease(ctx, ref, ""); err == nil {
		t.Fatalf("force release without reason accepted")
	}

	// loan never repaid: normal release refuses, force release goes through
	if _, err := e.uc.ReleaseCollateral(ctx, ref); !errors.Is(err, collateral.ErrLoanNotRepaid) {
		t.Fatalf("got %v, want ErrLoanNotRepaid", err)
	}
	dto, err := e.uc.ForceRelease(ctx, ref, "defaulted, written off")
	if err != nil {
		t.Fatalf("ForceRelease: %v", err)
	}
	if dto.Statut != string(collateral.StatutRembourse) {
		t.Fatalf("after force release: %+v", dto)
	}
	if got := e.available(t, memberID); got != 800 {
		t.Fatalf("available = %d, want 800", got)
	}
}

func TestListCollateralRecords(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	e.deposit(t, memberID, 1000)

	refA, refB := newRef(), newRef()
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: refA, RequiredAmount: 400})
	e.uc.RequireCollateral(ctx, RequireCollateralInput{MemberID: memberID, Ref: refB, RequiredAmount: 2000})

	all, err := e.uc.ListCollateralRecords(ctx, collateral.Filter{MemberID: memberID})
	if err != nil {
		t.Fatalf("ListCollateralRecords: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("records = %d, want 2", len(all))
	}

	partiel, _ := e.uc.ListCollateralRecords(ctx, collateral.Filter{MemberID: memberID, Statut: collateral.StatutPartiel})
	if len(partiel) != 1 || partiel[0].LoanID != refB.ID {
		t.Fatalf("partiel filter: %+v", partiel)
	}
}

// Scenario E: two pledges racing for the same savings. The member lock
// serializes them; whatever the interleaving, the same centime is never
// blocked twice.
func TestConcurrentRequire_NoDoubleSpend(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	memberID := e.addMember(t)
	e.deposit(t, memberID, 1000)

	refs := [2]loanref.Ref{newRef(), newRef()}
	dtos := [2]*CollateralDTO{}
	errs := [2]error{}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dtos[i], errs[i] = e.uc.RequireCollateral(ctx, RequireCollateralInput{
				MemberID: memberID, Ref: refs[i], RequiredAmount: 800,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	totalBlocked := dtos[0].MontantDepose + dtos[1].MontantDepose
	totalShortfall := dtos[0].Shortfall + dtos[1].Shortfall
	if totalBlocked != 1000 {
		t.Fatalf("double spend: blocked %d of 1000", totalBlocked)
	}
	if totalShortfall != 600 {
		t.Fatalf("shortfalls = %d, want 600", totalShortfall)
	}
	if got := e.available(t, memberID); got != 0 {
		t.Fatalf("available = %d, want 0", got)
	}
	e.checkConservation(t, memberID)
}
