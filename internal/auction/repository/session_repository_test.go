package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	"github.com/smallbiznis/spotlight/internal/migration"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migration.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSession(t *testing.T, db *gorm.DB, node *snowflake.Node, windowStart time.Time, status auctiondomain.SessionStatus) snowflake.ID {
	t.Helper()
	sess := auctiondomain.BoostSession{
		ID:                 node.Generate(),
		Locale:             "en",
		Placement:          "spotlight",
		UserID:             node.Generate(),
		BidAmountCredits:   25,
		AuctionWindowStart: windowStart,
		Status:             status,
		CreatedAt:          windowStart.Add(time.Minute),
		UpdatedAt:          windowStart.Add(time.Minute),
	}
	if err := db.Create(&sess).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return sess.ID
}

func TestActivateTransitionsOnce(t *testing.T) {
	db := openTestDB(t, "repo_activate")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	id := seedSession(t, db, node, windowStart, auctiondomain.SessionStatusPending)

	startsAt := windowStart.Add(15 * time.Minute)
	endsAt := startsAt.Add(2 * time.Hour)
	now := startsAt.Add(time.Minute)

	ok, err := repo.Activate(ctx, db, id, windowStart, startsAt, endsAt, now)
	if err != nil || !ok {
		t.Fatalf("first activate: ok=%v err=%v", ok, err)
	}

	ok, err = repo.Activate(ctx, db, id, windowStart, startsAt, endsAt, now)
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if ok {
		t.Fatalf("second activate must lose the conditional write")
	}
}

func TestRefundRequiresPendingStatus(t *testing.T) {
	db := openTestDB(t, "repo_refund")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	id := seedSession(t, db, node, windowStart, auctiondomain.SessionStatusActive)

	ok, err := repo.Refund(ctx, db, id, windowStart, windowStart.Add(16*time.Minute))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if ok {
		t.Fatalf("refund must not touch a non-pending session")
	}
}

func TestRefundRequiresMatchingWindow(t *testing.T) {
	db := openTestDB(t, "repo_refund_window")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	id := seedSession(t, db, node, windowStart, auctiondomain.SessionStatusPending)

	otherWindow := windowStart.Add(15 * time.Minute)
	ok, err := repo.Refund(ctx, db, id, otherWindow, otherWindow.Add(time.Minute))
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if ok {
		t.Fatalf("refund must not touch a session tagged with another window")
	}
}

func TestRolloverMovesWindowAndCounts(t *testing.T) {
	db := openTestDB(t, "repo_rollover")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	nextWindow := windowStart.Add(15 * time.Minute)
	id := seedSession(t, db, node, windowStart, auctiondomain.SessionStatusPending)

	ok, err := repo.Rollover(ctx, db, id, windowStart, nextWindow, nextWindow.Add(time.Minute))
	if err != nil || !ok {
		t.Fatalf("rollover: ok=%v err=%v", ok, err)
	}

	var sess auctiondomain.BoostSession
	if err := db.First(&sess, "id = ?", id).Error; err != nil {
		t.Fatalf("load session: %v", err)
	}
	if sess.Status != auctiondomain.SessionStatusPending {
		t.Fatalf("rollover changed status to %s", sess.Status)
	}
	if !sess.AuctionWindowStart.Equal(nextWindow) {
		t.Fatalf("window = %v, want %v", sess.AuctionWindowStart, nextWindow)
	}
	if sess.RolloverCount != 1 {
		t.Fatalf("rollover count = %d", sess.RolloverCount)
	}

	// The old window no longer matches, so replaying the same rollover is a
	// no-op.
	ok, err = repo.Rollover(ctx, db, id, windowStart, nextWindow, nextWindow.Add(time.Minute))
	if err != nil {
		t.Fatalf("replayed rollover: %v", err)
	}
	if ok {
		t.Fatalf("replayed rollover must lose the conditional write")
	}
}

func TestCountActivePerWindow(t *testing.T) {
	db := openTestDB(t, "repo_count_active")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	seedSession(t, db, node, windowStart, auctiondomain.SessionStatusActive)
	seedSession(t, db, node, windowStart, auctiondomain.SessionStatusPending)
	seedSession(t, db, node, windowStart, auctiondomain.SessionStatusRefunded)
	seedSession(t, db, node, windowStart.Add(15*time.Minute), auctiondomain.SessionStatusActive)

	count, err := repo.CountActive(ctx, db, "en", "spotlight", windowStart)
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active session in window, got %d", count)
	}
}

func TestListByWindowFiltersStatus(t *testing.T) {
	db := openTestDB(t, "repo_list")
	node, _ := snowflake.NewNode(1)
	repo := Provide()
	ctx := context.Background()

	windowStart := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	seedSession(t, db, node, windowStart, auctiondomain.SessionStatusPending)
	seedSession(t, db, node, windowStart, auctiondomain.SessionStatusRefunded)
	seedSession(t, db, node, windowStart.Add(15*time.Minute), auctiondomain.SessionStatusPending)

	pending, err := repo.FindPending(ctx, db, "en", "spotlight", windowStart)
	if err != nil {
		t.Fatalf("find pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending session, got %d", len(pending))
	}

	all, err := repo.ListByWindow(ctx, db, "en", "spotlight", windowStart, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions in window, got %d", len(all))
	}
}
