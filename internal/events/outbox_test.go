package events

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestOutbox(t *testing.T, name string) (*Outbox, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&BoostEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewOutbox(db, node), db
}

func TestPublishDeduplicates(t *testing.T) {
	outbox, db := newTestOutbox(t, "outbox_dedupe")
	ctx := context.Background()

	event := Event{
		Type:      TypeBoostRefunded,
		SessionID: 7,
		Payload:   map[string]any{"bid_amount": int64(30)},
		DedupeKey: "7:1700000000:boost.refunded",
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("replayed publish: %v", err)
	}

	var count int64
	if err := db.Model(&BoostEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one event, got %d", count)
	}

	var stored BoostEvent
	if err := db.First(&stored, "dedupe_key = ?", event.DedupeKey).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if stored.EventType != TypeBoostRefunded || stored.Published {
		t.Fatalf("stored event = %+v", stored)
	}
}

func TestPublishValidation(t *testing.T) {
	outbox, _ := newTestOutbox(t, "outbox_validate")
	ctx := context.Background()

	if err := outbox.Publish(ctx, Event{Type: TypeBoostActivated, DedupeKey: "k"}); err == nil {
		t.Fatalf("expected error for missing session id")
	}
	if err := outbox.Publish(ctx, Event{SessionID: 7, DedupeKey: "k"}); err == nil {
		t.Fatalf("expected error for missing event type")
	}
	if err := outbox.Publish(ctx, Event{Type: TypeBoostActivated, SessionID: 7}); err == nil {
		t.Fatalf("expected error for missing dedupe key")
	}
}

func TestPublishTxRequiresTransaction(t *testing.T) {
	outbox, db := newTestOutbox(t, "outbox_tx")
	ctx := context.Background()

	if err := outbox.PublishTx(ctx, nil, Event{Type: TypeBoostActivated, SessionID: 7, DedupeKey: "k"}); err == nil {
		t.Fatalf("expected error for nil transaction")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(ctx, tx, Event{Type: TypeBoostActivated, SessionID: 7, DedupeKey: "tx-key"})
	})
	if err != nil {
		t.Fatalf("publish in tx: %v", err)
	}

	var count int64
	if err := db.Model(&BoostEvent{}).Where("dedupe_key = ?", "tx-key").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed event, got %d", count)
	}
}
