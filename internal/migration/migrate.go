// Package migration keeps the schema in step with the domain models.
package migration

import (
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	auditdomain "github.com/smallbiznis/spotlight/internal/audit/domain"
	"github.com/smallbiznis/spotlight/internal/events"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	walletdomain "github.com/smallbiznis/spotlight/internal/wallet/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the schema for every table this service owns.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&settingsdomain.AuctionSettings{},
		&auctiondomain.BoostSession{},
		&walletdomain.WalletEntry{},
		&events.BoostEvent{},
		&auditdomain.AuditLog{},
	)
}
