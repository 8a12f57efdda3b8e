package main

import (
	"context"
	"log"

	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/config"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/database"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/repository"
	"github.com/QuocHuyGIT103/SkillBridgeBack/internal/services"
)

// Settles sessions whose attendance window has fully elapsed: completed
// when both parties attended, missed otherwise. Run periodically (cron)
// against the same store the API serves from.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl, cfg.DBMaxConns, cfg.DBMinConns); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	classRepo := repository.NewClassRepository(database.DB)
	sessionRepo := repository.NewSessionRepository(database.DB)
	cancellationRepo := repository.NewCancellationRepository(database.DB)
	assignmentRepo := repository.NewAssignmentRepository(database.DB)

	sessionService := services.NewSessionService(classRepo, sessionRepo, cancellationRepo, assignmentRepo)

	settled, err := sessionService.ReconcileElapsed(context.Background(), cfg.ReconcileBatchSize)
	if err != nil {
		log.Fatalf("Reconciliation failed after settling %d sessions: %v", settled, err)
	}
	log.Printf("Reconciliation complete, settled %d sessions", settled)
}
