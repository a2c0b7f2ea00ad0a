package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mroshb/value_matcher/internal/catalog"
	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/database"
	"github.com/mroshb/value_matcher/internal/repositories"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/pkg/logger"
)

func main() {
	path := flag.String("file", "", "path to the .xlsx catalog")
	creator := flag.Uint("creator", 0, "user ID recorded as creator of every imported row")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	if *path == "" || *creator == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv == "development")
	defer logger.Sync()

	f, err := catalog.Open(*path)
	if err != nil {
		logger.Fatal("Failed to open catalog", err)
	}
	defer f.Close()

	cat, err := catalog.Read(f)
	if err != nil {
		logger.Fatal("Failed to read catalog", err)
	}
	for _, p := range cat.Problems {
		fmt.Printf("Skipping %s\n", p.Error())
	}
	fmt.Printf("Parsed %d communities and %d events.\n", len(cat.Communities), len(cat.Events))

	if *dryRun {
		return
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx := context.Background()
	users := repositories.NewUserRepository(db)
	if _, err := users.GetUserByID(ctx, *creator); err != nil {
		logger.Fatal("Creator not found", err)
	}

	actions := repositories.NewActionRepository(db)
	importer := catalog.NewImporter(
		services.NewCommunityService(repositories.NewCommunityRepository(db), actions),
		services.NewEventService(repositories.NewEventRepository(db), actions),
	)

	sum, err := importer.Import(ctx, cat, *creator)
	if err != nil {
		logger.Fatal("Import aborted", err)
	}
	fmt.Printf("Imported %d communities and %d events (%d failed).\n", sum.Communities, sum.Events, sum.Failed)
}
