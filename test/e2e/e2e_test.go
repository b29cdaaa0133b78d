// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equityai-workers/internal/common/camunda"
	"equityai-workers/internal/common/config"
	"equityai-workers/internal/common/database"
	"equityai-workers/internal/common/logger"

	createcompany "equityai-workers/internal/workers/company/create-company"
	getdashboardstats "equityai-workers/internal/workers/dashboard/get-dashboard-stats"
	expressinterest "equityai-workers/internal/workers/interest/express-interest"
	upsertinvestorprofile "equityai-workers/internal/workers/investor/upsert-investor-profile"
	getofferingmatches "equityai-workers/internal/workers/matching/get-offering-matches"
	createoffering "equityai-workers/internal/workers/offering/create-offering"
	reviewoffering "equityai-workers/internal/workers/offering/review-offering"
)

// loadInfra connects to the local service stack, skipping the suite when any
// dependency is unavailable.
func loadInfra(t *testing.T) (*config.Config, *database.PostgresClient, *database.RedisClient) {
	cfg, err := config.Load()
	if err != nil {
		t.Skipf("Skipping e2e: config load failed: %v", err)
	}

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil || pg.Ping(context.Background()) != nil {
		t.Skipf("Skipping e2e: PostgreSQL unavailable: %v", err)
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil || rdb.Ping(context.Background()) != nil {
		t.Skipf("Skipping e2e: Redis unavailable: %v", err)
	}

	return cfg, pg, rdb
}

func createTables(t *testing.T, pg *database.PostgresClient) {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			display_name VARCHAR(255),
			avatar_url TEXT,
			role VARCHAR(50) NOT NULL,
			created_at VARCHAR(50),
			updated_at VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS companies (
			id VARCHAR(255) PRIMARY KEY,
			founder_id VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			sector VARCHAR(100) NOT NULL,
			stage VARCHAR(50) NOT NULL,
			website TEXT,
			logo_url TEXT,
			founded_year INTEGER,
			team_size INTEGER,
			location VARCHAR(255),
			created_at VARCHAR(50),
			updated_at VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS offerings (
			id VARCHAR(255) PRIMARY KEY,
			company_id VARCHAR(255) REFERENCES companies(id),
			title VARCHAR(255) NOT NULL,
			description TEXT,
			offering_type VARCHAR(50),
			target_raise BIGINT,
			minimum_investment BIGINT,
			valuation_cap BIGINT,
			equity_percentage DOUBLE PRECISION,
			status VARCHAR(50),
			deadline VARCHAR(50),
			highlights JSONB,
			risks JSONB,
			use_of_funds JSONB,
			created_at VARCHAR(50),
			updated_at VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS interests (
			id VARCHAR(255) PRIMARY KEY,
			offering_id VARCHAR(255) REFERENCES offerings(id),
			investor_id VARCHAR(255) NOT NULL,
			amount BIGINT,
			message TEXT,
			status VARCHAR(50),
			created_at VARCHAR(50),
			updated_at VARCHAR(50),
			UNIQUE (offering_id, investor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS investor_profiles (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) UNIQUE NOT NULL,
			accredited BOOLEAN DEFAULT FALSE,
			investment_min BIGINT,
			investment_max BIGINT,
			sectors_of_interest JSONB,
			stages_of_interest JSONB,
			portfolio_size INTEGER DEFAULT 0,
			created_at VARCHAR(50),
			updated_at VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS saved_offerings (
			investor_id VARCHAR(255) NOT NULL,
			offering_id VARCHAR(255) NOT NULL,
			created_at VARCHAR(50),
			PRIMARY KEY (investor_id, offering_id)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_log (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			action VARCHAR(100) NOT NULL,
			entity_type VARCHAR(50),
			entity_id VARCHAR(255),
			metadata JSONB,
			created_at VARCHAR(50)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			type VARCHAR(100),
			title VARCHAR(255),
			body TEXT,
			read BOOLEAN DEFAULT FALSE,
			metadata JSONB,
			created_at VARCHAR(50)
		)`,
	}

	for _, q := range queries {
		_, err := pg.DB.Exec(q)
		require.NoError(t, err)
	}
}

func cleanTables(t *testing.T, pg *database.PostgresClient) {
	for _, table := range []string{
		"activity_log", "notifications", "saved_offerings", "interests",
		"investor_profiles", "offerings", "companies", "profiles",
	} {
		_, err := pg.DB.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

// TestMarketplaceFlow walks the core founder/investor journey against real
// PostgreSQL and Redis: company creation, offering lifecycle, preference
// upsert, matching and interest expression.
func TestMarketplaceFlow(t *testing.T) {
	_, pg, rdb := loadInfra(t)
	defer pg.Close()
	defer rdb.Close()

	createTables(t, pg)
	cleanTables(t, pg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log := logger.NewTestLogger(t)

	// 1. Founder creates a company.
	ccHandler := createcompany.NewHandler(&createcompany.Config{Timeout: 10 * time.Second}, pg.DB, log)
	ccOut, err := ccHandler.Execute(ctx, &createcompany.Input{
		UserID: "founder-e2e",
		Role:   "founder",
		Name:   "Orbital Farms",
		Sector: "agtech",
		Stage:  "seed",
	})
	require.NoError(t, err)
	require.NotEmpty(t, ccOut.CompanyID)

	// 2. Founder creates a draft offering.
	coHandler := createoffering.NewHandler(&createoffering.Config{Timeout: 10 * time.Second}, pg.DB, log)
	coOut, err := coHandler.Execute(ctx, &createoffering.Input{
		UserID:            "founder-e2e",
		Title:             "Orbital Farms Seed Round",
		Description:       "Vertical farming automation",
		OfferingType:      "safe",
		TargetRaise:       200000000,
		MinimumInvestment: 2500000,
	})
	require.NoError(t, err)
	require.NotNil(t, coOut.Data)
	offeringID := coOut.Data.ID

	// 3. Admin approves it.
	roHandler := reviewoffering.NewHandler(&reviewoffering.Config{Timeout: 10 * time.Second}, pg.DB, nil, log)
	roOut, err := roHandler.Execute(ctx, &reviewoffering.Input{
		UserID:     "admin-e2e",
		Role:       "admin",
		OfferingID: offeringID,
		Status:     "live",
	})
	require.NoError(t, err)
	assert.Equal(t, "offering_approved", roOut.Action)

	// 4. Investor states preferences.
	uipHandler := upsertinvestorprofile.NewHandler(
		&upsertinvestorprofile.Config{Timeout: 10 * time.Second}, pg.DB, rdb.Client, log)
	accredited := true
	min := int64(1000000)
	max := int64(50000000)
	_, err = uipHandler.Execute(ctx, &upsertinvestorprofile.Input{
		UserID:            "investor-e2e",
		Action:            "upsert",
		Accredited:        &accredited,
		InvestmentMin:     &min,
		InvestmentMax:     &max,
		SectorsOfInterest: []string{"agtech"},
		StagesOfInterest:  []string{"seed"},
	})
	require.NoError(t, err)

	// 5. Matching surfaces the live offering with sector, stage and size reasons.
	gomHandler := getofferingmatches.NewHandler(
		&getofferingmatches.Config{CacheTTL: time.Minute, MaxResults: 50, Timeout: 10 * time.Second},
		pg.DB, rdb.Client, log)
	gomOut, err := gomHandler.Execute(ctx, &getofferingmatches.Input{UserID: "investor-e2e"})
	require.NoError(t, err)
	assert.True(t, gomOut.HasPreferences)
	require.Equal(t, 1, gomOut.Total)
	match := gomOut.Data[0]
	assert.Equal(t, offeringID, match.ID)
	assert.GreaterOrEqual(t, match.MatchScore, 90)
	assert.Contains(t, match.MatchReasons, "Matches your interest in agtech")
	assert.Contains(t, match.MatchReasons, "seed stage matches your preference")

	// 6. Investor expresses interest; the offering disappears from the feed.
	eiHandler := expressinterest.NewHandler(&expressinterest.Config{Timeout: 10 * time.Second}, pg.DB, log)
	amount := int64(5000000)
	eiOut, err := eiHandler.Execute(ctx, &expressinterest.Input{
		UserID:     "investor-e2e",
		Role:       "investor",
		OfferingID: offeringID,
		Amount:     &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", eiOut.Status)

	gomOut, err = gomHandler.Execute(ctx, &getofferingmatches.Input{UserID: "investor-e2e"})
	require.NoError(t, err)
	assert.Equal(t, 0, gomOut.Total)

	// 7. Dashboards reflect the activity.
	gdsHandler := getdashboardstats.NewHandler(&getdashboardstats.Config{Timeout: 10 * time.Second}, pg.DB, log)
	founderStats, err := gdsHandler.Execute(ctx, &getdashboardstats.Input{
		UserID: "founder-e2e",
		Role:   "founder",
	})
	require.NoError(t, err)
	require.NotNil(t, founderStats.Founder)
	assert.True(t, founderStats.Founder.HasCompany)
	assert.Equal(t, 1, founderStats.Founder.TotalInterests)
	assert.Equal(t, 1, founderStats.Founder.PendingInterests)
}

// TestZeebeConnectivity verifies the broker is reachable when running the
// full stack.
func TestZeebeConnectivity(t *testing.T) {
	client, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
	})
	if err != nil {
		t.Skipf("Skipping: Zeebe broker unreachable: %v", err)
	}
	defer client.Close()

	require.NoError(t, client.HealthCheck(context.Background()))
}
