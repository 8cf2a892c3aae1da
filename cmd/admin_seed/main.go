// Package main seeds a demo tenant: one company, two profiles, two users,
// suppliers, gift cards and a handful of transactions. All writes go
// through the same services the API uses, so seeded balances obey the
// ledger invariants. Intended for the postgres backend; seeding the
// in-memory store only lasts for the lifetime of this process.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"cardvault/internal/config"
	"cardvault/internal/repositories"
	"cardvault/internal/repositories/memory"
	"cardvault/internal/repositories/postgres"
	"cardvault/internal/services/auth"
	"cardvault/internal/services/giftcard"
	"cardvault/internal/services/ledger"
	"cardvault/internal/services/supplier"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	var store repositories.Store
	if cfg.StorageBackend == config.StoragePostgres {
		pg, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open postgres store")
		}
		store = pg
	} else {
		logger.Warn().Msg("seeding the in-memory store; data is lost on exit")
		store = memory.NewStore()
	}

	ctx := context.Background()
	authService := auth.NewService(store, cfg.JWTSecret)
	supplierService := supplier.NewService(store)
	cardService := giftcard.NewService(store, nil, logger)
	ledgerService := ledger.NewService(store, nil, logger)

	company, err := authService.CreateCompany(ctx, "Demo Compras Ltda", "contato@demo.example")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create company")
	}

	adminProfile, err := authService.CreateProfile(ctx, company.ID, "Administrador", []string{"*"})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin profile")
	}
	operatorProfile, err := authService.CreateProfile(ctx, company.ID, "Operador", []string{
		"transactions.create", "transactions.update",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create operator profile")
	}

	admin, err := authService.Register(ctx, auth.RegisterInput{
		Username:  "admin",
		Email:     "admin@demo.example",
		Password:  "admin123",
		Role:      "admin",
		ProfileID: adminProfile.ID,
		CompanyID: company.ID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin user")
	}
	if _, err := authService.Register(ctx, auth.RegisterInput{
		Username:  "operador",
		Email:     "operador@demo.example",
		Password:  "operador123",
		ProfileID: operatorProfile.ID,
		CompanyID: company.ID,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create operator user")
	}

	amazon, err := supplierService.CreateSupplier(ctx, supplier.CreateSupplierInput{
		Name:      "Amazon",
		Website:   "https://www.amazon.com.br",
		UserID:    admin.ID,
		CompanyID: company.ID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create supplier")
	}
	ifood, err := supplierService.CreateSupplier(ctx, supplier.CreateSupplierInput{
		Name:      "iFood",
		Website:   "https://www.ifood.com.br",
		UserID:    admin.ID,
		CompanyID: company.ID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create supplier")
	}

	expiry := time.Now().AddDate(1, 0, 0)
	paid := 92.5
	cardA, err := cardService.CreateGiftCard(ctx, giftcard.CreateGiftCardInput{
		Code:           "AMZ-0001",
		InitialValue:   100,
		SupplierID:     amazon.ID,
		UserID:         admin.ID,
		CompanyID:      company.ID,
		ExpirationDate: &expiry,
		PaidValue:      &paid,
		OrderReference: "OC-2024-001",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gift card")
	}
	cardB, err := cardService.CreateGiftCard(ctx, giftcard.CreateGiftCardInput{
		Code:         "AMZ-0002",
		InitialValue: 200,
		SupplierID:   amazon.ID,
		UserID:       admin.ID,
		CompanyID:    company.ID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gift card")
	}
	if _, err := cardService.CreateGiftCard(ctx, giftcard.CreateGiftCardInput{
		Code:         "IFD-0001",
		InitialValue: 50,
		SupplierID:   ifood.ID,
		UserID:       admin.ID,
		CompanyID:    company.ID,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create gift card")
	}

	if _, err := ledgerService.CreateTransaction(ctx, ledger.CreateTransactionInput{
		GiftCardID:  cardA.ID,
		Amount:      40,
		Description: "Compra de material de escritório",
		Status:      "completed",
		UserID:      admin.ID,
		CompanyID:   company.ID,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create transaction")
	}
	if _, err := ledgerService.CreateTransaction(ctx, ledger.CreateTransactionInput{
		GiftCardIDs: joinIDs(cardA.ID, cardB.ID),
		Amount:      60,
		Description: "Compra dividida entre cartões",
		Status:      "completed",
		UserID:      admin.ID,
		CompanyID:   company.ID,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create transaction")
	}

	logger.Info().Uint("companyId", company.ID).Msg("demo data seeded")
}

func joinIDs(a, b uint) string {
	return strconv.FormatUint(uint64(a), 10) + "," + strconv.FormatUint(uint64(b), 10)
}
