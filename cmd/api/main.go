package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lakay-collateral/internal/adapter/http"
	idemp "lakay-collateral/internal/adapter/middleware"
	"lakay-collateral/internal/adapter/repository/mysql"
	"lakay-collateral/internal/config"
	"lakay-collateral/internal/infrastructure/cache"
	"lakay-collateral/internal/infrastructure/db"
	"lakay-collateral/internal/usecase/escrow"
	"lakay-collateral/internal/usecase/ledger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	members := mysql.NewMemberRepository(gdb)
	txns := mysql.NewSavingsRepository(gdb)
	records := mysql.NewCollateralRepository(gdb)
	loans := mysql.NewLoanSource(gdb)
	guow := mysql.NewGormUoW(gdb)

	ledgerUC := ledger.NewUsecase(guow, members, txns)
	escrowUC := escrow.NewUsecase(guow, records, loans, cfg.CollateralRatio)

	h := httpadp.NewHandler()
	lh := httpadp.NewLedgerHandler(ledgerUC)
	eh := httpadp.NewEscrowHandler(escrowUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()

	// routes
	e.GET("/health", h.Health)

	guard := idemp.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	m := e.Group("/members")
	m.POST("", lh.RegisterMember, guard)
	m.POST("/:member_id/deposits", lh.Deposit, guard)
	m.POST("/:member_id/withdrawals", lh.Withdraw, guard)
	m.GET("/:member_id/balance", lh.Balance)
	m.GET("/:member_id/transactions", lh.Transactions)

	col := e.Group("/collateral")
	col.POST("/require", eh.RequireCollateral, guard)
	col.POST("/:loan_kind/:loan_id/topup", eh.TopUpCollateral, guard)
	col.POST("/:loan_kind/:loan_id/release", eh.ReleaseCollateral, guard)
	col.POST("/:loan_kind/:loan_id/force-release", eh.ForceRelease, guard)
	col.POST("/:loan_kind/:loan_id/partial-release", eh.PartialRelease, guard)
	col.GET("/:loan_kind/:loan_id", eh.GetCollateral)
	col.GET("", eh.ListCollateral)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
