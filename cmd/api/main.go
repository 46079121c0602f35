package main

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/sarkartanmay393/aanandini-ecom/internal/config"
	"github.com/sarkartanmay393/aanandini-ecom/internal/domain/model"
	"github.com/sarkartanmay393/aanandini-ecom/internal/handler"
	"github.com/sarkartanmay393/aanandini-ecom/internal/infra/db"
	infraRepo "github.com/sarkartanmay393/aanandini-ecom/internal/infra/repository"
	"github.com/sarkartanmay393/aanandini-ecom/internal/notification"
	"github.com/sarkartanmay393/aanandini-ecom/internal/server"
	"github.com/sarkartanmay393/aanandini-ecom/internal/usecase"
)

// ULID payment references: sortable by settlement time, not guessable.
type ulidPaymentIDs struct{}

func (ulidPaymentIDs) NewPaymentID() string {
	return "pay_" + ulid.Make().String()
}

func gatewayDraw() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0
	}
	return float64(n.Int64()) / (1 << 53)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.GoEnv == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Otp{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.WishlistItem{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	otpRepo := infraRepo.NewOtpGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	statsRepo := infraRepo.NewStatsGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	sender := notification.NewLogSender(log)

	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, otpRepo, sender)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, inventoryRepo, auditRepo)
	orderUC := usecase.NewOrderUsecase(txManager, ulidPaymentIDs{}, gatewayDraw)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, userRepo, statsRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)

	e := server.New(cfg, log, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Address:      handler.NewAddressHandler(addressUC),
		Category:     handler.NewCategoryHandler(categoryUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
	})

	e.Server.ReadHeaderTimeout = 10 * time.Second

	log.Info("listening", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
