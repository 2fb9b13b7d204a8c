package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dumu-tech/duka-pos/internal/adapters/http"
	"github.com/dumu-tech/duka-pos/internal/adapters/postgres"
	redisRepo "github.com/dumu-tech/duka-pos/internal/adapters/redis"
	"github.com/dumu-tech/duka-pos/internal/config"
	"github.com/dumu-tech/duka-pos/internal/core"
	"github.com/dumu-tech/duka-pos/internal/events"
	"github.com/dumu-tech/duka-pos/internal/middleware"
	"github.com/dumu-tech/duka-pos/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	if cfg.RedisPassword != "" {
		redisOpts.Password = cfg.RedisPassword
	}

	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Ping Redis to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connection established")

	// Connect to PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer dbpool.Close()

	// Ping PostgreSQL to verify connection
	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("PostgreSQL connection established")

	// Initialize repositories using GORM
	repo, err := postgres.NewRepository(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to initialize postgres repository: %v", err)
	}

	// Tender assignments live in Redis
	assignmentRepo := redisRepo.NewRepository(rdb)

	reportLocation, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using UTC", cfg.Timezone)
		reportLocation = time.UTC
	}

	// Event bus for SSE
	eventBus := events.NewEventBus()

	// Initialize services
	tillService := service.NewTillService(
		repo.TillRepository(), repo.StaffRepository(), eventBus,
		cfg.StoreID, cfg.TillSingleOpenPolicy)
	ledgerService := service.NewLedgerService(
		repo.TransactionRepository(), repo.TenderRepository(), eventBus)
	reconciliationService := service.NewReconciliationService(
		repo.OrderRepository(), repo.TransactionRepository(), eventBus)
	tenderService := service.NewTenderService(repo.TenderRepository(), assignmentRepo)
	orderService := service.NewOrderService(repo.OrderRepository())
	authService := service.NewAuthService(repo.StaffRepository(), cfg.JWTSecret)
	backofficeService := service.NewBackofficeService(
		repo.CustomerRepository(), repo.ExpenseRepository())

	// Initialize HTTP Handler
	handler := http.NewHandler(
		tillService,
		ledgerService,
		reconciliationService,
		tenderService,
		orderService,
		authService,
		backofficeService,
		eventBus,
		reportLocation,
	)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Duka POS API",
		ServerHeader: "Fiber",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", handler.Health)

	// Auth
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/logout", handler.Logout)

	// All back office routes require a staff token
	api := app.Group("/api", middleware.AuthMiddleware(authService))

	// Tills
	api.Post("/tills", handler.OpenTill)
	api.Get("/tills/:id", handler.GetTill)
	api.Patch("/tills/:id/close", handler.CloseTill)
	api.Patch("/tills/:id/suspend", handler.SuspendTill)
	api.Patch("/tills/:id/resume", handler.ResumeTill)

	// Transactions
	api.Post("/transactions", handler.CreateTransaction)
	api.Post("/transactions/from-order", handler.ReconcileOrder)
	api.Get("/transactions", handler.ListTransactions)
	api.Get("/transactions/:id", handler.GetTransaction)
	api.Patch("/transactions/:id", handler.UpdateTransaction)

	// Tenders and device button layouts
	api.Post("/tenders", middleware.RequireRoles(core.StaffRoleAdmin, core.StaffRoleManager), handler.CreateTender)
	api.Get("/tenders", handler.ListTenders)
	api.Get("/devices/:id/tenders", handler.GetDeviceTenders)
	api.Put("/devices/:id/tenders", handler.SetDeviceTenders)

	// Orders
	api.Post("/orders", handler.CreateOrder)
	api.Get("/orders", handler.ListOrders)
	api.Get("/orders/:id", handler.GetOrder)
	api.Patch("/orders/:id/fulfillment", handler.UpdateOrderFulfillment)
	api.Patch("/orders/:id/paid", handler.MarkOrderPaid)

	// Staff management is admin/manager only
	api.Post("/staff", middleware.RequireRoles(core.StaffRoleAdmin, core.StaffRoleManager), handler.CreateStaff)
	api.Get("/staff", handler.ListStaff)
	api.Get("/staff/:id", handler.GetStaff)

	// Customers
	api.Post("/customers", handler.CreateCustomer)
	api.Get("/customers", handler.ListCustomers)
	api.Get("/customers/:id", handler.GetCustomer)
	api.Delete("/customers/:id", handler.DeleteCustomer)

	// Expenses
	api.Post("/expenses", handler.CreateExpense)
	api.Get("/expenses", handler.ListExpenses)
	api.Delete("/expenses/:id", handler.DeleteExpense)
	api.Get("/reports/expenses.pdf", middleware.RequireRoles(core.StaffRoleAdmin, core.StaffRoleManager), handler.ExpenseReportPDF)

	// Real-time dashboard events
	api.Get("/events", handler.SSEEvents)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.AppPort)
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
