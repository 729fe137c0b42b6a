package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	appcatalog "github.com/botecopos/backend/internal/application/catalog"
	apppartner "github.com/botecopos/backend/internal/application/partner"
	appsales "github.com/botecopos/backend/internal/application/sales"
	"github.com/botecopos/backend/internal/domain/shared"
	"github.com/botecopos/backend/internal/infrastructure/cache"
	"github.com/botecopos/backend/internal/infrastructure/config"
	"github.com/botecopos/backend/internal/infrastructure/event"
	"github.com/botecopos/backend/internal/infrastructure/logger"
	"github.com/botecopos/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	name      string
	category  string
	salePrice float64
	costPrice float64
	quantity  int
	threshold int
}

type seedClient struct {
	name     string
	nickname string
	phone    string
}

var demoProducts = []seedProduct{
	{"Skol Lata 350ml", "beer", 5.00, 2.80, 48, 12},
	{"Brahma Lata 350ml", "beer", 5.00, 2.90, 36, 12},
	{"Coca-Cola 600ml", "soft_drink", 7.00, 4.20, 24, 6},
	{"Coxinha", "food", 4.50, 1.80, 30, 10},
	{"Pastel de Queijo", "food", 5.50, 2.20, 20, 8},
	{"Amendoim Torrado", "snacks", 3.00, 1.20, 15, 5},
}

var demoClients = []seedClient{
	{"Maria Aparecida", "Cida", "11 98888-1111"},
	{"Jorge Santos", "Jorjao", "11 97777-2222"},
	{"Antonia Lima", "", ""},
}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewLowStockAlertHandler(log))

	saleRepo := persistence.NewGormSaleRepository(db.DB)
	productService := appcatalog.NewProductService(persistence.NewGormProductRepository(db.DB))
	productService.SetEventPublisher(bus)
	productService.SetSaleReferenceCounter(saleRepo)
	clientService := apppartner.NewClientService(persistence.NewGormClientRepository(db.DB))
	clientService.SetEventPublisher(bus)
	clientService.SetSaleCounter(saleRepo)

	saleService := appsales.NewSaleService(persistence.NewGormTransactionScope(db.DB))
	saleService.SetEventPublisher(bus)
	store := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateInMemoryStore()
	defer store.Close()
	saleService.SetIdempotencyStore(store, shared.IdempotencyConfig{
		Enabled: cfg.Idempotency.Enabled,
		TTL:     cfg.Idempotency.TTL,
	})

	ctx := context.Background()

	products := make([]*appcatalog.ProductResponse, 0, len(demoProducts))
	for _, p := range demoProducts {
		created, err := productService.Create(ctx, appcatalog.CreateProductRequest{
			Name:              p.name,
			Category:          p.category,
			SalePrice:         decimal.NewFromFloat(p.salePrice),
			CostPrice:         decimal.NewFromFloat(p.costPrice),
			InitialQuantity:   p.quantity,
			LowStockThreshold: p.threshold,
		})
		if err != nil {
			log.Fatal("Failed to seed product", zap.String("name", p.name), zap.Error(err))
		}
		products = append(products, created)
		log.Info("Seeded product",
			zap.String("name", created.Name),
			zap.Int("quantity", p.quantity),
		)
	}

	clients := make([]*apppartner.ClientResponse, 0, len(demoClients))
	for _, c := range demoClients {
		created, err := clientService.Create(ctx, apppartner.CreateClientRequest{
			Name:     c.name,
			Nickname: c.nickname,
			Phone:    c.phone,
		})
		if err != nil {
			log.Fatal("Failed to seed client", zap.String("name", c.name), zap.Error(err))
		}
		clients = append(clients, created)
		log.Info("Seeded client", zap.String("name", created.Name))
	}

	// Walk one sale through its whole lifecycle so a fresh database has
	// realistic data in every table
	client := clients[0]
	beer := products[0]
	snack := products[3]

	sale, err := saleService.Create(ctx, appsales.CreateSaleRequest{ClientID: &client.ID})
	if err != nil {
		log.Fatal("Failed to open sale", zap.Error(err))
	}
	log.Info("Opened sale", zap.String("sale_id", sale.ID.String()), zap.String("client", client.Name))

	sale, err = saleService.AddItem(ctx, sale.ID, appsales.AddItemRequest{ProductID: beer.ID, Quantity: 3})
	if err != nil {
		log.Fatal("Failed to add item", zap.Error(err))
	}
	sale, err = saleService.AddItem(ctx, sale.ID, appsales.AddItemRequest{ProductID: snack.ID, Quantity: 2})
	if err != nil {
		log.Fatal("Failed to add item", zap.Error(err))
	}
	log.Info("Added items", zap.String("total", sale.Total.String()))

	sale, err = saleService.ApplyPayment(ctx, sale.ID, appsales.ApplyPaymentRequest{
		Amount: decimal.NewFromFloat(10.00),
		Method: "cash",
	})
	if err != nil {
		log.Fatal("Failed to apply payment", zap.Error(err))
	}
	log.Info("Applied partial payment",
		zap.String("status", sale.Status),
		zap.String("balance", sale.Balance.String()),
	)

	sale, err = saleService.ApplyPayment(ctx, sale.ID, appsales.ApplyPaymentRequest{
		Amount: sale.Balance,
		Method: "pix",
	})
	if err != nil {
		log.Fatal("Failed to settle sale", zap.Error(err))
	}
	log.Info("Settled sale", zap.String("status", sale.Status))

	// Leave a second sale open on the tab so the debt ranking has data
	tab, err := saleService.Create(ctx, appsales.CreateSaleRequest{ClientID: &clients[1].ID})
	if err != nil {
		log.Fatal("Failed to open tab", zap.Error(err))
	}
	tab, err = saleService.AddItem(ctx, tab.ID, appsales.AddItemRequest{ProductID: products[2].ID, Quantity: 2})
	if err != nil {
		log.Fatal("Failed to add item to tab", zap.Error(err))
	}
	log.Info("Left tab open",
		zap.String("client", clients[1].Name),
		zap.String("balance", tab.Balance.String()),
	)

	log.Info("Seed completed",
		zap.Int("products", len(products)),
		zap.Int("clients", len(clients)),
	)
}
