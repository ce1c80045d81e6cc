package bootstrap

import (
	"log"
	"time"

	"ai-autoparts-be/internal/config"
	"ai-autoparts-be/internal/constant"
	"ai-autoparts-be/internal/controller"
	"ai-autoparts-be/internal/pkg/logger"
	"ai-autoparts-be/internal/repository/implementation"
	"ai-autoparts-be/internal/service"
	"ai-autoparts-be/pkg/catalog"
	"ai-autoparts-be/pkg/llm/factory"
	"ai-autoparts-be/pkg/ocr"
	"ai-autoparts-be/pkg/partsagent"
	"ai-autoparts-be/pkg/restcache"
	"ai-autoparts-be/pkg/uploads"
	"ai-autoparts-be/pkg/vin"
	"ai-autoparts-be/pkg/websearch"

	pktNats "ai-autoparts-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController  controller.ISearchController
	VinController     controller.IVinController
	PartsController   controller.IPartsController
	HistoryController controller.IHistoryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Upload store, exposed so main.go can run the periodic cleanup
	UploadStore *uploads.Store
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional mirror of lookup events onto the shared bus)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// REST cache: redis when configured, in-process otherwise
	cacheTTL := time.Duration(cfg.Cache.TTLHours) * time.Hour
	var cacheStore restcache.Store
	if cfg.Cache.Backend == "redis" {
		store, err := restcache.NewRedisStore(cfg.Cache.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to Redis cache: %v. Falling back to memory", err)
			cacheStore = restcache.NewMemoryStore(cacheTTL)
		} else {
			cacheStore = store
		}
	} else {
		cacheStore = restcache.NewMemoryStore(cacheTTL)
	}
	restClient := restcache.NewClient(cacheStore, cacheTTL)

	// Uploads served under /uploads by the server
	uploadStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.App.BaseURL+"/uploads")
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize upload store: %v", err)
	}

	// 3. External Clients
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAi,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	catalogClient := catalog.NewClient(cfg.Keys.CatalogHost, cfg.Keys.RapidApi, restClient)
	vinDecoder := vin.NewDecoder(cfg.Keys.VinHost, cfg.Keys.RapidApi, restClient)
	ocrClient := ocr.NewClient(cfg.Keys.MistralOcr)
	searchClient := websearch.NewClient(cfg.Keys.SerpApi)
	downloader := websearch.NewDownloader(websearch.MaxDownloadWorkers)

	// 4. Services
	lookupRepo := implementation.NewLookupRepository(db)

	publisherService := service.NewPublisherService(constant.LookupCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.LookupCompletedTopic,
		lookupRepo,
	)

	agent := partsagent.NewAgent(llmProvider, catalogClient, sysLogger)

	vehicleService := service.NewVehicleService(catalogClient, llmProvider, sysLogger)
	partsService := service.NewPartsService(vehicleService, agent, publisherService, natsPub, sysLogger)
	vinService := service.NewVinService(vinDecoder, ocrClient, llmProvider, publisherService, natsPub, sysLogger)
	imageSearchService := service.NewImageSearchService(searchClient, downloader, publisherService, natsPub, sysLogger)
	reverseImageService := service.NewReverseImageService(searchClient, downloader, uploadStore, publisherService, natsPub, sysLogger)
	photoAnalysisService := service.NewPhotoAnalysisService(llmProvider, imageSearchService, sysLogger)
	historyService := service.NewHistoryService(lookupRepo)

	// 5. Controllers
	return &Container{
		SearchController:  controller.NewSearchController(imageSearchService, reverseImageService, photoAnalysisService),
		VinController:     controller.NewVinController(vinService),
		PartsController:   controller.NewPartsController(partsService, vehicleService),
		HistoryController: controller.NewHistoryController(historyService),

		ConsumerService: consumerService,
		UploadStore:     uploadStore,
	}
}
