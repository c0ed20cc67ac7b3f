package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/followback/followback-backend/internal/config"
	"github.com/followback/followback-backend/internal/controller"
	"github.com/followback/followback-backend/internal/db"
	"github.com/followback/followback-backend/internal/events"
	"github.com/followback/followback-backend/internal/handler"
	"github.com/followback/followback-backend/internal/repository"
	"github.com/followback/followback-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	log.Println("Connected to database")

	businessRepo := &repository.BusinessRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	messageRepo := &repository.MessageRepository{DB: conn}
	waitlistRepo := &repository.WaitlistRepository{DB: conn}

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			log.Println("Event feed disabled, failed to connect to RabbitMQ:", err)
		} else {
			defer p.Close()
			publisher = p
			log.Println("Event feed connected, queue:", cfg.EventsQueue)
		}
	}

	dispatchService := &service.DispatchService{
		BusinessRepo: businessRepo,
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		MessageRepo:  messageRepo,
		Email:        service.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName),
		SMS:          service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		Events:       publisher,
		BaseURL:      cfg.AppBaseURL,
		SendPause:    cfg.SendPause,
	}

	dispatchController := &controller.DispatchController{
		Dispatch:   dispatchService,
		CronSecret: cfg.CronSecret,
	}
	campaignController := &controller.CampaignController{
		CampaignRepo: campaignRepo,
		BusinessRepo: businessRepo,
	}
	customerController := &controller.CustomerController{
		CustomerRepo: customerRepo,
		BusinessRepo: businessRepo,
	}
	webhookHandler := &handler.TwilioWebhookHandler{
		CustomerRepo: customerRepo,
		MessageRepo:  messageRepo,
	}
	trackingHandler := &handler.TrackOpenHandler{MessageRepo: messageRepo}
	waitlistHandler := &handler.WaitlistHandler{WaitlistRepo: waitlistRepo}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Dispatch trigger
	r.Post("/api/cron/check-campaigns", dispatchController.CheckCampaigns)

	// Campaigns
	r.Post("/api/campaigns", campaignController.CreateCampaign)
	r.Get("/api/campaigns", campaignController.ListCampaigns)
	r.Patch("/api/campaigns/{id}/toggle", campaignController.ToggleCampaign)

	// Customers
	r.Post("/api/customers", customerController.CreateCustomer)
	r.Get("/api/customers", customerController.ListCustomers)

	// Provider callbacks and tracking
	r.Post("/api/twilio/webhook", webhookHandler.HandleWebhook)
	r.Get("/api/track-open", trackingHandler.HandleOpen)

	// Public landing page
	r.Post("/api/waitlist", waitlistHandler.HandleJoin)

	log.Println("Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
