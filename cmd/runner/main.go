// Command runner executes a single dispatch run from the command line, for
// deployments that trigger via crontab instead of the HTTP endpoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/followback/followback-backend/internal/config"
	"github.com/followback/followback-backend/internal/db"
	"github.com/followback/followback-backend/internal/events"
	"github.com/followback/followback-backend/internal/repository"
	"github.com/followback/followback-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.NewPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			log.Println("Event feed disabled, failed to connect to RabbitMQ:", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	dispatch := &service.DispatchService{
		BusinessRepo: &repository.BusinessRepository{DB: conn},
		CampaignRepo: &repository.CampaignRepository{DB: conn},
		CustomerRepo: &repository.CustomerRepository{DB: conn},
		MessageRepo:  &repository.MessageRepository{DB: conn},
		Email:        service.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName),
		SMS:          service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		Events:       publisher,
		BaseURL:      cfg.AppBaseURL,
		SendPause:    cfg.SendPause,
	}

	summary, results, err := dispatch.Run(context.Background())
	if err != nil {
		log.Fatal("dispatch run failed:", err)
	}

	out, _ := json.MarshalIndent(map[string]interface{}{
		"summary": summary,
		"results": results,
	}, "", "  ")
	fmt.Println(string(out))

	if summary.TotalErrors > 0 {
		os.Exit(1)
	}
}
