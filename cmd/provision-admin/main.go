// provision-admin creates an admin account in the configured store and can
// optionally seed a demo match with ticket types and a UPI channel.
//
//	provision-admin --username ops --password 'correct horse' [--name Ops] [--demo]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/iliyamo/match-ticket-booking/internal/config"
	"github.com/iliyamo/match-ticket-booking/internal/database"
	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/repository"
	"github.com/iliyamo/match-ticket-booking/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var username, password, name string
	var demo bool

	flags := pflag.NewFlagSet("provision-admin", pflag.ContinueOnError)
	flags.StringVarP(&username, "username", "u", "", "admin username (required)")
	flags.StringVarP(&password, "password", "p", "", "admin password, at least 8 characters (required)")
	flags.StringVar(&name, "name", "Administrator", "display name")
	flags.BoolVar(&demo, "demo", false, "also seed a demo match, its ticket types and a UPI channel")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if username == "" || password == "" {
		flags.Usage()
		return errors.New("--username and --password are required")
	}

	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := database.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	creds := service.NewCredentials(store, cfg.BcryptCost)
	id, err := creds.Provision(ctx, username, password, name)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"id": id.ID, "username": id.Username}).Info("admin provisioned")

	if demo {
		return seedDemo(ctx, store)
	}
	return nil
}

type demoTicketType struct {
	name, description string
	price             int64
	seats             int
}

var demoTicketTypes = []demoTicketType{
	{"General Stand", "Affordable seating, usually in the upper stands.", 999, 1000},
	{"Premium Stand", "Better view and closer to the action.", 1990, 500},
	{"Pavilion Stand", "Premium seating with excellent view.", 2999, 300},
	{"VIP Stand", "Exclusive seating with food and drinks.", 5000, 100},
}

func seedDemo(ctx context.Context, store repository.Store) error {
	catalog := service.NewCatalog(store)
	active := true
	m, err := catalog.CreateMatch(ctx, service.CreateMatchInput{
		Team1:    "Royal Challengers Bengaluru",
		Team2:    "Delhi Capitals",
		Venue:    "M. Chinnaswamy Stadium, Bengaluru, Karnataka",
		Stadium:  "M. Chinnaswamy Stadium",
		Date:     "10 April 2025",
		Time:     "7:30 PM IST",
		IsActive: &active,
	})
	if err != nil {
		return fmt.Errorf("seed match: %w", err)
	}
	for _, d := range demoTicketTypes {
		desc := d.description
		if _, err := catalog.CreateTicketType(ctx, service.CreateTicketTypeInput{
			MatchID:     m.ID,
			Name:        d.name,
			Description: &desc,
			Price:       d.price,
			TotalSeats:  d.seats,
		}); err != nil {
			return fmt.Errorf("seed ticket type %q: %w", d.name, err)
		}
	}

	display := "IPL Tickets"
	if _, err := service.NewPaymentChannels(store).Create(ctx, service.CreatePaymentChannelInput{
		UPIID:       "ipltickets@ybl",
		DisplayName: &display,
	}); err != nil {
		return fmt.Errorf("seed payment channel: %w", err)
	}
	logrus.WithField("match_id", m.ID).Info("demo data seeded")
	return nil
}
