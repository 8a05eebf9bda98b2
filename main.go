package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"holidaze-server/config"
	"holidaze-server/di"
	"holidaze-server/util"
)

const SESSION_SWEEP_INTERVAL = time.Minute

func defaultEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}

// plotOccupancy writes the venue's occupancy chart to an HTML file and exits.
func plotOccupancy(container *di.Container, venueID, out string) error {
	v, occupancy, err := container.VenueService.GetOccupancy(context.Background(), venueID)
	if err != nil {
		return err
	}
	util.PrintVenuePartially(v)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()
	return util.PlotOccupancy(f, v.Name, occupancy)
}

func main() {
	env := flag.String("env", defaultEnv(), "environment: prod uses real Redis and the Holidaze API")
	plotVenue := flag.String("plot", "", "render the occupancy chart of this venue ID and exit")
	plotOut := flag.String("out", "occupancy.html", "output file for -plot")
	flag.Parse()

	cfg, err := config.Load(*env)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize container")
	}
	log := container.Logger.WithField("component", "main")

	if *plotVenue != "" {
		if err := plotOccupancy(container, *plotVenue, *plotOut); err != nil {
			log.WithError(err).Fatal("failed to plot occupancy")
		}
		log.WithField("file", *plotOut).Info("occupancy chart written")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("refreshing venues")
	if n, err := container.VenuesRefresherService.RefreshVenuesData(ctx); err != nil {
		log.WithError(err).Warn("initial venues refresh failed")
	} else {
		log.WithField("venues", n).Info("initial venues refresh done")
	}
	container.VenuesRefresherService.StartPeriodicJob(ctx, cfg.VenuesRefresherSchedule)
	container.BookingSessionService.StartSweeper(ctx, SESSION_SWEEP_INTERVAL)

	if err := container.HolidazeHttpServer.Run(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
