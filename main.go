package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gorilla/handlers"
	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/b-vents/route-server/api"
	"github.com/b-vents/route-server/land"
	"github.com/b-vents/route-server/polar"
	"github.com/b-vents/route-server/route"
	"github.com/b-vents/route-server/wind"
	"github.com/b-vents/route-server/xmpp"

	_ "net/http/pprof"
)

type tuning struct {
	Route route.Config `toml:"route"`
}

func main() {

	fs := flag.NewFlagSet("route-server", flag.ExitOnError)
	var (
		listen       = fs.String("listen", ":8888", "HTTP listen address")
		gribDir      = fs.String("grib-dir", "grib", "directory of GRIB2 forecast files")
		polarFile    = fs.String("polar", "polar.json", "polar table file")
		landFile     = fs.String("land", "", "packed global land raster, empty disables land avoidance")
		confFile     = fs.String("conf", "", "TOML tuning file overriding routing defaults")
		refreshS     = fs.Uint64("wind-refresh", 300, "seconds between forecast directory scans")
		cpuprofile   = fs.Bool("cpuprofile", false, "profile route requests")
		debug        = fs.Bool("debug", false, "debug logging")
		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := tuning{Route: route.DefaultConfig()}
	if *confFile != "" {
		if _, err := toml.DecodeFile(*confFile, &cfg); err != nil {
			log.WithError(err).Fatalf("Error reading tuning file '%s'", *confFile)
		}
	}
	if err := cfg.Route.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid routing configuration")
	}

	x := &xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	var mask *land.Mask
	if *landFile != "" {
		log.Info("Load lands")
		var err error
		mask, err = land.OpenGlobal(*landFile)
		if err != nil {
			log.WithError(err).Fatalf("Error loading land raster '%s'", *landFile)
		}
	}

	log.Infof("Load polar '%s'", *polarFile)
	pol, err := polar.Load(*polarFile)
	if err != nil {
		log.WithError(err).Fatal("Error loading polar")
	}

	log.Info("Load winds")
	winds, err := wind.OpenDir(*gribDir)
	if err != nil {
		log.WithError(err).Fatal("Error loading winds")
	}

	s := gocron.NewScheduler()
	job := s.Every(*refreshS).Seconds()
	job.Do(func() {
		if err := winds.Reload(); err != nil {
			log.WithError(err).Error("Wind refresh failed")
		}
	})
	go s.Start()

	log.Info("Start server")

	router := api.InitServer(*cpuprofile, winds, pol, mask, cfg.Route, x)
	log.Fatal(http.ListenAndServe(*listen,
		handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), router)))
}
