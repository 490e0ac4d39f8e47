package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mattn/go-xmpp"

	"github.com/b-vents/route-server/route"
)

type (
	// Config for the notifier.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

// NotifyRoute sends a one-line summary of a finished route.
func (x Xmpp) NotifyRoute(r *route.Route) error {
	msg := fmt.Sprintf("Route (%.4f,%.4f) -> (%.4f,%.4f): %.0f nm in %.1f h, %d tacks, %d jibes, ETA %s",
		r.Start.Lat, r.Start.Lon, r.Goal.Lat, r.Goal.Lon,
		r.DistanceM/1852.0, r.DurationS/3600.0, r.Tacks, r.Jibes,
		r.ETA.Format("2006-01-02 15:04 MST"))
	return x.Send(msg)
}

func (x Xmpp) Send(message string) error {

	if len(x.Config.Jid) == 0 || len(x.Config.Password) == 0 || len(x.Config.To) == 0 {
		log.Warn("missing xmpp config")

		return errors.New("missing xmpp config")
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:     x.Config.Host,
		User:     x.Config.Jid,
		Password: x.Config.Password,
		NoTLS:    true,
		StartTLS: true,
		Debug:    false,
		Session:  false,
		Status:   "xa",
	}

	talk, err := options.NewClient()

	if err != nil {
		log.WithError(err).Warn("xmpp client")

		return err
	}

	talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})

	return nil
}
