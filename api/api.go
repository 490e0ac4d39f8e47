package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/b-vents/route-server/api/model"
	"github.com/b-vents/route-server/land"
	"github.com/b-vents/route-server/latlon"
	"github.com/b-vents/route-server/polar"
	"github.com/b-vents/route-server/route"
	"github.com/b-vents/route-server/wind"
	"github.com/b-vents/route-server/xmpp"
	"github.com/gorilla/mux"
	"github.com/pkg/profile"
)

type server struct {
	cpuprofile bool
	winds      *wind.Store
	polar      *polar.Polar
	land       *land.Mask
	cfg        route.Config
	x          *xmpp.Xmpp
}

// InitServer wires the HTTP surface: versioned routing endpoints plus
// the health probe.
func InitServer(cpuprofile bool, winds *wind.Store, p *polar.Polar, l *land.Mask, cfg route.Config, x *xmpp.Xmpp) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile: cpuprofile,
		winds:      winds,
		polar:      p,
		land:       l,
		cfg:        cfg,
		x:          x,
	}

	api := router.PathPrefix("/").Subrouter()
	api.HandleFunc("/nav/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/route/api/v1").Subrouter()
	apiV1.HandleFunc("/route", s.route).Methods("POST")
	apiV1.HandleFunc("/sneak", s.sneak).Methods("POST")
	apiV1.HandleFunc("/wind/{stamp}/{lat}/{lon}", s.wind).Methods("GET")
	apiV1.HandleFunc("/coverage", s.coverage).Methods("GET")

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) route(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	fields := log.Fields{
		"action": "route",
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	requestLogger := log.WithFields(fields)

	var r model.RouteRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		writeError(w, http.StatusBadRequest, "bad-request", err)
		return
	}
	if r.StartTime.IsZero() {
		r.StartTime = time.Now().UTC()
	}

	cfg := r.Params.Apply(s.cfg)
	router, err := route.New(s.winds, s.polar, s.land, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid-configuration", err)
		return
	}

	requestLogger.Infof("Route (%.4f,%.4f) -> (%.4f,%.4f) via %d marks at %s",
		r.Start.Lat, r.Start.Lon, r.Goal.Lat, r.Goal.Lon, len(r.Via), r.StartTime.Format(time.RFC3339))

	start := time.Now()

	result, err := runLegs(req, router, r)
	if err != nil {
		status, kind := errorStatus(err)
		requestLogger.WithError(err).Infof("Route failed after %s", time.Since(start))
		writeError(w, status, kind, err)
		return
	}

	requestLogger.Infof("Route took %s: %.0f s sailed, %d tacks, %d jibes",
		time.Since(start), result.DurationS, result.Tacks, result.Jibes)

	if r.Params.NotifyOnCompletion && s.x != nil {
		go s.x.NotifyRoute(result)
	}

	json.NewEncoder(w).Encode(result)
}

// runLegs chains one search per mark: start to the first via point, then
// mark to mark, ending at the goal. Each leg departs when the previous
// one arrives.
func runLegs(req *http.Request, router *route.Router, r model.RouteRequest) (*route.Route, error) {
	marks := append(append([]latlon.LatLon{}, r.Via...), r.Goal)

	var total *route.Route
	from := r.Start
	departure := r.StartTime

	for _, mark := range marks {
		leg, err := router.Route(req.Context(), from, mark, departure)
		if err != nil {
			return nil, err
		}
		if total == nil {
			total = leg
		} else {
			total.Waypoints = append(total.Waypoints, leg.Waypoints[1:]...)
			total.DistanceM += leg.DistanceM
			total.DurationS += leg.DurationS
			total.Tacks += leg.Tacks
			total.Jibes += leg.Jibes
			total.ETA = leg.ETA
		}
		from = mark
		departure = leg.ETA
	}

	total.Goal = r.Goal
	if total.DurationS > 0 {
		total.AvgSpeedMS = total.DistanceM / total.DurationS
	}
	return total, nil
}

func (s *server) sneak(w http.ResponseWriter, req *http.Request) {

	var r model.SneakRequest
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		writeError(w, http.StatusBadRequest, "bad-request", err)
		return
	}
	if r.StartTime.IsZero() {
		r.StartTime = time.Now().UTC()
	}

	log.Infof("Sneak (%.4f,%.4f) for %.0f s", r.Start.Lat, r.Start.Lon, r.MaxDurationS)

	router, err := route.New(s.winds, s.polar, s.land, s.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid-configuration", err)
		return
	}

	start := time.Now()

	fan, err := router.Sneak(r.Start, r.StartTime, r.MaxDurationS)
	if err != nil {
		status, kind := errorStatus(err)
		writeError(w, status, kind, err)
		return
	}

	log.Infof("Sneak took %s", time.Since(start))

	json.NewEncoder(w).Encode(fan)
}

// wind answers the forecast sample at a position, for the forecast hour
// named by the stamp.
func (s *server) wind(w http.ResponseWriter, req *http.Request) {
	stamp := mux.Vars(req)["stamp"]

	at, err := time.ParseInLocation("2006010215", stamp, time.UTC)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lat, err := strconv.ParseFloat(mux.Vars(req)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(req)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sample, err := s.winds.Sample(latlon.LatLon{Lat: lat, Lon: lon}, at)
	if err != nil {
		writeError(w, http.StatusNotFound, "out-of-temporal-range", err)
		return
	}

	type windResult struct {
		Wind  float64 `json:"wind"`
		Speed float64 `json:"speed"`
	}
	res := windResult{
		Wind:  sample.DirectionDeg,
		Speed: sample.SpeedMS * 1.9438444924406, // knots for display
	}

	log.Infof("Wind %s (%f,%f) : %.1f° %.1f kt", stamp, lat, lon, res.Wind, res.Speed)

	json.NewEncoder(w).Encode(res)
}

func (s *server) coverage(w http.ResponseWriter, req *http.Request) {
	type coverage struct {
		Earliest time.Time `json:"earliest"`
		Latest   time.Time `json:"latest"`
		Loaded   bool      `json:"loaded"`
	}

	var res coverage
	res.Earliest, res.Latest, res.Loaded = s.winds.Coverage()
	json.NewEncoder(w).Encode(res)
}

// errorStatus maps engine failures onto HTTP: bad input is the caller's
// fault, an unroutable or uncovered problem is unprocessable, a
// cancelled search is the server giving up.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, route.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid-configuration"
	case errors.Is(err, route.ErrNoRouteFound):
		return http.StatusUnprocessableEntity, "no-route-found"
	case errors.Is(err, wind.ErrOutOfTemporalRange):
		return http.StatusUnprocessableEntity, "out-of-temporal-range"
	case errors.Is(err, route.ErrSearchCancelled):
		return http.StatusServiceUnavailable, "search-cancelled"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error(), Kind: kind})
}

func getIp(r *http.Request) (string, error) {
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
