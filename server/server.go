package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"hxsim/calculator"
	"hxsim/fluid"
	"hxsim/metrics"
	"hxsim/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader

	props    fluid.Provider
	cfg      calculator.Config
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

// NewServer serves solves over websocket and exposes the collectors
// registered in reg.
func NewServer(addr string, upgrader websocket.Upgrader, props fluid.Provider, cfg calculator.Config, reg *prometheus.Registry) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		props:    props,
		cfg:      cfg,
		metrics:  metrics.NewCollector(reg, "hxsim"),
		gatherer: reg,
	}
}

// serveWs handles websocket requests from the peer. Every connection gets
// its own hub.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithFields(log.Fields{"remote": r.RemoteAddr}).Error(err)
		return
	}
	defer conn.Close()

	hub := NewHub(conn, s.props, s.cfg, s.metrics)
	go hub.handleRequest()
	go hub.handleResponse()
	defer close(hub.done)

	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithFields(log.Fields{"remote": r.RemoteAddr}).Error(err)
			}
			return
		}
		hub.msg <- msg
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.serveWs)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

func (s *Server) Serve() error {
	log.WithFields(log.Fields{"addr": s.addr}).Info("listening")
	return http.ListenAndServe(s.addr, s.Router())
}
