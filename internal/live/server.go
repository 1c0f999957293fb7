// Package live serves the validation dev loop over HTTP: editors POST
// documents for validation, fetch the exported schemas, and subscribe over a
// websocket to see every validation outcome as it happens, including reloads
// of the on-disk catalog.
package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rune-and-ruin/graphics/animations"
	"rune-and-ruin/graphics/animations/catalog"
)

// Config carries the server's collaborators. Zero values get working
// defaults, so tests can build a Server from an empty Config.
type Config struct {
	Resolver  *catalog.Resolver
	History   *History
	Telemetry *Telemetry
	Hub       *Hub
	Log       logrus.FieldLogger
}

// Server exposes validation over HTTP and pushes reports to websocket
// subscribers. It implements http.Handler.
type Server struct {
	log       logrus.FieldLogger
	resolver  *catalog.Resolver
	history   *History
	telemetry *Telemetry
	hub       *Hub
	validator animations.Validator
	router    *mux.Router
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type reportMessage struct {
	Type       string `json:"type"`
	Report     Report `json:"report"`
	ServerTime int64  `json:"serverTime"`
}

type historyMessage struct {
	Type       string   `json:"type"`
	Reports    []Report `json:"reports"`
	ServerTime int64    `json:"serverTime"`
}

func NewServer(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		log:       log,
		resolver:  cfg.Resolver,
		history:   cfg.History,
		telemetry: cfg.Telemetry,
		hub:       cfg.Hub,
		validator: animations.Validator{CrossEntry: catalog.CheckEntries},
	}
	if s.history == nil {
		s.history = NewHistory(0)
	}
	if s.telemetry == nil {
		s.telemetry = NewTelemetry()
	}
	if s.hub == nil {
		s.hub = NewHub(log)
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/diagnostics", s.handleDiagnostics).Methods(http.MethodGet)
	router.HandleFunc("/schema/{name}", s.handleSchema).Methods(http.MethodGet)
	router.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	router.HandleFunc("/reports", s.handleReports).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleSocket).Methods(http.MethodGet)
	s.router = router

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close drops every websocket subscriber.
func (s *Server) Close() {
	s.hub.CloseAll()
}

// PublishReload turns a catalog reload outcome into reports and pushes them
// to history, telemetry, and subscribers. A nil error publishes a single
// success report so editors see the catalog going green again.
func (s *Server) PublishReload(err error) {
	for _, report := range reloadReports(err) {
		s.publish(report)
	}
}

func (s *Server) publish(report Report) {
	s.history.Add(report)
	s.telemetry.RecordValidation(report.Result, time.Duration(report.DurationMillis)*time.Millisecond)
	delivered := s.hub.Broadcast(reportMessage{
		Type:       "report",
		Report:     report,
		ServerTime: time.Now().UnixMilli(),
	})
	s.telemetry.RecordBroadcast(delivered)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Status      string            `json:"status"`
		ServerTime  int64             `json:"serverTime"`
		Subscribers int               `json:"subscribers"`
		Reports     int               `json:"reports"`
		Telemetry   TelemetrySnapshot `json:"telemetry"`
		CatalogKeys []string          `json:"catalogKeys,omitempty"`
		TokenImages int               `json:"tokenImages,omitempty"`
	}{
		Status:      "ok",
		ServerTime:  time.Now().UnixMilli(),
		Subscribers: s.hub.Count(),
		Reports:     s.history.Len(),
		Telemetry:   s.telemetry.Snapshot(),
	}
	if s.resolver != nil {
		payload.CatalogKeys = s.resolver.Keys()
		payload.TokenImages = len(s.resolver.TokenImages())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "token-images" {
		// The schema writer names its file token-images.schema.json, so
		// accept that spelling too.
		name = animations.SchemaTokenImages
	}

	schema, err := animations.ExportSchema(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	data, err := json.Marshal(schema)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		http.Error(w, fmt.Sprintf("malformed JSON: %v", err), http.StatusBadRequest)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "request"
	}

	start := time.Now()
	result := s.validator.Validate(doc)
	report := NewReport(source, result, time.Since(start))
	s.publish(report)

	data, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	reports := s.history.Recent()
	payload := struct {
		Reports []Report `json:"reports"`
		Count   int      `json:"count"`
	}{Reports: reports, Count: len(reports)}

	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id, sub := s.hub.Subscribe(r.URL.Query().Get("id"), conn)

	initial := historyMessage{
		Type:       "history",
		Reports:    s.history.Recent(),
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(initial)
	if err != nil {
		s.log.WithError(err).WithField("subscriber", id).Error("failed to marshal history frame")
		s.hub.drop(id, sub)
		return
	}
	if err := sub.write(data); err != nil {
		s.hub.drop(id, sub)
		return
	}

	// The socket is push-only. The read loop exists to notice the peer
	// going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.drop(id, sub)
			return
		}
	}
}

func reloadReports(err error) []Report {
	if err == nil {
		return []Report{NewReport("catalog", animations.Result{Success: true}, 0)}
	}

	var reports []Report
	for _, cause := range flattenErrors(err) {
		var verr *catalog.ValidationError
		var rerr *catalog.ReferenceError
		switch {
		case errors.As(cause, &verr):
			reports = append(reports, NewReport(verr.Path, animations.Result{Issues: verr.Issues}, 0))
		case errors.As(cause, &rerr):
			reports = append(reports, NewReport("catalog", animations.Result{Issues: rerr.Issues}, 0))
		default:
			report := NewReport("catalog", animations.Result{}, 0)
			report.Error = cause.Error()
			reports = append(reports, report)
		}
	}
	return reports
}

func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var flat []error
		for _, e := range joined.Unwrap() {
			flat = append(flat, flattenErrors(e)...)
		}
		return flat
	}
	return []error{err}
}
