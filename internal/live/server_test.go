package live

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"rune-and-ruin/graphics/animations"
	"rune-and-ruin/graphics/animations/catalog"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Log == nil {
		cfg.Log = quietLogger()
	}
	srv := NewServer(cfg)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if body.String() != "ok" {
		t.Fatalf("expected ok, got %q", body.String())
	}
}

func TestSchemaEndpointServesBothGrammars(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	cases := []struct {
		name  string
		title string
	}{
		{"animations", "Animations"},
		{"tokenImages", "Token Images"},
		{"token-images", "Token Images"},
	}
	for _, tc := range cases {
		resp, err := http.Get(ts.URL + "/schema/" + tc.name)
		if err != nil {
			t.Fatalf("GET /schema/%s failed: %v", tc.name, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", tc.name, resp.StatusCode)
		}
		var schema map[string]any
		decodeBody(t, resp, &schema)
		if _, ok := schema["$schema"]; !ok {
			t.Fatalf("expected a $schema marker for %s", tc.name)
		}
		if got := schema["title"]; got != tc.title {
			t.Fatalf("expected title %q for %s, got %v", tc.title, tc.name, got)
		}
	}

	resp, err := http.Get(ts.URL + "/schema/nonsense")
	if err != nil {
		t.Fatalf("GET /schema/nonsense failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown schema, got %d", resp.StatusCode)
	}
}

func TestValidateEndpointPublishesReport(t *testing.T) {
	srv, ts := newTestServer(t, Config{})

	resp := postJSON(t, ts.URL+"/validate?source=editor", mustMarshal(map[string]any{"foo": "Bad Alias"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report Report
	decodeBody(t, resp, &report)
	if report.ID == "" {
		t.Fatalf("expected the report to carry an id")
	}
	if report.Source != "editor" {
		t.Fatalf("expected source editor, got %q", report.Source)
	}
	if report.Result.Success || len(report.Result.Issues) == 0 {
		t.Fatalf("expected a failing result with issues, got %+v", report.Result)
	}
	if report.GeneratedAt == 0 {
		t.Fatalf("expected a generation timestamp")
	}

	listResp, err := http.Get(ts.URL + "/reports")
	if err != nil {
		t.Fatalf("GET /reports failed: %v", err)
	}
	var listing struct {
		Reports []Report `json:"reports"`
		Count   int      `json:"count"`
	}
	decodeBody(t, listResp, &listing)
	if listing.Count != 1 || len(listing.Reports) != 1 {
		t.Fatalf("expected one buffered report, got %+v", listing)
	}
	if listing.Reports[0].ID != report.ID {
		t.Fatalf("expected the buffered report to match, got %q want %q", listing.Reports[0].ID, report.ID)
	}

	snap := srv.telemetry.Snapshot()
	if snap.Validations != 1 || snap.Failures != 1 {
		t.Fatalf("unexpected telemetry %+v", snap)
	}
}

func TestValidateEndpointAcceptsValidDocument(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	doc := map[string]any{
		"strike": []any{
			map[string]any{"trigger": "attack-roll", "preset": "melee", "file": "jb2a.melee.smash"},
		},
	}
	resp := postJSON(t, ts.URL+"/validate", mustMarshal(doc))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report Report
	decodeBody(t, resp, &report)
	if !report.Result.Success || len(report.Result.Issues) != 0 {
		t.Fatalf("expected a clean result, got %+v", report.Result)
	}
	if report.Source != "request" {
		t.Fatalf("expected the default source, got %q", report.Source)
	}
}

func TestValidateEndpointRejectsMalformedJSON(t *testing.T) {
	srv, ts := newTestServer(t, Config{})

	resp := postJSON(t, ts.URL+"/validate", []byte("{"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := srv.history.Len(); got != 0 {
		t.Fatalf("expected no report for malformed input, got %d", got)
	}
}

func TestDiagnosticsIncludesCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "animations.json")
	doc := map[string]any{
		"strike": []any{
			map[string]any{"trigger": "attack-roll", "preset": "melee", "file": "jb2a.melee.smash"},
		},
		"longbow": "strike",
		"_tokenImages": []any{
			map[string]any{
				"name": "Rage",
				"uuid": "Compendium.pack.Item.rage01",
				"rules": []any{
					[]any{"self:effect:rage", "tokens/barbarian/rage.webp", 1.2},
				},
			},
		},
	}
	if err := os.WriteFile(path, mustMarshal(doc), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	resolver, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	_, ts := newTestServer(t, Config{Resolver: resolver})

	resp, err := http.Get(ts.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("GET /diagnostics failed: %v", err)
	}
	var payload struct {
		Status      string            `json:"status"`
		ServerTime  int64             `json:"serverTime"`
		Subscribers int               `json:"subscribers"`
		Reports     int               `json:"reports"`
		Telemetry   TelemetrySnapshot `json:"telemetry"`
		CatalogKeys []string          `json:"catalogKeys"`
		TokenImages int               `json:"tokenImages"`
	}
	decodeBody(t, resp, &payload)

	if payload.Status != "ok" || payload.ServerTime == 0 {
		t.Fatalf("unexpected diagnostics header %+v", payload)
	}
	wantKeys := []string{"longbow", "strike"}
	if len(payload.CatalogKeys) != len(wantKeys) {
		t.Fatalf("expected keys %v, got %v", wantKeys, payload.CatalogKeys)
	}
	for i, key := range wantKeys {
		if payload.CatalogKeys[i] != key {
			t.Fatalf("expected keys %v, got %v", wantKeys, payload.CatalogKeys)
		}
	}
	if payload.TokenImages != 1 {
		t.Fatalf("expected one token image, got %d", payload.TokenImages)
	}
	if payload.Subscribers != 0 || payload.Reports != 0 {
		t.Fatalf("expected a quiet server, got %+v", payload)
	}
}

func TestSocketReceivesHistoryThenBroadcasts(t *testing.T) {
	srv, ts := newTestServer(t, Config{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	var hello historyMessage
	if err := json.Unmarshal(readFrame(t, conn), &hello); err != nil {
		t.Fatalf("failed to decode history frame: %v", err)
	}
	if hello.Type != "history" || len(hello.Reports) != 0 {
		t.Fatalf("unexpected history frame %+v", hello)
	}

	resp := postJSON(t, ts.URL+"/validate?source=editor", mustMarshal(map[string]any{"foo": "Bad Alias"}))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var frame reportMessage
	if err := json.Unmarshal(readFrame(t, conn), &frame); err != nil {
		t.Fatalf("failed to decode report frame: %v", err)
	}
	if frame.Type != "report" {
		t.Fatalf("expected a report frame, got %q", frame.Type)
	}
	if frame.Report.Source != "editor" || frame.Report.Result.Success {
		t.Fatalf("unexpected report %+v", frame.Report)
	}

	if got := srv.hub.Count(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for srv.hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber was not dropped after the peer closed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSocketReplaysHistoryToLateSubscribers(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp := postJSON(t, ts.URL+"/validate?source=early", mustMarshal(map[string]any{"foo": "Bad Alias"}))
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	var hello historyMessage
	if err := json.Unmarshal(readFrame(t, conn), &hello); err != nil {
		t.Fatalf("failed to decode history frame: %v", err)
	}
	if len(hello.Reports) != 1 || hello.Reports[0].Source != "early" {
		t.Fatalf("expected the earlier report in the history frame, got %+v", hello.Reports)
	}
}

func TestSocketHonorsClientSuppliedID(t *testing.T) {
	srv, ts := newTestServer(t, Config{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?id=editor-1"

	first, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	defer first.Close()
	readFrame(t, first)

	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	defer second.Close()
	readFrame(t, second)

	if got := srv.hub.Count(); got != 1 {
		t.Fatalf("expected the reconnect to replace the session, have %d subscribers", got)
	}

	// The first session's connection was closed by the replacement.
	first.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatalf("expected the replaced session's read to fail")
	}

	// The replaced session's exit must not tear down the new one.
	time.Sleep(50 * time.Millisecond)
	if got := srv.hub.Count(); got != 1 {
		t.Fatalf("expected the new session to survive, have %d subscribers", got)
	}
}

func TestPublishReloadConvertsCatalogErrors(t *testing.T) {
	srv := NewServer(Config{Log: quietLogger()})

	issue := animations.Issue{
		Code:    animations.IssueInvalidString,
		Path:    animations.Path{"foo"},
		Message: "not a roll option",
	}
	refIssue := animations.Issue{
		Code:    animations.IssueRefinement,
		Path:    animations.Path{"healing"},
		Message: `alias points at unknown roll option "missing"`,
	}
	srv.PublishReload(errors.Join(
		&catalog.ValidationError{Path: "a.json", Issues: []animations.Issue{issue}},
		&catalog.ReferenceError{Issues: []animations.Issue{refIssue}},
		errors.New("catalog: failed parsing b.json: unexpected end of JSON input"),
	))

	reports := srv.history.Recent()
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].Source != "a.json" || reports[0].Result.Success || len(reports[0].Result.Issues) != 1 {
		t.Fatalf("unexpected validation report %+v", reports[0])
	}
	if reports[1].Source != "catalog" || len(reports[1].Result.Issues) != 1 || reports[1].Error != "" {
		t.Fatalf("unexpected reference report %+v", reports[1])
	}
	if reports[2].Source != "catalog" || reports[2].Error == "" || len(reports[2].Result.Issues) != 0 {
		t.Fatalf("unexpected failure report %+v", reports[2])
	}

	srv.PublishReload(nil)
	reports = srv.history.Recent()
	if len(reports) != 4 || !reports[3].Result.Success {
		t.Fatalf("expected a trailing success report, got %d reports", len(reports))
	}

	snap := srv.telemetry.Snapshot()
	if snap.Validations != 4 || snap.Failures != 3 || snap.IssuesFound != 2 {
		t.Fatalf("unexpected telemetry %+v", snap)
	}
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
