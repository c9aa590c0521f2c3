package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/model"
)

func captureServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func lineProtocol(points ...*write.Point) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	}
	return strings.Join(lines, "\n")
}

func TestInfluxSink_RecordBuild(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.BuildEvent{RunID: "run1", Variables: 32, Constraints: 40, Duration: 1500 * time.Microsecond, Time: now}
	if err := sink.RecordBuild(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	expected := lineProtocol(write.NewPointWithMeasurement("plan_build").
		AddTag("run_id", "run1").
		AddField("variables", 32).
		AddField("constraints", 40).
		AddField("duration_ms", 1.5).
		SetTime(now))
	if len(*bodies) != 1 || strings.TrimSpace((*bodies)[0]) != expected {
		t.Errorf("unexpected body: %v", *bodies)
	}
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.SolveEvent{RunID: "run1", Status: "OPTIMAL", Objective: 210, Duration: 2 * time.Millisecond, Time: now}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	expected := lineProtocol(write.NewPointWithMeasurement("plan_solve").
		AddTag("run_id", "run1").
		AddTag("status", "OPTIMAL").
		AddField("objective", 210.0).
		AddField("duration_ms", 2.0).
		SetTime(now))
	if len(*bodies) != 1 || strings.TrimSpace((*bodies)[0]) != expected {
		t.Errorf("unexpected body: %v", *bodies)
	}
}

func TestInfluxSink_RecordPlanSummary(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.PlanSummaryEvent{
		RunID: "run1",
		Years: []model.YearSummary{
			{Year: 2023, Bought: 2, Fleet: 2, InUse: 2, DistanceKm: 1000, EmissionsKg: 0, CarbonLimit: 1e6},
			{Year: 2024, Sold: 1, Fleet: 2, InUse: 1, DistanceKm: 500, EmissionsKg: 12.5, CarbonLimit: 1e6},
		},
		Violations: 0,
		Time:       now,
	}
	if err := sink.RecordPlanSummary(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(*bodies) != 1 {
		t.Fatalf("expected one write, got %d", len(*bodies))
	}
	lines := strings.Split(strings.TrimSpace((*bodies)[0]), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two points, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "plan_year,run_id=run1,year=2023 ") {
		t.Errorf("unexpected first point: %s", lines[0])
	}
	if !strings.Contains(lines[1], "emissions_kg=12.5") {
		t.Errorf("missing emissions field: %s", lines[1])
	}
}

func TestInfluxSink_RecordPlanSummaryEmpty(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	if err := sink.RecordPlanSummary(coremetrics.PlanSummaryEvent{RunID: "run1"}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(*bodies) != 0 {
		t.Errorf("expected no write, got %v", *bodies)
	}
}

func TestInfluxSink_WriteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	if err := sink.RecordSolve(coremetrics.SolveEvent{RunID: "r", Status: "OPTIMAL", Time: time.Now()}); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
