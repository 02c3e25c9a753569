package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/service"
)

func TestHoldHandlers_SetWithDurationIncludesTarget(t *testing.T) {
	until := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	hold := &mockHold{setResp: models.Hold{ID: "h1", Value: 22, UntilTime: until}}
	tgt := &mockTarget{view: models.TargetView{TargetTemperature: models.TargetTemperature{Value: 22, HoldID: "h1"}}}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Hold: hold, Target: tgt}
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPut, "/api/v1/hold", `{"value":22,"duration":"2h"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set status=%d, body=%s", w.Code, w.Body.String())
	}
	if hold.lastParams.Value != 22 || hold.lastParams.Duration != 2*time.Hour || !hold.lastParams.Until.IsZero() {
		t.Fatalf("wrong params: %+v", hold.lastParams)
	}
	var resp struct {
		Status string            `json:"status"`
		Hold   models.Hold       `json:"hold"`
		Target models.TargetView `json:"target"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != statusHoldSet || resp.Hold.ID != "h1" || resp.Target.HoldID != "h1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHoldHandlers_SetWithUntil(t *testing.T) {
	hold := &mockHold{}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Hold: hold}
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPut, "/api/v1/hold", `{"value":19.5,"until_time":"2024-01-01T21:00:00+01:00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("set status=%d, body=%s", w.Code, w.Body.String())
	}
	want := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	if !hold.lastParams.Until.Equal(want) || hold.lastParams.Duration != 0 {
		t.Fatalf("wrong params: %+v", hold.lastParams)
	}
}

func TestHoldHandlers_SetBadRequests(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		svcErr    error
		wantCalls int
	}{
		{name: "missing value", body: `{"duration":"1h"}`},
		{name: "bad duration", body: `{"value":20,"duration":"soon"}`},
		{name: "bad until", body: `{"value":20,"until_time":"tonight"}`},
		{name: "rejected by service", body: `{"value":20}`, svcErr: fmt.Errorf("%w: until or duration is required", service.ErrInvalidHold), wantCalls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hold := &mockHold{err: tc.svcErr}
			s := &service.Service{Authorization: &mockAuth{parseID: 1}, Hold: hold}
			r := newTestRouter(s)

			w := doAuthed(r, http.MethodPut, "/api/v1/hold", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
			}
			if hold.setCalls != tc.wantCalls {
				t.Fatalf("SetHold calls=%d want %d", hold.setCalls, tc.wantCalls)
			}
		})
	}
}

func TestHoldHandlers_GetAndClear(t *testing.T) {
	hold := &mockHold{}
	s := &service.Service{Authorization: &mockAuth{parseID: 1}, Hold: hold}
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodGet, "/api/v1/hold", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if v, ok := got["hold"]; !ok || v != nil {
		t.Fatalf("expected hold=null, got %s", w.Body.String())
	}

	w = doAuthed(r, http.MethodDelete, "/api/v1/hold", "")
	if w.Code != http.StatusOK || hold.clearCalls != 1 {
		t.Fatalf("clear status=%d calls=%d", w.Code, hold.clearCalls)
	}
}
