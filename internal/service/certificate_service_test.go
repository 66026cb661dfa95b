package service_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/service"
	"github.com/rs/zerolog"
)

func waitForCerts(t *testing.T, store *fakeCertificateStore, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if store.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d certificates, got %d", want, store.count())
}

func TestRequestIssueRecordsCertificate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/certificates/issue" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sertifikaat_nommer": "SERT-2026-0042",
			"sertifikaat_url":    "https://certs.example/SERT-2026-0042.pdf",
		})
	}))
	defer srv.Close()

	store := &fakeCertificateStore{}
	svc := service.NewCertificateService(srv.URL, store, zerolog.Nop())
	user := &model.Gebruiker{ID: uuid.New(), Naam: "Anna", Van: "Botha", Rol: model.RolLidmaat}
	kursus := &model.Kursus{ID: uuid.New(), Titel: "Gemeentebediening"}

	svc.RequestIssue(user, kursus)
	waitForCerts(t, store, 1)

	certs, err := svc.ListForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(certs) != 1 {
		t.Fatalf("expected 1 certificate, got %d", len(certs))
	}
	c := certs[0]
	if c.SertifikaatNommer != "SERT-2026-0042" {
		t.Fatalf("wrong number: %q", c.SertifikaatNommer)
	}
	if !c.IsGeldig {
		t.Fatal("issued certificate must be valid")
	}
	if gotBody["naam"] != "Anna Botha" {
		t.Fatalf("rendering request must carry the full name, got %v", gotBody["naam"])
	}
	if gotBody["kursus_titel"] != "Gemeentebediening" {
		t.Fatalf("rendering request must carry the course title, got %v", gotBody["kursus_titel"])
	}
}

func TestRequestIssueFailureRecordsNothing(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "renderer down", http.StatusBadGateway)
	}))
	defer srv.Close()

	store := &fakeCertificateStore{}
	svc := service.NewCertificateService(srv.URL, store, zerolog.Nop())

	svc.RequestIssue(&model.Gebruiker{ID: uuid.New()}, &model.Kursus{ID: uuid.New()})

	time.Sleep(300 * time.Millisecond)
	if store.count() != 0 {
		t.Fatalf("a failed render must not record a certificate, got %d", store.count())
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("a failed render must not be retried, got %d calls", got)
	}
}

func TestRequestIssueDoesNotRetryTransportFailures(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var conns atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns.Add(1)
			conn.Close()
		}
	}()

	store := &fakeCertificateStore{}
	svc := service.NewCertificateService("http://"+ln.Addr().String(), store, zerolog.Nop())

	svc.RequestIssue(&model.Gebruiker{ID: uuid.New()}, &model.Kursus{ID: uuid.New()})

	// Give any retry loop ample time to fire before counting.
	time.Sleep(1500 * time.Millisecond)
	if got := conns.Load(); got != 1 {
		t.Fatalf("one issue request must open exactly one connection, got %d", got)
	}
	if store.count() != 0 {
		t.Fatalf("a dropped connection must not record a certificate, got %d", store.count())
	}
}

func TestRequestIssueSkipsWhenUnconfigured(t *testing.T) {
	store := &fakeCertificateStore{}
	svc := service.NewCertificateService("", store, zerolog.Nop())

	svc.RequestIssue(&model.Gebruiker{ID: uuid.New()}, &model.Kursus{ID: uuid.New()})

	time.Sleep(50 * time.Millisecond)
	if store.count() != 0 {
		t.Fatalf("unconfigured issuer must drop requests, got %d", store.count())
	}
}

func TestListForUserEmptyIsNotNil(t *testing.T) {
	svc := service.NewCertificateService("", &fakeCertificateStore{}, zerolog.Nop())

	certs, err := svc.ListForUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if certs == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
