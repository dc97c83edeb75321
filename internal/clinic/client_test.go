package clinic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skagos/emr-front/internal/clinic"
)

func TestCreateVisit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/visits", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft clinic.VisitDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		require.Equal(t, "1.2.3.4", draft.StudyInstanceUID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(clinic.Visit{
			ID:               "v-1",
			VisitDate:        draft.VisitDate,
			StudyInstanceUID: draft.StudyInstanceUID,
		})
	}))
	defer srv.Close()

	client := clinic.NewClient(srv.URL, time.Second)
	visit, err := client.CreateVisit(context.Background(), &clinic.VisitDraft{
		PatientID:        "p-1",
		VisitDate:        "2026-08-31",
		StudyInstanceUID: "1.2.3.4",
	})
	require.NoError(t, err)
	require.Equal(t, "v-1", visit.ID)
	require.Equal(t, "1.2.3.4", visit.StudyInstanceUID)
}

func TestCreateVisitBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := clinic.NewClient(srv.URL, time.Second)
	_, err := client.CreateVisit(context.Background(), &clinic.VisitDraft{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestGetVisit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/visits/v-7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(clinic.Visit{ID: "v-7", Reason: "follow-up"})
	}))
	defer srv.Close()

	client := clinic.NewClient(srv.URL, time.Second)
	visit, err := client.GetVisit(context.Background(), "v-7")
	require.NoError(t, err)
	require.Equal(t, "v-7", visit.ID)
	require.Equal(t, "follow-up", visit.Reason)
}
