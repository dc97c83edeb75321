package orthanc_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skagos/emr-front/internal/orthanc"
)

func TestStoreInstanceRelaysVerbatim(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x44, 0x49, 0x43, 0x4d}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/instances", r.URL.Path)
		require.Equal(t, "application/dicom", r.Header.Get("Content-Type"))
		got, _ := io.ReadAll(r.Body)
		require.Equal(t, payload, got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"Message":"duplicate"}`))
	}))
	defer srv.Close()

	client := orthanc.NewClient(srv.URL, time.Second)
	relayed, err := client.StoreInstance(context.Background(), payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, relayed.StatusCode)
	require.Equal(t, "application/json", relayed.ContentType)
	require.Equal(t, `{"Message":"duplicate"}`, string(relayed.Body))
}

func TestStoreInstanceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := orthanc.NewClient(url, time.Second)
	_, err := client.StoreInstance(context.Background(), []byte("x"))
	require.Error(t, err)
}

func TestGetStudyDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/studies/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ID": "abc",
			"MainDicomTags": {"StudyInstanceUID": "1.2.3", "StudyDescription": "CT HEAD"},
			"PatientMainDicomTags": {"PatientName": "DOE^JANE"},
			"Series": ["s1"],
			"IsStable": true,
			"Type": "Study"
		}`))
	}))
	defer srv.Close()

	client := orthanc.NewClient(srv.URL, time.Second)
	details, err := client.GetStudyDetails(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "abc", details.ID)
	require.Equal(t, "1.2.3", details.MainTags.StudyInstanceUID)
	require.Equal(t, "CT HEAD", details.MainTags.StudyDescription)
	require.Equal(t, "DOE^JANE", details.PatientMainTags.PatientName)
	require.True(t, details.IsStable)
}

func TestGetStudyDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Message":"Unknown resource"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := orthanc.NewClient(srv.URL, time.Second)
	_, err := client.GetStudyDetails(context.Background(), "nope")
	require.ErrorIs(t, err, orthanc.ErrStudyNotFound)
}

func TestListStudies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["a","b","c"]`))
	}))
	defer srv.Close()

	client := orthanc.NewClient(srv.URL, time.Second)
	studies, err := client.ListStudies(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, studies)
}

func TestStoreResultAccepted(t *testing.T) {
	require.True(t, (&orthanc.StoreResult{Status: "Success"}).Accepted())
	require.True(t, (&orthanc.StoreResult{Status: "AlreadyStored"}).Accepted())
	require.False(t, (&orthanc.StoreResult{Status: "Failure"}).Accepted())
	require.False(t, (&orthanc.StoreResult{}).Accepted())

	var nilResult *orthanc.StoreResult
	require.False(t, nilResult.Accepted())
}
