package appupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "` + tag + `"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck_UpdateAvailable(t *testing.T) {
	server := releaseServer(t, "v1.2.0")

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.1.0",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	if !result.UpdateAvailable {
		t.Error("UpdateAvailable = false, want true")
	}
	if result.LatestVersion != "v1.2.0" {
		t.Errorf("LatestVersion = %q, want v1.2.0", result.LatestVersion)
	}
}

func TestCheck_UpToDate(t *testing.T) {
	server := releaseServer(t, "1.1.0") // no v prefix on the tag

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.1.0",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	if result.UpdateAvailable {
		t.Error("UpdateAvailable = true, want false")
	}
}

func TestCheck_DevBuildSkipsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("dev builds must not hit the release API")
	}))
	defer server.Close()

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "dev",
		LatestReleaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.CurrentVersion != "" || result.UpdateAvailable {
		t.Errorf("result = %+v, want empty no-update result", result)
	}
}

func TestCheck_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.0.0",
		LatestReleaseURL: server.URL,
	})
	if err == nil {
		t.Error("expected error for non-200 release response")
	}
}

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{" v2.0.0 ", "v2.0.0"},
		{"v1.2.3-rc.1", ""}, // prereleases are skipped
		{"dev", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeReleaseVersion(tt.in); got != tt.want {
			t.Errorf("normalizeReleaseVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
