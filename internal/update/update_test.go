package update

import (
	"context"
	"net/http"
	"testing"

	"github.com/klappstuhl/stalmail/internal/testutil"
)

func TestCheckForUpdate(t *testing.T) {
	tests := []struct {
		name           string
		currentVersion string
		latestVersion  string
		wantAvailable  bool
		serverStatus   int
	}{
		{
			name:           "dev version skips check",
			currentVersion: "dev",
		},
		{
			name:           "empty version skips check",
			currentVersion: "",
		},
		{
			name:           "update available",
			currentVersion: "1.0.0",
			latestVersion:  "v1.1.0",
			wantAvailable:  true,
			serverStatus:   http.StatusOK,
		},
		{
			name:           "no update needed",
			currentVersion: "1.1.0",
			latestVersion:  "v1.1.0",
			serverStatus:   http.StatusOK,
		},
		{
			name:           "current is newer",
			currentVersion: "2.0.0",
			latestVersion:  "v1.1.0",
			serverStatus:   http.StatusOK,
		},
		{
			name:           "server error returns nil",
			currentVersion: "1.0.0",
			serverStatus:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.serverStatus == 0 {
				// Dev and empty builds never hit the network.
				if result := CheckForUpdate(context.Background(), tt.currentVersion); result != nil {
					t.Errorf("expected nil for %q version", tt.currentVersion)
				}
				return
			}

			ms := testutil.NewMockServer()
			defer ms.Close()

			if tt.serverStatus == http.StatusOK {
				ms.HandleJSON("GET", "/", tt.serverStatus, Release{
					TagName: tt.latestVersion,
					HTMLURL: "https://github.com/klappstuhl/stalmail/releases/latest",
				})
			} else {
				ms.HandleError("GET", "/", tt.serverStatus, "boom")
			}

			oldURL := GitHubReleasesURL
			GitHubReleasesURL = ms.URL() + "/"
			defer func() { GitHubReleasesURL = oldURL }()

			result := CheckForUpdate(context.Background(), tt.currentVersion)

			if tt.serverStatus != http.StatusOK {
				if result != nil {
					t.Errorf("expected nil for server error, got %+v", result)
				}
				return
			}
			if result == nil {
				t.Fatal("expected non-nil result")
			}
			if result.UpdateAvailable != tt.wantAvailable {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.wantAvailable)
			}
			if result.UpdateAvailable && result.UpdateURL == "" {
				t.Error("available update carries no URL")
			}
		})
	}
}
