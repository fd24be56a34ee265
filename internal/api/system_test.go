package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSystemInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2/system/info" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<result success="true">
			<system>
				<timestamp epoch="1311946495646" unit="ms"/>
				<rundeck>
					<version>1.2.1</version>
					<build>1.2.1-0</build>
					<node>strongbad</node>
				</rundeck>
				<os><arch>amd64</arch><name>Linux</name><version>2.6.32</version></os>
				<stats>
					<uptime duration="300584"><since epoch="1311946195062"/></uptime>
					<scheduler><running>2</running></scheduler>
				</stats>
			</system>
		</result>`))
	}))
	defer server.Close()

	info, err := newTestTokenClient(server.URL).System().Info(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Version != "1.2.1" || info.Node != "strongbad" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.RunningJobs != 2 {
		t.Errorf("runningJobs = %d, want 2", info.RunningJobs)
	}
}
