package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

const nodesListXML = `<project>
  <node name="web1" type="Node" description="Front web server"
        hostname="web1.internal:22" osArch="amd64" osFamily="unix"
        osName="Linux" osVersion="5.15" username="deploy"
        tags="web,frontend"/>
  <node name="db1" type="Node" description=""
        hostname="db1.internal:22" osArch="amd64" osFamily="unix"
        osName="Linux" osVersion="6.1" username="deploy"
        tags="db"/>
</project>`

func TestNodesListCommand(t *testing.T) {
	var query string
	handler := newRouteHandler().
		On("GET", "/api/2/resources", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			xmlResponse(200, nodesListXML)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"nodes", "list", "--project", "ops", "--node-tags", "web"})
		if err != nil {
			t.Errorf("nodes list failed: %v", err)
		}
	})

	if !strings.Contains(output, "web1") || !strings.Contains(output, "db1") {
		t.Errorf("output missing nodes: %s", output)
	}
	if !strings.Contains(output, "web,frontend") {
		t.Errorf("output missing tags: %s", output)
	}
	if !strings.Contains(query, "project=ops") || !strings.Contains(query, "tags=web") {
		t.Errorf("query missing filters: %s", query)
	}
}

func TestNodesGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/resource/web1", xmlResponse(200, `<project>
  <node name="web1" type="Node" description="Front web server"
        hostname="web1.internal:22" osArch="amd64" osFamily="unix"
        osName="Linux" osVersion="5.15" username="deploy"
        tags="web,frontend"/>
</project>`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"nodes", "get", "web1", "--project", "ops"})
		if err != nil {
			t.Errorf("nodes get failed: %v", err)
		}
	})

	if !strings.Contains(output, "web1.internal:22") {
		t.Errorf("output missing hostname: %s", output)
	}
	if !strings.Contains(output, "Linux 5.15 amd64") {
		t.Errorf("output missing OS summary: %s", output)
	}
}

func TestNodesGetCommand_RequiresProject(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	stderr := captureStderr(t, func() {
		err := Execute(context.Background(), []string{"nodes", "get", "web1"})
		if err == nil {
			t.Error("expected error without --project")
		}
	})

	if !strings.Contains(stderr, "--project is required") {
		t.Errorf("stderr = %q, want project requirement", stderr)
	}
}
