package cmd

import (
	"context"
	"strings"
	"testing"
)

const projectsListXML = `<result success="true" apiversion="2">
  <projects count="2">
    <project>
      <name>ops</name>
      <description>Operations jobs</description>
    </project>
    <project>
      <name>reporting</name>
      <description/>
    </project>
  </projects>
</result>`

func TestProjectsListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/projects", xmlResponse(200, projectsListXML))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"projects", "list"}); err != nil {
			t.Errorf("projects list failed: %v", err)
		}
	})

	if !strings.Contains(output, "ops") || !strings.Contains(output, "reporting") {
		t.Errorf("output missing project names: %s", output)
	}
	if !strings.Contains(output, "Operations jobs") {
		t.Errorf("output missing description: %s", output)
	}
	if !strings.Contains(output, "NAME") {
		t.Errorf("output missing header: %s", output)
	}
}

func TestProjectsListCommand_JSONWithJQ(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/projects", xmlResponse(200, projectsListXML))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"projects", "list", "-o", "json", "--jq", ".[0].name"}); err != nil {
			t.Errorf("projects list failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != `"ops"` {
		t.Errorf("jq output = %q, want %q", strings.TrimSpace(output), `"ops"`)
	}
}

func TestProjectsListCommand_Empty(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/projects", xmlResponse(200, `<result success="true"><projects count="0"/></result>`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"projects", "list"}); err != nil {
			t.Errorf("projects list failed: %v", err)
		}
	})

	if !strings.Contains(stderr, "No projects found") {
		t.Errorf("stderr missing empty message: %s", stderr)
	}
}

func TestProjectsGetCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/project/ops", xmlResponse(200, `<result success="true">
  <projects count="1">
    <project>
      <name>ops</name>
      <description>Operations jobs</description>
      <resources>
        <providerURL>http://internal/resources.xml</providerURL>
      </resources>
    </project>
  </projects>
</result>`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"projects", "get", "ops"}); err != nil {
			t.Errorf("projects get failed: %v", err)
		}
	})

	if !strings.Contains(output, "ops") {
		t.Errorf("output missing name: %s", output)
	}
	if !strings.Contains(output, "http://internal/resources.xml") {
		t.Errorf("output missing resource provider URL: %s", output)
	}
}

func TestProjectsGetCommand_ServerError(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/2/project/nope", xmlResponse(200, `<result error="true" apiversion="2">
  <error code="api.error.project.missing">
    <message>project does not exist: nope</message>
  </error>
</result>`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		err := Execute(context.Background(), []string{"projects", "get", "nope"})
		if err == nil {
			t.Error("expected error for missing project")
		}
	})

	if !strings.Contains(stderr, "project does not exist") {
		t.Errorf("stderr missing server message: %s", stderr)
	}
}
