package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// List retrieves all projects.
func (s ProjectsService) List(ctx context.Context) ([]Project, error) {
	return apiGet(ctx, s.Client, NewPath("/projects"), func(doc *etree.Document) ([]Project, error) {
		return parseListAt(doc, "result/projects/project", parseProject)
	})
}

// Get retrieves a single project by name.
func (s ProjectsService) Get(ctx context.Context, name string) (*Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("project name is mandatory")
	}
	project, err := apiGet(ctx, s.Client, NewPath("/project/", name), func(doc *etree.Document) (Project, error) {
		return parseObjectAt(doc, "result/projects/project", parseProject)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}
