package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/sync/errgroup"
)

// List retrieves the nodes of a project, optionally filtered.
func (s NodesService) List(ctx context.Context, project string, filters NodeFilters) ([]Node, error) {
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to list nodes")
	}
	path := NewPath("/resources").
		Param("project", project).
		NodeFilters(filters)
	return apiGet(ctx, s.Client, path, func(doc *etree.Document) ([]Node, error) {
		return parseListAt(doc, "project/node", parseNode)
	})
}

// ListAll retrieves the nodes of every project, fanning out with bounded
// concurrency. The result is sorted by node name.
func (s NodesService) ListAll(ctx context.Context) ([]Node, error) {
	projects, err := s.Client.Projects().List(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var all []Node
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)
	for _, project := range projects {
		g.Go(func() error {
			nodes, err := s.List(ctx, project.Name, NodeFilters{})
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, nodes...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// Get retrieves the definition of a single node.
func (s NodesService) Get(ctx context.Context, name, project string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("the node name is mandatory to get a node")
	}
	if project == "" {
		return nil, fmt.Errorf("project is mandatory to get a node")
	}
	path := NewPath("/resource/", name).Param("project", project)
	node, err := apiGet(ctx, s.Client, path, func(doc *etree.Document) (Node, error) {
		return parseObjectAt(doc, "project/node", parseNode)
	})
	if err != nil {
		return nil, err
	}
	return &node, nil
}
