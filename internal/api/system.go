package api

import (
	"context"

	"github.com/beevik/etree"
)

// Info retrieves version and runtime details about the server.
func (s SystemService) Info(ctx context.Context) (*SystemInfo, error) {
	info, err := apiGet(ctx, s.Client, NewPath("/system/info"), func(doc *etree.Document) (SystemInfo, error) {
		return parseObjectAt(doc, "result/system", parseSystemInfo)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}
