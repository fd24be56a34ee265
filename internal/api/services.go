package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so call sites read client.Jobs().Run(...).

type ProjectsService struct{ *Client }

type JobsService struct{ *Client }

type ExecutionsService struct{ *Client }

type AdhocService struct{ *Client }

type NodesService struct{ *Client }

type HistoryService struct{ *Client }

type SystemService struct{ *Client }

func (c *Client) Projects() ProjectsService {
	return ProjectsService{c}
}

func (c *Client) Jobs() JobsService {
	return JobsService{c}
}

func (c *Client) Executions() ExecutionsService {
	return ExecutionsService{c}
}

func (c *Client) Adhoc() AdhocService {
	return AdhocService{c}
}

func (c *Client) Nodes() NodesService {
	return NodesService{c}
}

func (c *Client) History() HistoryService {
	return HistoryService{c}
}

func (c *Client) System() SystemService {
	return SystemService{c}
}
