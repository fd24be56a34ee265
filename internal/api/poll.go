package api

import (
	"context"
	"time"
)

// runToCompletion fires the trigger once, then polls the execution's status
// at the client's poll interval until it leaves the running state.
//
// Cancelling the context during the sleep is a deliberate early exit, not a
// failure: the last known handle is returned with a nil error, which may
// still be in the running state. Errors from the trigger or from a status
// re-fetch propagate immediately. There is no retry cap and no backoff;
// termination relies on the remote execution finishing, or on the caller's
// context.
func (c *Client) runToCompletion(ctx context.Context, trigger func(context.Context) (*Execution, error)) (*Execution, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	execution, err := trigger(ctx)
	if err != nil {
		return nil, err
	}
	for execution.Status == ExecutionRunning {
		if err := sleepWithContext(ctx, interval); err != nil {
			return execution, nil
		}
		execution, err = c.Executions().Get(ctx, execution.ID)
		if err != nil {
			return nil, err
		}
	}
	return execution, nil
}

// sleepWithContext waits for the duration or returns early on context
// cancellation.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
