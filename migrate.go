package versionchain

import (
	"context"

	"go.uber.org/zap"
)

// forward applies the steps k -> k+1 -> ... -> n to v. The first failing step
// ends the migration; no intermediate value is ever returned.
func (c *chainCore) forward(ctx context.Context, k int, v any) (any, error) {
	n := len(c.links) - 1
	for i := k; i < n; i++ {
		from, to := c.links[i], c.links[i+1]
		out, err := to.convert(ctx, v)
		if err != nil {
			cause := to.mapErr(err)
			if cause == nil {
				cause = err
			}
			c.log.Warn("conversion failed",
				zap.Int("step", i),
				zap.String("from", from.name),
				zap.String("to", to.name),
				zap.Error(cause),
			)
			return nil, &MigrationError{
				Kind:  KindConversionFailed,
				Step:  i,
				From:  from.name,
				To:    to.name,
				Cause: cause,
			}
		}
		c.log.Debug("converted",
			zap.Int("step", i),
			zap.String("from", from.name),
			zap.String("to", to.name),
		)
		v = out
	}
	return v, nil
}
