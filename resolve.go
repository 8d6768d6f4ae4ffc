package versionchain

import (
	"context"

	"go.uber.org/zap"
)

// Resolution is the outcome of a successful resolve: the matched chain index,
// its version name and the decoded value of that version.
type Resolution struct {
	Index   int
	Version string
	Value   any
}

type chainCore struct {
	links []link
	log   *zap.Logger
}

// resolve scans from newest to oldest and returns the first version that
// decodes payload. Failed attempts are expected and only surface when every
// version fails.
func (c *chainCore) resolve(ctx context.Context, payload []byte) (Resolution, error) {
	attempts := make([]AttemptError, 0, len(c.links))
	for k := len(c.links) - 1; k >= 0; k-- {
		l := c.links[k]
		v, err := l.decode(ctx, payload)
		if err == nil {
			c.log.Debug("version resolved",
				zap.String("version", l.name),
				zap.Int("index", k),
				zap.Int("attempts", len(attempts)+1),
			)
			return Resolution{Index: k, Version: l.name, Value: v}, nil
		}
		c.log.Debug("decode attempt failed",
			zap.String("version", l.name),
			zap.Int("index", k),
			zap.Error(err),
		)
		attempts = append(attempts, AttemptError{Index: k, Version: l.name, Err: err})
	}
	oldest := attempts[len(attempts)-1]
	return Resolution{}, &MigrationError{
		Kind:     KindNoVersionMatched,
		From:     oldest.Version,
		Cause:    oldest.Err,
		Attempts: attempts,
	}
}

func (c *chainCore) index(name string) int {
	for i, l := range c.links {
		if l.name == name {
			return i
		}
	}
	return -1
}

func (c *chainCore) versions() []VersionInfo {
	out := make([]VersionInfo, len(c.links))
	for i, l := range c.links {
		out[i] = VersionInfo{Index: i, Name: l.name, Fallible: l.fallible}
	}
	return out
}
