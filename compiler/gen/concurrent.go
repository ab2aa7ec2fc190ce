package gen

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/relgraph/compiler/load"
)

// ResolveAll builds one graph per configuration over the same schemas,
// concurrently. Configurations are copied; a configuration without a
// diagnostics collector gets its own. The first failure cancels the
// remaining builds and no graph is returned.
func ResolveAll(ctx context.Context, schemas []*load.Schema, cfgs ...*Config) ([]*Graph, error) {
	graphs := make([]*Graph, len(cfgs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		c := &Config{}
		if cfg != nil {
			*c = *cfg
		}
		if c.Diagnostics == nil {
			c.Diagnostics = NewDiagnostics()
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := NewGraph(c, schemas...)
			if err != nil {
				return err
			}
			graphs[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}
