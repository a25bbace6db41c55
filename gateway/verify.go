package gateway

import (
	"context"

	"github.com/alovak/bacgateway/gateway/models"
	"golang.org/x/exp/slog"
)

// VerifyAmount is the nominal authorization amount used by Verify, in minor units.
const VerifyAmount int64 = 100

type step struct {
	name string
	run  func(ctx context.Context, primary models.Result) (models.Result, error)
	// ignoreResult steps run for their side effect only.
	ignoreResult bool
}

// multiResponse runs steps in order and returns the first non-ignored
// step's result. An error from a non-ignored step stops the run.
type multiResponse struct {
	logger *slog.Logger
	steps  []step
}

func (m multiResponse) run(ctx context.Context) (models.Result, error) {
	var primary models.Result
	for _, s := range m.steps {
		res, err := s.run(ctx, primary)
		if s.ignoreResult {
			switch {
			case err != nil:
				m.logger.Warn("ignored step failed", slog.String("step", s.name), "err", err)
			case !res.Succeeded:
				m.logger.Warn("ignored step declined", slog.String("step", s.name), slog.String("message", res.Message))
			}
			continue
		}
		if err != nil {
			return models.Result{}, err
		}
		primary = res
	}
	return primary, nil
}

// Verify checks a card by authorizing VerifyAmount and voiding the
// authorization. The void runs whatever the authorization outcome, with
// whatever identifier it returned; only the authorization's result is
// returned.
func (g *Gateway) Verify(ctx context.Context, card models.CreditCard, opts models.Options) (models.Result, error) {
	m := multiResponse{
		logger: g.logger.With(slog.String("flow", "verify")),
		steps: []step{
			{
				name: "authorize",
				run: func(ctx context.Context, _ models.Result) (models.Result, error) {
					return g.Authorize(ctx, VerifyAmount, card, opts)
				},
			},
			{
				name: "void",
				run: func(ctx context.Context, auth models.Result) (models.Result, error) {
					return g.Void(ctx, auth.Authorization, opts)
				},
				ignoreResult: true,
			},
		},
	}
	return m.run(ctx)
}
