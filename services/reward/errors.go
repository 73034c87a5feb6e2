package reward

import "lenz-rewards/pkg/errutil"

var (
	// ErrNoEligibleCreators is terminal for a run: nothing is persisted and
	// retrying without new interactions cannot succeed.
	ErrNoEligibleCreators = errutil.UnprocessableEntity("no eligible creators for reward distribution", nil)

	// ErrDistributionExists guards the one-distribution-per-week invariant.
	ErrDistributionExists = errutil.Conflict("reward distribution already exists for this week", nil)
)
