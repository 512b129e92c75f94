/*
Package resilience provides the circuit breaker that sits in front of every
outbound collaborator: the remote assist and generation gateway and the
upstream chat-completions API.

A failing collaborator is answered fast with ErrOpen instead of tying up
handler goroutines until its timeout. Answers that say nothing about the
collaborator's health (a 402 or 429 relayed to the user) are marked with
Policy.Ignore and never count as failures.

# Usage

	policy := resilience.DefaultPolicy()
	policy.Ignore = isClientError
	policy.OnTransition = func(name string, from, to resilience.State) {
		logger.Warn("circuit breaker state change",
			zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
	}
	breaker := resilience.New("gateway", policy)

	err := breaker.Guard(func() error {
		return post(ctx, body)
	})

	text, err := resilience.Do(breaker, func() (string, error) {
		return upstream.Complete(ctx, system, user)
	})

# States

	closed --[TripAfter straight failures or TripRatio]--> open
	open --[Cooldown]--> half-open
	half-open --[Trials successes]--> closed
	half-open --[any failure]--> open
*/
package resilience
