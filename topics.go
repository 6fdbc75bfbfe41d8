package nanows

import (
	"context"
	"strconv"
)

// Bool returns a pointer to b, for the tri-state option fields below.
func Bool(b bool) *bool { return &b }

// ConfirmationOptions narrows a confirmation subscription. Nil pointer
// fields leave the option out of the frame entirely; set fields are
// serialized as the strings "true"/"false" the node expects.
type ConfirmationOptions struct {
	Accounts            []string
	AllLocalAccounts    *bool
	IncludeBlock        *bool
	IncludeSidebandInfo *bool
	IncludeElectionInfo *bool
}

func (o *ConfirmationOptions) toMap() map[string]any {
	opts := map[string]any{}
	if o == nil {
		return opts
	}
	if len(o.Accounts) > 0 {
		opts["accounts"] = o.Accounts
	}
	putBool(opts, "all_local_accounts", o.AllLocalAccounts)
	putBool(opts, "include_block", o.IncludeBlock)
	putBool(opts, "include_sideband_info", o.IncludeSidebandInfo)
	putBool(opts, "include_election_info", o.IncludeElectionInfo)
	return opts
}

// VoteOptions narrows a vote subscription. The replay and indeterminate
// flags are always sent, defaulting to false.
type VoteOptions struct {
	Representatives      []string
	IncludeReplays       bool
	IncludeIndeterminate bool
}

func (o *VoteOptions) toMap() map[string]any {
	if o == nil {
		o = &VoteOptions{}
	}
	opts := map[string]any{
		"include_replays":       strconv.FormatBool(o.IncludeReplays),
		"include_indeterminate": strconv.FormatBool(o.IncludeIndeterminate),
	}
	if len(o.Representatives) > 0 {
		opts["representatives"] = o.Representatives
	}
	return opts
}

func putBool(opts map[string]any, key string, v *bool) {
	if v != nil {
		opts[key] = strconv.FormatBool(*v)
	}
}

// SubscribeConfirmation subscribes to block confirmations, optionally
// filtered to specific accounts.
func (c *Client) SubscribeConfirmation(ctx context.Context, options *ConfirmationOptions, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicConfirmation, options.toMap(), opts...)
}

// SubscribeVote subscribes to vote events, optionally filtered to
// specific representatives.
func (c *Client) SubscribeVote(ctx context.Context, options *VoteOptions, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicVote, options.toMap(), opts...)
}

// SubscribeTelemetry subscribes to node telemetry events.
func (c *Client) SubscribeTelemetry(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicTelemetry, nil, opts...)
}

// SubscribeStartedElection subscribes to election start events.
func (c *Client) SubscribeStartedElection(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicStartedElection, nil, opts...)
}

// SubscribeStoppedElection subscribes to election stop events.
func (c *Client) SubscribeStoppedElection(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicStoppedElection, nil, opts...)
}

// SubscribeNewUnconfirmedBlock subscribes to blocks as they arrive,
// before confirmation.
func (c *Client) SubscribeNewUnconfirmedBlock(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicNewUnconfirmedBlock, nil, opts...)
}

// SubscribeBootstrap subscribes to bootstrap attempt events.
func (c *Client) SubscribeBootstrap(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicBootstrap, nil, opts...)
}

// SubscribeActiveDifficulty subscribes to active difficulty updates.
func (c *Client) SubscribeActiveDifficulty(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicActiveDifficulty, nil, opts...)
}

// SubscribeWork subscribes to work generation events.
func (c *Client) SubscribeWork(ctx context.Context, opts ...RequestOption) error {
	return c.Subscribe(ctx, TopicWork, nil, opts...)
}

// UnsubscribeConfirmation cancels a confirmation subscription.
func (c *Client) UnsubscribeConfirmation(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicConfirmation, opts...)
}

// UnsubscribeVote cancels a vote subscription.
func (c *Client) UnsubscribeVote(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicVote, opts...)
}

// UnsubscribeTelemetry cancels a telemetry subscription.
func (c *Client) UnsubscribeTelemetry(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicTelemetry, opts...)
}

// UnsubscribeStartedElection cancels an election start subscription.
func (c *Client) UnsubscribeStartedElection(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicStartedElection, opts...)
}

// UnsubscribeStoppedElection cancels an election stop subscription.
func (c *Client) UnsubscribeStoppedElection(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicStoppedElection, opts...)
}

// UnsubscribeNewUnconfirmedBlock cancels an unconfirmed block
// subscription.
func (c *Client) UnsubscribeNewUnconfirmedBlock(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicNewUnconfirmedBlock, opts...)
}

// UnsubscribeBootstrap cancels a bootstrap subscription.
func (c *Client) UnsubscribeBootstrap(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicBootstrap, opts...)
}

// UnsubscribeActiveDifficulty cancels an active difficulty subscription.
func (c *Client) UnsubscribeActiveDifficulty(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicActiveDifficulty, opts...)
}

// UnsubscribeWork cancels a work subscription.
func (c *Client) UnsubscribeWork(ctx context.Context, opts ...RequestOption) error {
	return c.Unsubscribe(ctx, TopicWork, opts...)
}
