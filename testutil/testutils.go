package testutil

import (
	"github.com/shuuuting95/kaleido-core/ad"
)

// Clock is a manually controlled clock for tests.
type Clock struct {
	now int64
}

// NewClock starts a clock at the given unix time.
func NewClock(now int64) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() int64 { return c.now }

// Advance moves the clock forward by d seconds.
func (c *Clock) Advance(d int64) { c.now += d }

// Set jumps the clock to a specific time.
func (c *Clock) Set(now int64) { c.now = now }

// Canonical test principals, mirroring the deployment roles: a media
// tenant with its operating account, two buyers, and a bystander.
const (
	MediaAccount  ad.Account = "media:bridges"
	MediaOperator ad.Account = "acct:media-operator"
	Buyer         ad.Account = "acct:buyer"
	OtherBuyer    ad.Account = "acct:other-buyer"
	Stranger      ad.Account = "acct:stranger"
)
