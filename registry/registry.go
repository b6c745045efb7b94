package registry

import (
	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
)

// Media is a registered publisher tenant.
type Media struct {
	Account  ad.Account `json:"account"`
	Operator ad.Account `json:"operator"`
	Metadata string     `json:"metadata"`
}

// MediaRegistry tracks media accounts and their operators. It is not safe
// for concurrent use; the facade serializes access.
type MediaRegistry struct {
	sink       events.Sink
	media      map[ad.Account]*Media
	byOperator map[ad.Account]ad.Account
}

// NewMediaRegistry creates an empty registry.
func NewMediaRegistry(sink events.Sink) *MediaRegistry {
	return &MediaRegistry{
		sink:       sink,
		media:      make(map[ad.Account]*Media),
		byOperator: make(map[ad.Account]ad.Account),
	}
}

// NewMedia registers a media account under an operating account.
func (r *MediaRegistry) NewMedia(account, operator ad.Account, metadata string) error {
	if _, ok := r.media[account]; ok {
		return ad.ErrMediaExists
	}
	r.media[account] = &Media{Account: account, Operator: operator, Metadata: metadata}
	r.byOperator[operator] = account
	r.sink.Emit(events.NewMedia{Account: account, Operator: operator, Metadata: metadata})
	return nil
}

// UpdateMedia re-keys a media account to a new operator and metadata. Only
// the current operator may update; once re-keyed, the old operator loses
// all access.
func (r *MediaRegistry) UpdateMedia(caller, account, newOperator ad.Account, metadata string) error {
	m, ok := r.media[account]
	if !ok {
		return ad.ErrMediaNotFound
	}
	if m.Operator != caller {
		return ad.ErrNotMediaOperator
	}
	delete(r.byOperator, m.Operator)
	m.Operator = newOperator
	m.Metadata = metadata
	r.byOperator[newOperator] = account
	r.sink.Emit(events.UpdateMedia{Account: account, Operator: newOperator, Metadata: metadata})
	return nil
}

// Media returns the registered media record.
func (r *MediaRegistry) Media(account ad.Account) (*Media, error) {
	m, ok := r.media[account]
	if !ok {
		return nil, ad.ErrMediaNotFound
	}
	return m, nil
}

// IsOperator reports whether caller may act for the media account. An
// unregistered account is operated only by itself, so plain accounts can
// own spaces without tenant provisioning.
func (r *MediaRegistry) IsOperator(caller, media ad.Account) bool {
	if m, ok := r.media[media]; ok {
		return m.Operator == caller
	}
	return caller == media
}

// ActingAccount maps a caller to the media account it operates, or to
// itself when it operates none.
func (r *MediaRegistry) ActingAccount(caller ad.Account) ad.Account {
	if media, ok := r.byOperator[caller]; ok {
		return media
	}
	return caller
}
