package review

import (
	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
)

// PeriodSource is the view of the auction engine the workflow needs.
type PeriodSource interface {
	Period(tokenID ad.TokenID) (*ad.Period, error)
	PeriodsOf(spaceID string) []*ad.Period
	SpaceOwner(spaceID string) (ad.Account, error)
}

// AccountResolver answers whether a caller may act for a media account.
type AccountResolver interface {
	IsOperator(caller, media ad.Account) bool
}

// Workflow runs the propose/accept/deny/display cycle. It is not safe for
// concurrent use; the facade serializes access.
type Workflow struct {
	periods  PeriodSource
	accounts AccountResolver
	sink     events.Sink

	proposals map[ad.TokenID]*ad.Proposal
	// accepted holds approved content per token, keyed separately because
	// acceptance clears the proposal's metadata field.
	accepted map[ad.TokenID]string
}

// NewWorkflow wires a workflow over the period source.
func NewWorkflow(periods PeriodSource, accounts AccountResolver, sink events.Sink) *Workflow {
	return &Workflow{
		periods:   periods,
		accounts:  accounts,
		sink:      sink,
		proposals: make(map[ad.TokenID]*ad.Proposal),
		accepted:  make(map[ad.TokenID]string),
	}
}

// Propose submits content for a period the caller bought. Resubmitting
// before acceptance overwrites the prior proposal; once a proposal has
// been accepted the period takes no further submissions.
func (w *Workflow) Propose(caller ad.Account, tokenID ad.TokenID, metadata string) error {
	p, err := w.periods.Period(tokenID)
	if err != nil {
		return err
	}
	if !p.Sold || p.Owner != caller {
		return ad.ErrNotTokenOwner
	}
	if prior, ok := w.proposals[tokenID]; ok && prior.Accepted {
		return ad.ErrAlreadyAccepted
	}

	w.proposals[tokenID] = &ad.Proposal{TokenID: tokenID, Metadata: metadata, Proposer: caller}
	w.sink.Emit(events.Propose{TokenID: tokenID, Metadata: metadata})
	return nil
}

// AcceptProposal approves the pending content. The metadata field is
// consumed; the proposer reference is retained for audit. Acceptance fails
// if the period has been transferred away from the proposer since.
func (w *Workflow) AcceptProposal(caller ad.Account, tokenID ad.TokenID) error {
	p, err := w.periods.Period(tokenID)
	if err != nil {
		return err
	}
	owner, err := w.periods.SpaceOwner(p.SpaceID)
	if err != nil {
		return err
	}
	if !w.accounts.IsOperator(caller, owner) {
		return ad.ErrNotSpaceOwner
	}
	proposal, ok := w.proposals[tokenID]
	if !ok || proposal.Metadata == "" {
		return ad.ErrNoProposal
	}
	if p.Owner != proposal.Proposer {
		return ad.ErrTokenTransferred
	}

	metadata := proposal.Metadata
	w.accepted[tokenID] = metadata
	proposal.Metadata = ""
	proposal.Accepted = true

	w.sink.Emit(events.AcceptProposal{TokenID: tokenID, Metadata: metadata})
	return nil
}

// DenyProposal rejects the pending content with a reason. The proposal is
// left in place so the proposer may resubmit.
func (w *Workflow) DenyProposal(caller ad.Account, tokenID ad.TokenID, reason string, offensive bool) error {
	p, err := w.periods.Period(tokenID)
	if err != nil {
		return err
	}
	owner, err := w.periods.SpaceOwner(p.SpaceID)
	if err != nil {
		return err
	}
	if !w.accounts.IsOperator(caller, owner) {
		return ad.ErrNotSpaceOwner
	}
	proposal, ok := w.proposals[tokenID]
	if !ok || proposal.Metadata == "" {
		return ad.ErrNoProposal
	}

	w.sink.Emit(events.DenyProposal{
		TokenID:   tokenID,
		Metadata:  proposal.Metadata,
		Reason:    reason,
		Offensive: offensive,
	})
	return nil
}

// Display returns the accepted content whose period display window
// contains now, or empty values when nothing is on display.
func (w *Workflow) Display(spaceID string, now int64) (string, ad.TokenID) {
	for _, p := range w.periods.PeriodsOf(spaceID) {
		if now < p.DisplayStart || now >= p.DisplayEnd {
			continue
		}
		if metadata, ok := w.accepted[p.TokenID]; ok {
			return metadata, p.TokenID
		}
	}
	return "", ad.ZeroToken
}

// Proposed returns the proposal record for a period, if any.
func (w *Workflow) Proposed(tokenID ad.TokenID) (*ad.Proposal, error) {
	proposal, ok := w.proposals[tokenID]
	if !ok {
		return nil, ad.ErrNoProposal
	}
	return proposal, nil
}
