// Package review manages the content approval workflow for sold periods:
// the buyer proposes content, the space owner accepts or denies it, and
// accepted content is served while the period's display window is active.
//
// The workflow owns Proposal records keyed by token id and reads period
// state through a narrow interface; it never owns or mutates periods.
package review
