package lifecycle

import (
	"sort"
	"time"

	"github.com/spec-kit/benefits-service/internal/domain"
)

// RenewalWindow is how far ahead an upcoming renewal is surfaced.
// Six months is approximated as 180 days.
const RenewalWindow = 180 * 24 * time.Hour

// RenewalTier classifies how urgently a case must be renewed.
type RenewalTier string

const (
	TierNeedsRenewalNow     RenewalTier = "needs_renewal_now"
	TierPendingConfirmation RenewalTier = "pending_confirmation"
	TierRenewalIn6Months    RenewalTier = "renewal_in_6_months"
	TierOK                  RenewalTier = "ok"
	TierRenewed             RenewalTier = "renewed"
)

var tierRank = map[RenewalTier]int{
	TierNeedsRenewalNow:     0,
	TierPendingConfirmation: 1,
	TierRenewalIn6Months:    2,
	TierOK:                  3,
	TierRenewed:             4,
}

// Rank orders tiers for the admin dashboard, most urgent first.
func (t RenewalTier) Rank() int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return tierRank[TierRenewalIn6Months]
}

// ClassifyRenewal computes the renewal tier. It never fails; a missing
// renewal date means no renewal is tracked.
func ClassifyRenewal(renewalDate *time.Time, isRenewed, adminConfirmedCompleted bool, now time.Time) RenewalTier {
	if isRenewed {
		return TierRenewed
	}
	if renewalDate == nil || renewalDate.IsZero() {
		return TierOK
	}
	if !renewalDate.After(now) {
		return TierNeedsRenewalNow
	}
	if renewalDate.Sub(now) <= RenewalWindow {
		if adminConfirmedCompleted {
			return TierRenewalIn6Months
		}
		return TierPendingConfirmation
	}
	return TierOK
}

// ClassifyCase is ClassifyRenewal over a case snapshot.
func ClassifyCase(c domain.Case, now time.Time) RenewalTier {
	return ClassifyRenewal(c.RenewalDate, c.IsRenewed, c.AdminConfirmedCompleted, now)
}

// RenewalFilter selects cases on the admin dashboard.
type RenewalFilter string

const (
	FilterAll              RenewalFilter = "all"
	FilterNeedsRenewal     RenewalFilter = "needs_renewal"
	FilterRenewalIn6Months RenewalFilter = "renewal_in_6_months"
)

// ParseRenewalFilter maps query values to a filter, defaulting to FilterAll.
func ParseRenewalFilter(raw string) RenewalFilter {
	switch RenewalFilter(raw) {
	case FilterNeedsRenewal, FilterRenewalIn6Months:
		return RenewalFilter(raw)
	}
	return FilterAll
}

// Matches reports whether a tier passes the filter. The needs_renewal filter
// also covers cases still waiting for admin confirmation.
func (f RenewalFilter) Matches(t RenewalTier) bool {
	switch f {
	case FilterNeedsRenewal:
		return t == TierNeedsRenewalNow || t == TierPendingConfirmation
	case FilterRenewalIn6Months:
		return t == TierRenewalIn6Months
	default:
		return true
	}
}

// ClassifiedCase pairs a case with its tier at classification time.
type ClassifiedCase struct {
	Case domain.Case
	Tier RenewalTier
}

// ClassifyAll tags every case with its tier.
func ClassifyAll(cases []domain.Case, now time.Time) []ClassifiedCase {
	out := make([]ClassifiedCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, ClassifiedCase{Case: c, Tier: ClassifyCase(c, now)})
	}
	return out
}

// SortByRenewal orders cases by tier rank, then by ascending renewal date.
// Missing dates sort as the epoch.
func SortByRenewal(items []ClassifiedCase) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Tier.Rank(), items[j].Tier.Rank()
		if ri != rj {
			return ri < rj
		}
		return renewalUnix(items[i].Case).Before(renewalUnix(items[j].Case))
	})
}

func renewalUnix(c domain.Case) time.Time {
	if c.RenewalDate == nil {
		return time.Unix(0, 0)
	}
	return *c.RenewalDate
}

// Dashboard filters and sorts cases for the admin renewal view.
func Dashboard(cases []domain.Case, filter RenewalFilter, now time.Time) []ClassifiedCase {
	all := ClassifyAll(cases, now)
	out := make([]ClassifiedCase, 0, len(all))
	for _, item := range all {
		if filter.Matches(item.Tier) {
			out = append(out, item)
		}
	}
	SortByRenewal(out)
	return out
}

// RenewalSummary counts cases per tier for the dashboard header.
type RenewalSummary struct {
	NeedsRenewalNow     int
	PendingConfirmation int
	Immediate           int
	RenewalIn6Months    int
	OK                  int
	Renewed             int
}

// Summarize counts tiers over the unfiltered case set.
func Summarize(cases []domain.Case, now time.Time) RenewalSummary {
	var s RenewalSummary
	for _, c := range cases {
		switch ClassifyCase(c, now) {
		case TierNeedsRenewalNow:
			s.NeedsRenewalNow++
		case TierPendingConfirmation:
			s.PendingConfirmation++
		case TierRenewalIn6Months:
			s.RenewalIn6Months++
		case TierOK:
			s.OK++
		case TierRenewed:
			s.Renewed++
		}
	}
	s.Immediate = s.NeedsRenewalNow + s.PendingConfirmation
	return s
}
