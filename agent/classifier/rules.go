package classifier

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/chative-support-router/agent/contract"
)

// Rule fires when every phrase in AllOf occurs in the request, ignoring case.
type Rule struct {
	Route contractx.Route
	AllOf []string
}

func (r Rule) matches(lowerText string) bool {
	if len(r.AllOf) == 0 {
		return false
	}
	for _, phrase := range r.AllOf {
		if !strings.Contains(lowerText, strings.ToLower(phrase)) {
			return false
		}
	}
	return true
}

// DefaultRules is evaluated top to bottom; the first matching rule wins and a request
// that matches nothing falls through to RouteFallback.
var DefaultRules = []Rule{
	{Route: contractx.RouteSimpleLookup, AllOf: []string{"Get customer information for ID"}},
	{Route: contractx.RouteTaskAllocation, AllOf: []string{"I need help with my account", "customer ID"}},
	{Route: contractx.RouteBillingCancellation, AllOf: []string{"cancel my subscription", "billing"}},
	{Route: contractx.RoutePremiumHighPriority, AllOf: []string{"status of all high-priority tickets for premium customers"}},
	{Route: contractx.RouteActiveOpenTickets, AllOf: []string{"Show me all active customers who have open tickets"}},
	{Route: contractx.RouteUrgentRefund, AllOf: []string{"charged twice", "refund"}},
	{Route: contractx.RouteEmailUpdateHistory, AllOf: []string{"Update my email to", "show my ticket history"}},
	{Route: contractx.RouteUpgradeAccount, AllOf: []string{"upgrad", "account"}},
}

// Rules is the deterministic classifier: an ordered rule table.
type Rules struct {
	table []Rule
}

var _ contractx.Classifier = (*Rules)(nil)

// NewRules copies table; a nil table selects DefaultRules.
func NewRules(table []Rule) *Rules {
	if table == nil {
		table = DefaultRules
	}
	return &Rules{table: append([]Rule(nil), table...)}
}

func (r *Rules) Classify(ctx context.Context, text string) (contractx.Route, error) {
	route, _ := r.Match(text)
	return route, nil
}

// Match returns the selected route and the index of the rule that fired, or -1 when
// the request fell through to the fallback.
func (r *Rules) Match(text string) (contractx.Route, int) {
	lower := strings.ToLower(text)
	for i, rule := range r.table {
		if rule.matches(lower) {
			return rule.Route, i
		}
	}
	return contractx.RouteFallback, -1
}
