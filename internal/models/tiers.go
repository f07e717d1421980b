package models

// Digest frequencies.
const (
	DigestRealtime = "realtime"
	DigestWeekly   = "weekly"
)

// PlanLimits are the entitlements granted by a plan.
type PlanLimits struct {
	MaxServices    int
	HistoryDays    int
	RealtimeAlerts bool
	Webhooks       bool
	Digest         string
	Seats          int
}

var planLimits = map[Plan]PlanLimits{
	PlanFree: {
		MaxServices: 2,
		HistoryDays: 3,
		Digest:      DigestWeekly,
		Seats:       1,
	},
	PlanPro: {
		MaxServices:    15,
		HistoryDays:    365,
		RealtimeAlerts: true,
		Digest:         DigestRealtime,
		Seats:          1,
	},
	PlanBusiness: {
		MaxServices:    999,
		HistoryDays:    1095,
		RealtimeAlerts: true,
		Webhooks:       true,
		Digest:         DigestRealtime,
		Seats:          5,
	},
}

// LimitsFor returns the limits of plan; unknown plans get the free tier.
func LimitsFor(plan Plan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}

// CanSubscribeMore reports whether a user on plan with current
// subscriptions may add another one.
func CanSubscribeMore(plan Plan, current int) bool {
	return current < LimitsFor(plan).MaxServices
}
