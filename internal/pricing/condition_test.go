package pricing

import (
	"testing"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// saturday is 2026-03-14, a Saturday.
var saturday = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func TestMatchesCondition_TimeSlot(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}
	now := saturday.AddDate(0, 0, -3)

	cases := []struct {
		name string
		cond domain.PricingCondition
		want bool
	}{
		{"between hit", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorBetween, Value: []interface{}{"6:00 PM", "9:00 PM"}}, true},
		{"between inclusive edge", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorBetween, Value: []interface{}{"7:00 PM", "9:00 PM"}}, true},
		{"between miss", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorBetween, Value: []interface{}{"11:00 AM", "2:00 PM"}}, false},
		{"equals", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorEquals, Value: "7:00 PM"}, true},
		{"greater_than", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorGreaterThan, Value: "5:00 PM"}, true},
		{"less_than miss", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorLessThan, Value: "5:00 PM"}, false},
		{"in hit", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorIn, Value: []string{"6:00 PM", "7:00 PM"}}, true},
		{"bad value shape", domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorBetween, Value: "7:00 PM"}, false},
	}
	for _, c := range cases {
		if got := matchesCondition(c.cond, booking, Facts{}, now); got != c.want {
			t.Fatalf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMatchesCondition_UnparseableBookingTime(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "late", PartySize: 2}
	cond := domain.PricingCondition{Type: domain.ConditionTimeSlot, Operator: domain.OperatorEquals, Value: "7:00 PM"}
	if matchesCondition(cond, booking, Facts{}, saturday) {
		t.Fatal("unparseable booking time must not match")
	}
}

func TestMatchesCondition_DayOfWeek(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}
	now := saturday.AddDate(0, 0, -3)

	// Saturday is weekday 6; weekends are commonly expressed as in [0, 6].
	weekend := domain.PricingCondition{Type: domain.ConditionDayOfWeek, Operator: domain.OperatorIn, Value: []interface{}{float64(0), float64(6)}}
	if !matchesCondition(weekend, booking, Facts{}, now) {
		t.Fatal("Saturday should match weekend set")
	}

	intSet := domain.PricingCondition{Type: domain.ConditionDayOfWeek, Operator: domain.OperatorIn, Value: []int{0, 6}}
	if !matchesCondition(intSet, booking, Facts{}, now) {
		t.Fatal("typed int slice should narrow like a JSON set")
	}

	monday := booking
	monday.Date = saturday.AddDate(0, 0, 2)
	if matchesCondition(weekend, monday, Facts{}, now) {
		t.Fatal("Monday should not match weekend set")
	}
}

func TestMatchesCondition_PartySize(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 8}
	now := saturday.AddDate(0, 0, -3)

	gt := domain.PricingCondition{Type: domain.ConditionPartySize, Operator: domain.OperatorGreaterThan, Value: float64(6)}
	if !matchesCondition(gt, booking, Facts{}, now) {
		t.Fatal("8 > 6 should match")
	}
	// JSON numbers decode as float64, but int values built in code work too.
	gtInt := domain.PricingCondition{Type: domain.ConditionPartySize, Operator: domain.OperatorGreaterThan, Value: 6}
	if !matchesCondition(gtInt, booking, Facts{}, now) {
		t.Fatal("int condition value should narrow")
	}
	between := domain.PricingCondition{Type: domain.ConditionPartySize, Operator: domain.OperatorBetween, Value: []interface{}{float64(2), float64(8)}}
	if !matchesCondition(between, booking, Facts{}, now) {
		t.Fatal("between is inclusive at both ends")
	}
	eqMiss := domain.PricingCondition{Type: domain.ConditionPartySize, Operator: domain.OperatorEquals, Value: float64(6)}
	if matchesCondition(eqMiss, booking, Facts{}, now) {
		t.Fatal("8 == 6 should not match")
	}
}

func TestMatchesCondition_AdvanceBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 18, 45, 0, 0, time.UTC)
	booking := domain.BookingRequest{Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Time: "7:00 PM", PartySize: 2}

	// 14 days out.
	gt := domain.PricingCondition{Type: domain.ConditionAdvanceBooking, Operator: domain.OperatorGreaterThan, Value: float64(7)}
	if !matchesCondition(gt, booking, Facts{}, now) {
		t.Fatal("14 days > 7 should match")
	}
	lt := domain.PricingCondition{Type: domain.ConditionAdvanceBooking, Operator: domain.OperatorLessThan, Value: float64(14)}
	if matchesCondition(lt, booking, Facts{}, now) {
		t.Fatal("14 days < 14 should not match")
	}
}

func TestMatchesCondition_OccupancyFailClosed(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}
	now := saturday.AddDate(0, 0, -3)
	cond := domain.PricingCondition{Type: domain.ConditionOccupancy, Operator: domain.OperatorGreaterThan, Value: float64(50)}

	if matchesCondition(cond, booking, Facts{OccupancyRate: 90}, now) {
		t.Fatal("unknown occupancy must evaluate false even with a rate set")
	}
	if !matchesCondition(cond, booking, Facts{OccupancyRate: 90, OccupancyKnown: true}, now) {
		t.Fatal("known occupancy 90 > 50 should match")
	}
	if matchesCondition(cond, booking, Facts{OccupancyRate: 30, OccupancyKnown: true}, now) {
		t.Fatal("known occupancy 30 > 50 should not match")
	}
}

func TestMatchesCondition_SpecialDateCollapsesToEquality(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}
	now := saturday.AddDate(0, 0, -3)

	for _, op := range []domain.Operator{domain.OperatorEquals, domain.OperatorGreaterThan, domain.OperatorIn} {
		cond := domain.PricingCondition{Type: domain.ConditionSpecialDate, Operator: op, Value: true}
		if !matchesCondition(cond, booking, Facts{SpecialDate: true, SpecialKnown: true}, now) {
			t.Fatalf("operator %s: special date true should match value true", op)
		}
		if matchesCondition(cond, booking, Facts{SpecialDate: false, SpecialKnown: true}, now) {
			t.Fatalf("operator %s: ordinary date should not match value true", op)
		}
	}

	cond := domain.PricingCondition{Type: domain.ConditionSpecialDate, Operator: domain.OperatorEquals, Value: true}
	if matchesCondition(cond, booking, Facts{SpecialDate: true}, now) {
		t.Fatal("unknown special-date fact must evaluate false")
	}
	nonBool := domain.PricingCondition{Type: domain.ConditionSpecialDate, Operator: domain.OperatorEquals, Value: "yes"}
	if matchesCondition(nonBool, booking, Facts{SpecialDate: true, SpecialKnown: true}, now) {
		t.Fatal("non-boolean special_date value must not match")
	}
}

func TestMatchesCondition_UnknownTypeAndOperator(t *testing.T) {
	booking := domain.BookingRequest{Date: saturday, Time: "7:00 PM", PartySize: 2}
	now := saturday

	unknownType := domain.PricingCondition{Type: "moon_phase", Operator: domain.OperatorEquals, Value: float64(1)}
	if matchesCondition(unknownType, booking, Facts{}, now) {
		t.Fatal("unknown condition type must not match")
	}
	unknownOp := domain.PricingCondition{Type: domain.ConditionPartySize, Operator: "near", Value: float64(2)}
	if matchesCondition(unknownOp, booking, Facts{}, now) {
		t.Fatal("unknown operator must not match")
	}
}
