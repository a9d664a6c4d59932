package pricing

import (
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// matchesCondition evaluates a single condition against the booking and the
// fact snapshot. It is pure and fail-closed: a value whose shape cannot be
// narrowed for the operator, or a fact the collaborators could not supply,
// makes the condition false rather than raising an error.
func matchesCondition(c domain.PricingCondition, booking domain.BookingRequest, facts Facts, now time.Time) bool {
	switch c.Type {
	case domain.ConditionTimeSlot:
		minutes, err := parseClockMinutes(booking.Time)
		if err != nil {
			return false
		}
		return compareClock(c.Operator, minutes, c.Value)

	case domain.ConditionDayOfWeek:
		// Sunday=0 .. Saturday=6, matching time.Weekday.
		return compareNumber(c.Operator, float64(booking.Date.Weekday()), c.Value)

	case domain.ConditionPartySize:
		return compareNumber(c.Operator, float64(booking.PartySize), c.Value)

	case domain.ConditionAdvanceBooking:
		return compareNumber(c.Operator, float64(daysUntil(now, booking.Date)), c.Value)

	case domain.ConditionOccupancy:
		if !facts.OccupancyKnown {
			return false
		}
		return compareNumber(c.Operator, facts.OccupancyRate, c.Value)

	case domain.ConditionSpecialDate:
		// Special dates are not ranked, so every operator collapses to
		// equality against the boolean membership result.
		if !facts.SpecialKnown {
			return false
		}
		want, ok := asBool(c.Value)
		if !ok {
			return false
		}
		return facts.SpecialDate == want

	default:
		return false
	}
}

// compareNumber applies the operator to a numeric booking attribute.
func compareNumber(op domain.Operator, actual float64, value interface{}) bool {
	switch op {
	case domain.OperatorEquals:
		v, ok := asFloat(value)
		return ok && actual == v
	case domain.OperatorGreaterThan:
		v, ok := asFloat(value)
		return ok && actual > v
	case domain.OperatorLessThan:
		v, ok := asFloat(value)
		return ok && actual < v
	case domain.OperatorBetween:
		lo, hi, ok := asFloatPair(value)
		return ok && actual >= lo && actual <= hi
	case domain.OperatorIn:
		set, ok := asSlice(value)
		if !ok {
			return false
		}
		for _, item := range set {
			if v, ok := asFloat(item); ok && actual == v {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareClock applies the operator to a booking time, with the condition
// value holding reference clock strings rather than numbers.
func compareClock(op domain.Operator, actualMinutes int, value interface{}) bool {
	switch op {
	case domain.OperatorEquals, domain.OperatorGreaterThan, domain.OperatorLessThan:
		ref, ok := asClockMinutes(value)
		if !ok {
			return false
		}
		switch op {
		case domain.OperatorEquals:
			return actualMinutes == ref
		case domain.OperatorGreaterThan:
			return actualMinutes > ref
		default:
			return actualMinutes < ref
		}
	case domain.OperatorBetween:
		pair, ok := asSlice(value)
		if !ok || len(pair) != 2 {
			return false
		}
		lo, okLo := asClockMinutes(pair[0])
		hi, okHi := asClockMinutes(pair[1])
		return okLo && okHi && actualMinutes >= lo && actualMinutes <= hi
	case domain.OperatorIn:
		set, ok := asSlice(value)
		if !ok {
			return false
		}
		for _, item := range set {
			if ref, ok := asClockMinutes(item); ok && actualMinutes == ref {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// asFloat narrows a polymorphic condition value to a number. JSON decoding
// produces float64; rules built in code may carry Go integer types.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asFloatPair(v interface{}) (float64, float64, bool) {
	pair, ok := asSlice(v)
	if !ok || len(pair) != 2 {
		return 0, 0, false
	}
	lo, okLo := asFloat(pair[0])
	hi, okHi := asFloat(pair[1])
	if !okLo || !okHi {
		return 0, 0, false
	}
	return lo, hi, true
}

// asSlice narrows pair and set values. JSON decoding yields []interface{};
// rules built in code may use typed slices.
func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []float64:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []int:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func asClockMinutes(v interface{}) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	minutes, err := parseClockMinutes(s)
	if err != nil {
		return 0, false
	}
	return minutes, true
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
