package pricing

import (
	"context"
	"time"

	"github.com/dinehq/pricingservice/internal/domain"
)

// Forecast prices every canonical slot for each day in [start, end] by
// re-running the composer per slot. The rule snapshot is fetched once for the
// whole range; facts are fetched per (date, slot) as usual.
func (e *Engine) Forecast(ctx context.Context, basePrice float64, start, end time.Time, partySize int) []domain.DayForecast {
	now := e.now()
	rules := e.activeSnapshot(ctx)

	var days []domain.DayForecast
	for date := midnight(start); !date.After(midnight(end)); date = date.AddDate(0, 0, 1) {
		day := domain.DayForecast{Date: date, Slots: make([]domain.SlotPrice, 0, len(e.slots))}
		for _, slot := range e.slots {
			booking := domain.BookingRequest{Date: date, Time: slot, PartySize: partySize}
			facts := loadFacts(ctx, e.occupancy, e.special, rules, date, slot)
			calc := e.calc.Calculate(basePrice, booking, rules, facts, now)
			day.Slots = append(day.Slots, domain.SlotPrice{Date: date, Time: slot, Price: calc.FinalPrice})
		}
		days = append(days, day)
	}
	return days
}

// Recommendations derives a best-value/peak-time summary for one day from
// the forecast prices. Savings is the spread between the most and least
// expensive slot; slots strictly above the day's mean price are peak, the
// rest off-peak.
func (e *Engine) Recommendations(ctx context.Context, basePrice float64, date time.Time, partySize int) domain.Recommendation {
	days := e.Forecast(ctx, basePrice, date, date, partySize)
	rec := domain.Recommendation{Date: midnight(date)}
	if len(days) == 0 || len(days[0].Slots) == 0 {
		return rec
	}
	slots := days[0].Slots

	best := slots[0]
	worst := slots[0]
	var sum float64
	for _, s := range slots {
		if s.Price < best.Price {
			best = s
		}
		if s.Price > worst.Price {
			worst = s
		}
		sum += s.Price
	}
	mean := sum / float64(len(slots))

	rec.BestValue = best
	rec.Savings = worst.Price - best.Price
	for _, s := range slots {
		if s.Price > mean {
			rec.PeakSlots = append(rec.PeakSlots, s)
		} else {
			rec.OffPeakSlots = append(rec.OffPeakSlots, s)
		}
	}
	return rec
}
