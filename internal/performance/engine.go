package performance

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
)

// Metrics holds the four derived vendor performance figures.
type Metrics struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// Compute derives all four metrics from the vendor's complete order set at
// the given evaluation instant. Every derivation is total: an empty input
// (or empty filtered subset) yields 0, never a division by zero.
func Compute(orders []models.PurchaseOrder, now time.Time) Metrics {
	return Metrics{
		OnTimeDeliveryRate:  OnTimeDeliveryRate(orders, now),
		QualityRatingAvg:    QualityRatingAvg(orders),
		AverageResponseTime: AverageResponseTime(orders),
		FulfillmentRate:     FulfillmentRate(orders),
	}
}

// OnTimeDeliveryRate returns the percentage of completed orders whose
// delivery date is not in the future at the evaluation instant. There is no
// actual-delivery timestamp in the model, so "on time" deliberately means
// "delivery date has already passed"; the value can therefore change with
// the passage of time alone.
func OnTimeDeliveryRate(orders []models.PurchaseOrder, now time.Time) float64 {
	var completed, onTime int
	for _, po := range orders {
		if !po.Completed() {
			continue
		}
		completed++
		if !po.DeliveryDate.After(now) {
			onTime++
		}
	}
	if completed == 0 {
		return 0
	}
	return float64(onTime) / float64(completed) * 100
}

// QualityRatingAvg returns the mean quality rating over completed orders
// that carry a rating. Unrated or non-completed orders are excluded from
// both numerator and denominator.
func QualityRatingAvg(orders []models.PurchaseOrder) float64 {
	var sum float64
	var rated int
	for _, po := range orders {
		if !po.Completed() || po.QualityRating == nil {
			continue
		}
		sum += *po.QualityRating
		rated++
	}
	if rated == 0 {
		return 0
	}
	return sum / float64(rated)
}

// AverageResponseTime returns the mean of (acknowledgment − issue) in
// fractional hours over all acknowledged orders, regardless of status.
// Negative deltas from inconsistent data are not clamped.
func AverageResponseTime(orders []models.PurchaseOrder) float64 {
	var sum float64
	var acknowledged int
	for _, po := range orders {
		if po.AcknowledgmentDate == nil {
			continue
		}
		sum += po.AcknowledgmentDate.Sub(po.IssueDate).Hours()
		acknowledged++
	}
	if acknowledged == 0 {
		return 0
	}
	return sum / float64(acknowledged)
}

// FulfillmentRate returns the percentage of all orders that are completed
// and carry no quality rating. Completed orders with a rating do not count
// as fulfilled under this rule; it mirrors the upstream product behavior
// and must not be "corrected" here.
func FulfillmentRate(orders []models.PurchaseOrder) float64 {
	if len(orders) == 0 {
		return 0
	}
	var successful int
	for _, po := range orders {
		if po.Completed() && po.QualityRating == nil {
			successful++
		}
	}
	return float64(successful) / float64(len(orders)) * 100
}

// Validate range-checks the derived values. Failures indicate a logic
// defect, not a runtime condition; callers surface them and never retry.
func (m Metrics) Validate() error {
	var err error
	if m.OnTimeDeliveryRate < 0 || m.OnTimeDeliveryRate > 100 {
		err = multierr.Append(err, fmt.Errorf("on_time_delivery_rate %v outside [0,100]", m.OnTimeDeliveryRate))
	}
	if m.QualityRatingAvg < 0 || m.QualityRatingAvg > 5 {
		err = multierr.Append(err, fmt.Errorf("quality_rating_avg %v outside [0,5]", m.QualityRatingAvg))
	}
	if m.FulfillmentRate < 0 || m.FulfillmentRate > 100 {
		err = multierr.Append(err, fmt.Errorf("fulfillment_rate %v outside [0,100]", m.FulfillmentRate))
	}
	return err
}
