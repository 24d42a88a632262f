package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/mathutil"
)

// Event is the demand side of a venue/event match: a requested booking.
type Event struct {
	Guests            int
	Budget            float64
	RequiredAmenities []string
	Lat, Lon          float64
}

// Venue is the supply side of a venue/event match.
type Venue struct {
	Capacity  int
	Price     float64
	Amenities []string
	Lat, Lon  float64
}

// CostWeights fuses the four normalized feature-distance matrices into
// a single cost matrix (spec.md §4.2 "Heterogeneous cost matrix").
// Weights need not sum to 1 on input; BuildCostMatrix renormalizes.
type CostWeights struct {
	Capacity float64 `yaml:"capacity" json:"capacity"`
	Price    float64 `yaml:"price" json:"price"`
	Amenity  float64 `yaml:"amenity" json:"amenity"`
	Location float64 `yaml:"location" json:"location"`
}

// DefaultCostWeights returns equal weighting across the four features.
func DefaultCostWeights() CostWeights {
	return CostWeights{Capacity: 0.25, Price: 0.25, Amenity: 0.25, Location: 0.25}
}

const earthRadiusKM = 6371.0

// BuildCostMatrix computes the N x M heterogeneous cost matrix between
// events and venues, per spec.md §4.2. Each of the four raw
// feature-distance matrices is min-max normalized to [0,1] before being
// fused by weights.
func BuildCostMatrix(events []Event, venues []Venue, weights CostWeights) (*CostMatrix, error) {
	n, m := len(events), len(venues)
	if n == 0 {
		return nil, coreerr.NewFieldError("events", "must be non-empty")
	}
	if m == 0 {
		return nil, coreerr.NewFieldError("venues", "must be non-empty")
	}

	capD := make([]float64, n*m)
	priceD := make([]float64, n*m)
	amenityD := make([]float64, n*m)
	locD := make([]float64, n*m)

	for i, e := range events {
		for j, v := range venues {
			idx := i*m + j
			capD[idx] = CapacityDistance(e, v)
			priceD[idx] = PriceDistance(e, v)
			amenityD[idx] = AmenityDistance(e, v)
			locD[idx] = LocationDistance(e, v)
		}
	}

	mathutil.MinMaxNormalize(capD)
	mathutil.MinMaxNormalize(priceD)
	mathutil.MinMaxNormalize(amenityD)
	mathutil.MinMaxNormalize(locD)

	sum := weights.Capacity + weights.Price + weights.Amenity + weights.Location
	if sum <= 0 {
		sum = 1
	}
	wc, wp, wa, wl := weights.Capacity/sum, weights.Price/sum, weights.Amenity/sum, weights.Location/sum

	c := NewCostMatrix(n, m)
	for idx := range c.Data {
		c.Data[idx] = wc*capD[idx] + wp*priceD[idx] + wa*amenityD[idx] + wl*locD[idx]
	}
	return c, nil
}

// CapacityDistance scores how poorly v's capacity fits e's guest count:
// undercapacity is penalized more heavily than overcapacity, both scaled
// by guest count.
func CapacityDistance(e Event, v Venue) float64 {
	guests := math.Max(float64(e.Guests), 1)
	if v.Capacity < e.Guests {
		shortfall := float64(e.Guests - v.Capacity)
		return 2.0 * shortfall / guests
	}
	excess := float64(v.Capacity - e.Guests)
	return 0.3 * excess / guests
}

// PriceDistance scores how poorly v's price fits e's budget: going over
// budget is penalized far more heavily than coming in under it, and is
// capped so a wildly over-budget venue doesn't dominate the fused cost.
func PriceDistance(e Event, v Venue) float64 {
	budget := math.Max(e.Budget, 1e-9)
	if v.Price > e.Budget {
		over := v.Price - e.Budget
		return math.Min(1.5*over/budget, 3.0)
	}
	under := e.Budget - v.Price
	return 0.1 * under / budget
}

// AmenityDistance is the fraction of e's required amenities v lacks; 0
// when e requires none.
func AmenityDistance(e Event, v Venue) float64 {
	if len(e.RequiredAmenities) == 0 {
		return 0
	}
	have := make(map[string]bool, len(v.Amenities))
	for _, a := range v.Amenities {
		have[a] = true
	}
	missing := 0
	for _, req := range e.RequiredAmenities {
		if !have[req] {
			missing++
		}
	}
	return float64(missing) / float64(len(e.RequiredAmenities))
}

// LocationDistance is the great-circle distance in kilometers between
// e's and v's coordinates, via the haversine formula.
func LocationDistance(e Event, v Venue) float64 {
	p1, p2 := toRadians(e.Lat), toRadians(v.Lat)
	dp := toRadians(v.Lat - e.Lat)
	dl := toRadians(v.Lon - e.Lon)
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
