package model

import (
	"fmt"
	"time"
)

// Canonical feature names. The regressor was trained on exactly this schema.
const (
	FeatureMarket              = "Market"
	FeatureArrivals            = "Arrivals(Tonnes)"
	FeatureVariety             = "Variety"
	FeatureYear                = "Year"
	FeatureMonth               = "Month"
	FeatureDay                 = "Day"
	FeatureQuarter             = "Quarter"
	FeatureDayOfWeek           = "DayOfWeek"
	FeatureLag1                = "Lag_1"
	FeatureLag2                = "Lag_2"
	FeatureLag3                = "Lag_3"
	FeatureRollingMean7        = "Rolling_Mean_7"
	FeatureRollingMean14       = "Rolling_Mean_14"
	FeatureRollingMean30       = "Rolling_Mean_30"
	FeatureRollingStd7         = "Rolling_Std_7"
	FeatureRollingStd14        = "Rolling_Std_14"
	FeatureRollingStd30        = "Rolling_Std_30"
	FeatureArrivalRollingMean3 = "Arrival_Rolling_Mean_3"
)

// FeatureOrder is the positional order the regressor expects.
// Changing it silently breaks every prediction.
var FeatureOrder = []string{
	FeatureMarket,
	FeatureArrivals,
	FeatureVariety,
	FeatureYear,
	FeatureMonth,
	FeatureDay,
	FeatureQuarter,
	FeatureDayOfWeek,
	FeatureLag1,
	FeatureLag2,
	FeatureLag3,
	FeatureRollingMean7,
	FeatureRollingMean14,
	FeatureRollingMean30,
	FeatureRollingStd7,
	FeatureRollingStd14,
	FeatureRollingStd30,
	FeatureArrivalRollingMean3,
}

// RollingWindows are the price windows used for rolling statistics.
var RollingWindows = []int{7, 14, 30}

// FeatureVector is the model input for one forecast step.
type FeatureVector struct {
	Market         string
	ArrivalsTonnes float64
	Variety        string

	Year      int
	Month     int
	Day       int
	Quarter   int
	DayOfWeek int // Monday=0 ... Sunday=6

	Lag1 float64
	Lag2 float64
	Lag3 float64

	RollingMean7  float64
	RollingMean14 float64
	RollingMean30 float64
	RollingStd7   float64
	RollingStd14  float64
	RollingStd30  float64

	ArrivalRollingMean3 float64
}

// Field is one named entry of a FeatureVector. Categorical fields carry
// their value in Text, numeric ones in Number.
type Field struct {
	Name        string
	Categorical bool
	Text        string
	Number      float64
}

// Fields returns the vector in FeatureOrder.
func (f FeatureVector) Fields() []Field {
	return []Field{
		{Name: FeatureMarket, Categorical: true, Text: f.Market},
		{Name: FeatureArrivals, Number: f.ArrivalsTonnes},
		{Name: FeatureVariety, Categorical: true, Text: f.Variety},
		{Name: FeatureYear, Number: float64(f.Year)},
		{Name: FeatureMonth, Number: float64(f.Month)},
		{Name: FeatureDay, Number: float64(f.Day)},
		{Name: FeatureQuarter, Number: float64(f.Quarter)},
		{Name: FeatureDayOfWeek, Number: float64(f.DayOfWeek)},
		{Name: FeatureLag1, Number: f.Lag1},
		{Name: FeatureLag2, Number: f.Lag2},
		{Name: FeatureLag3, Number: f.Lag3},
		{Name: FeatureRollingMean7, Number: f.RollingMean7},
		{Name: FeatureRollingMean14, Number: f.RollingMean14},
		{Name: FeatureRollingMean30, Number: f.RollingMean30},
		{Name: FeatureRollingStd7, Number: f.RollingStd7},
		{Name: FeatureRollingStd14, Number: f.RollingStd14},
		{Name: FeatureRollingStd30, Number: f.RollingStd30},
		{Name: FeatureArrivalRollingMean3, Number: f.ArrivalRollingMean3},
	}
}

// SetCalendar overwrites the calendar fields from d.
func (f *FeatureVector) SetCalendar(d time.Time) {
	f.Year = d.Year()
	f.Month = int(d.Month())
	f.Day = d.Day()
	f.Quarter = (f.Month-1)/3 + 1
	f.DayOfWeek = (int(d.Weekday()) + 6) % 7
}

// Date rebuilds the calendar date held by the vector.
func (f FeatureVector) Date() time.Time {
	return time.Date(f.Year, time.Month(f.Month), f.Day, 0, 0, 0, 0, time.UTC)
}

// SetRolling stores mean/std for one of the RollingWindows.
func (f *FeatureVector) SetRolling(window int, mean, std float64) error {
	switch window {
	case 7:
		f.RollingMean7, f.RollingStd7 = mean, std
	case 14:
		f.RollingMean14, f.RollingStd14 = mean, std
	case 30:
		f.RollingMean30, f.RollingStd30 = mean, std
	default:
		return fmt.Errorf("unsupported rolling window %d", window)
	}
	return nil
}

// ShiftLags pushes price in as Lag_1 and drops the old Lag_3.
func (f *FeatureVector) ShiftLags(price float64) {
	f.Lag3 = f.Lag2
	f.Lag2 = f.Lag1
	f.Lag1 = price
}
