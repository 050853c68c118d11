package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sumShares(splits []models.ExpenseSplit) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.ShareAmount)
	}
	return total
}

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		splitType    models.SplitType
		inputs       []SplitInput
		wantErr      bool
		validateFunc func(t *testing.T, splits []models.ExpenseSplit)
	}{
		{
			name:      "equal split three ways",
			amount:    "150",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}, {UserID: "B"}, {UserID: "C"}},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				for _, s := range splits {
					if !s.ShareAmount.Equal(dec("50")) {
						t.Errorf("%s share = %s, want 50", s.UserID, s.ShareAmount)
					}
				}
			},
		},
		{
			name:      "equal split distributes leftover cents",
			amount:    "100",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}, {UserID: "B"}, {UserID: "C"}},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				want := []string{"33.34", "33.33", "33.33"}
				for i, s := range splits {
					if !s.ShareAmount.Equal(dec(want[i])) {
						t.Errorf("%s share = %s, want %s", s.UserID, s.ShareAmount, want[i])
					}
				}
			},
		},
		{
			name:      "equal split of an amount beyond int64 cents",
			amount:    "100000000000000000.00",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}, {UserID: "B"}},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				for _, s := range splits {
					if !s.ShareAmount.Equal(dec("50000000000000000")) {
						t.Errorf("%s share = %s, want 50000000000000000", s.UserID, s.ShareAmount)
					}
				}
			},
		},
		{
			name:      "equal split of a huge amount distributes leftover cents",
			amount:    "92233720368547758.10",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}, {UserID: "B"}, {UserID: "C"}},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				want := []string{"30744573456182586.04", "30744573456182586.03", "30744573456182586.03"}
				for i, s := range splits {
					if !s.ShareAmount.Equal(dec(want[i])) {
						t.Errorf("%s share = %s, want %s", s.UserID, s.ShareAmount, want[i])
					}
				}
			},
		},
		{
			name:      "exact split",
			amount:    "90",
			splitType: models.SplitExact,
			inputs: []SplitInput{
				{UserID: "A", ShareAmount: decPtr("10")},
				{UserID: "B", ShareAmount: decPtr("80")},
			},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				if !splits[1].ShareAmount.Equal(dec("80")) {
					t.Errorf("B share = %s, want 80", splits[1].ShareAmount)
				}
			},
		},
		{
			name:      "exact split total mismatch",
			amount:    "90",
			splitType: models.SplitExact,
			inputs: []SplitInput{
				{UserID: "A", ShareAmount: decPtr("10")},
				{UserID: "B", ShareAmount: decPtr("70")},
			},
			wantErr: true,
		},
		{
			name:      "exact split missing amount",
			amount:    "90",
			splitType: models.SplitExact,
			inputs:    []SplitInput{{UserID: "A"}},
			wantErr:   true,
		},
		{
			name:      "exact split negative share",
			amount:    "10",
			splitType: models.SplitExact,
			inputs: []SplitInput{
				{UserID: "A", ShareAmount: decPtr("15")},
				{UserID: "B", ShareAmount: decPtr("-5")},
			},
			wantErr: true,
		},
		{
			name:      "percentage split with remainder on last participant",
			amount:    "100",
			splitType: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", SharePercentage: decPtr("33.333")},
				{UserID: "B", SharePercentage: decPtr("33.333")},
				{UserID: "C", SharePercentage: decPtr("33.334")},
			},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				want := []string{"33.33", "33.33", "33.34"}
				for i, s := range splits {
					if !s.ShareAmount.Equal(dec(want[i])) {
						t.Errorf("%s share = %s, want %s", s.UserID, s.ShareAmount, want[i])
					}
					if s.SharePercentage == nil {
						t.Errorf("%s percentage not recorded", s.UserID)
					}
				}
			},
		},
		{
			name:      "percentages must sum to 100",
			amount:    "100",
			splitType: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", SharePercentage: decPtr("50")},
				{UserID: "B", SharePercentage: decPtr("49")},
			},
			wantErr: true,
		},
		{
			name:      "percentages within tolerance are accepted",
			amount:    "10",
			splitType: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", SharePercentage: decPtr("50")},
				{UserID: "B", SharePercentage: decPtr("49.995")},
			},
		},
		{
			name:      "zero amount should error",
			amount:    "0",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}},
			wantErr:   true,
		},
		{
			name:      "sub-cent amount should error",
			amount:    "10.001",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}},
			wantErr:   true,
		},
		{
			name:      "no participants should error",
			amount:    "10",
			splitType: models.SplitEqual,
			wantErr:   true,
		},
		{
			name:      "duplicate participant should error",
			amount:    "10",
			splitType: models.SplitEqual,
			inputs:    []SplitInput{{UserID: "A"}, {UserID: "A"}},
			wantErr:   true,
		},
		{
			name:      "unknown split type",
			amount:    "10",
			splitType: models.SplitType("shares"),
			inputs:    []SplitInput{{UserID: "A"}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec(tt.amount)
			splits, err := CalculateSplit(amount, tt.splitType, tt.inputs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CalculateSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSplit) {
					t.Errorf("error %v does not wrap ErrInvalidSplit", err)
				}
				return
			}
			if tt.splitType != models.SplitExact && !sumShares(splits).Equal(amount) {
				t.Errorf("shares sum to %s, want %s", sumShares(splits), amount)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}
