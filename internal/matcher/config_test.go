package matcher

import (
	"testing"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score    int
		expected MatchType
	}{
		{100, MatchExact},
		{95, MatchExact},
		{94, MatchHigh},
		{80, MatchHigh},
		{79, MatchMedium},
		{70, MatchMedium},
		{69, MatchLow},
		{50, MatchLow},
	}

	for _, tt := range tests {
		if got := ClassifyScore(tt.score); got != tt.expected {
			t.Errorf("ClassifyScore(%d) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.DateToleranceDays != 1 {
		t.Errorf("DateToleranceDays = %d, expected 1", opts.DateToleranceDays)
	}
	if opts.AmountTolerance != 0.01 {
		t.Errorf("AmountTolerance = %f, expected 0.01", opts.AmountTolerance)
	}
	if opts.DescriptionThreshold != 0.7 {
		t.Errorf("DescriptionThreshold = %f, expected 0.7", opts.DescriptionThreshold)
	}
	if opts.UseTime {
		t.Error("UseTime = true, expected false")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("default options failed validation: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "valid options",
			opts: Options{DateToleranceDays: 2, AmountTolerance: 0.05, DescriptionThreshold: 0.5},
		},
		{
			name: "zero tolerances are valid",
			opts: Options{},
		},
		{
			name:    "negative date tolerance",
			opts:    Options{DateToleranceDays: -1},
			wantErr: true,
		},
		{
			name:    "negative amount tolerance",
			opts:    Options{AmountTolerance: -0.01},
			wantErr: true,
		},
		{
			name:    "description threshold above one",
			opts:    Options{DescriptionThreshold: 1.5},
			wantErr: true,
		},
		{
			name:    "description threshold below zero",
			opts:    Options{DescriptionThreshold: -0.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestOptionsClone(t *testing.T) {
	original := DefaultOptions()
	copied := original.Clone()

	copied.DateToleranceDays = 10
	copied.UseTime = true

	if original.DateToleranceDays != 1 || original.UseTime {
		t.Error("mutating the clone changed the original")
	}

	var nilOpts *Options
	if nilOpts.Clone() != nil {
		t.Error("Clone of nil options should be nil")
	}
}

func TestWeightTablesSumToHundred(t *testing.T) {
	for _, useTime := range []bool{true, false} {
		opts := &Options{UseTime: useTime}
		w := opts.weights()
		if sum := w.date + w.time + w.amount + w.description; sum != 100 {
			t.Errorf("weights for UseTime=%t sum to %v, expected 100", useTime, sum)
		}
	}
}

func TestWeightRedistribution(t *testing.T) {
	withTime := (&Options{UseTime: true}).weights()
	withoutTime := (&Options{UseTime: false}).weights()

	if withTime.date != 30 || withTime.time != 10 || withTime.amount != 40 || withTime.description != 20 {
		t.Errorf("UseTime weights = %+v", withTime)
	}
	if withoutTime.date != 35 || withoutTime.time != 0 || withoutTime.amount != 45 || withoutTime.description != 20 {
		t.Errorf("no-time weights = %+v", withoutTime)
	}
}
