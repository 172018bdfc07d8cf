package detection

import (
	"errors"
	"testing"
)

func TestAggregateVerdict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checks   []CheckResult
		wantNet  int
		wantSpam bool
	}{
		{
			name:     "no checks is ham",
			checks:   nil,
			wantNet:  0,
			wantSpam: false,
		},
		{
			name: "positive evidence wins",
			checks: []CheckResult{
				{Code: CheckCodeBayes, Outcome: OutcomeSpam, Confidence: 70},
				{Code: CheckCodeStopWords, Outcome: OutcomeSpam, Confidence: 30},
			},
			wantNet:  100,
			wantSpam: true,
		},
		{
			name: "ham evidence subtracts",
			checks: []CheckResult{
				{Code: CheckCodeBayes, Outcome: OutcomeSpam, Confidence: 40},
				{Code: CheckCodeOpenAI, Outcome: OutcomeClean, Confidence: -90},
			},
			wantNet:  -50,
			wantSpam: false,
		},
		{
			name: "exact zero is not spam",
			checks: []CheckResult{
				{Code: CheckCodeEmoji, Outcome: OutcomeSpam, Confidence: 25},
				{Code: CheckCodeOpenAI, Outcome: OutcomeClean, Confidence: -25},
			},
			wantNet:  0,
			wantSpam: false,
		},
		{
			name: "one point over zero is spam",
			checks: []CheckResult{
				{Code: CheckCodeURLFiltering, Outcome: OutcomeSpam, Confidence: 1},
			},
			wantNet:  1,
			wantSpam: true,
		},
		{
			name: "skipped checks still count their confidence",
			checks: []CheckResult{
				{Code: CheckCodeKnownSpammer, Outcome: OutcomeSkipped, Confidence: 0},
				{Code: CheckCodeBayes, Outcome: OutcomeClean, Confidence: -10},
			},
			wantNet:  -10,
			wantSpam: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			net, spam := Aggregate(tt.checks)
			if net != tt.wantNet || spam != tt.wantSpam {
				t.Fatalf("aggregate = (%d, %v), want (%d, %v)", net, spam, tt.wantNet, tt.wantSpam)
			}
		})
	}
}

func TestNormalizeLegacyCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    CheckCode
		wantErr bool
	}{
		{name: "canonical name", in: "bayes", want: CheckCodeBayes},
		{name: "alias", in: "cas", want: CheckCodeKnownSpammer},
		{name: "already numeric and enumerated", in: "6", want: CheckCodeURLFiltering},
		{name: "numeric but out of enumeration", in: "99", want: CheckCodeUnknown, wantErr: true},
		{name: "numeric sentinel is not accepted", in: "-1", want: CheckCodeUnknown, wantErr: true},
		{name: "unknown name", in: "turbo_filter", want: CheckCodeUnknown, wantErr: true},
		{name: "empty", in: "", want: CheckCodeUnknown, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeLegacyCode(tt.in)
			if got != tt.want {
				t.Fatalf("normalize %q = %v, want %v", tt.in, got, tt.want)
			}
			if tt.wantErr != (err != nil) {
				t.Fatalf("normalize %q error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnrecognizedCheck) {
				t.Fatalf("error = %v, want ErrUnrecognizedCheck", err)
			}
		})
	}
}
