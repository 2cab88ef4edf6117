package calculator

import "testing"

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{"exact window", []float64{1, 2, 3, 4}, 4, 2.5, false},
		{"uses latest window", []float64{10, 10, 1, 2, 3}, 3, 2, false},
		{"single period", []float64{5}, 1, 5, false},
		{"not enough data", []float64{1, 2}, 3, 0, true},
		{"zero period", []float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSMA(tt.prices, tt.period)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
