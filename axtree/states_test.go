package axtree

import (
	"reflect"
	"testing"
)

func TestExtractStates(t *testing.T) {
	tests := []struct {
		name    string
		props   []Property
		ignored bool
		want    []State
	}{
		{
			name:  "booleans",
			props: []Property{{"focused", true}, {"disabled", true}},
			want:  []State{StateFocused, StateDisabled},
		},
		{
			name:  "expanded false becomes collapsed",
			props: []Property{{"expanded", false}},
			want:  []State{StateCollapsed},
		},
		{
			name:  "tristate checked string",
			props: []Property{{"checked", "true"}},
			want:  []State{StateChecked},
		},
		{
			name:  "tristate checked false string dropped",
			props: []Property{{"checked", "false"}},
			want:  []State{},
		},
		{
			name:  "busy and modal collapse to active once",
			props: []Property{{"busy", true}, {"modal", true}},
			want:  []State{StateActive},
		},
		{
			name:  "unknown flags skipped",
			props: []Property{{"haspopup", true}, {"level", 2}},
			want:  []State{},
		},
		{
			name:    "ignored forces hidden",
			props:   nil,
			ignored: true,
			want:    []State{StateHidden},
		},
		{
			name:    "ignored does not duplicate hidden",
			props:   []Property{{"hidden", true}},
			ignored: true,
			want:    []State{StateHidden},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractStates(tt.props, tt.ignored)
			if got == nil {
				t.Fatal("extractStates returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
