package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleIntUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexibleInt
		wantErr bool
	}{
		{name: "number", input: `45`, want: 45},
		{name: "numeric string", input: `"30"`, want: 30},
		{name: "padded string", input: `" 25 "`, want: 25},
		{name: "fraction truncates", input: `12.9`, want: 12},
		{name: "fraction string truncates", input: `"7.5"`, want: 7},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"abc"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
		{name: "int32 max", input: `2147483647`, want: 2147483647},
		{name: "too large number", input: `99999999999`, wantErr: true},
		{name: "too large string", input: `"99999999999"`, wantErr: true},
		{name: "too large fraction", input: `"99999999999.0"`, wantErr: true},
		{name: "too small", input: `-99999999999`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req struct {
				Duration FlexibleInt `json:"duration"`
			}
			err := json.Unmarshal([]byte(`{"duration":`+tt.input+`}`), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Duration)
		})
	}
}
