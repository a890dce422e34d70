package formatting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dai/internal/maker"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name:  "settings",
			input: map[string]interface{}{"url": "http://localhost:8545?a=1&b=2", "pollInterval": "5s"},
			want:  "{\n  \"pollInterval\": \"5s\",\n  \"url\": \"http://localhost:8545?a=1&b=2\"\n}",
		},
		{
			name:  "status",
			input: maker.ServiceStatus{Name: "log", Type: "LOCAL", State: "READY", Ready: true},
			want:  "{\n  \"name\": \"log\",\n  \"type\": \"LOCAL\",\n  \"state\": \"READY\",\n  \"ready\": true\n}",
		},
		{name: "list", input: []string{"log", "timer"}, want: "[\n  \"log\",\n  \"timer\"\n]"},
		{name: "nil", input: nil, want: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrettyJSON(tt.input))
		})
	}
}

func TestPrettyJSON_Unencodable(t *testing.T) {
	out := PrettyJSON(make(chan int))
	assert.NotEmpty(t, out)
	assert.NotEqual(t, "null", out)
}
